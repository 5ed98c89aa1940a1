package tui

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"dotsync.dev/dotsync/internal/config"
)

// ErrInteractiveDisabled is returned when prompts cannot be shown
var ErrInteractiveDisabled = errors.New("interactive prompts need a terminal")

// PromptConfig asks for the settings of a new configuration, offering the
// current values of cfg as defaults, and stores the answers in cfg.
func PromptConfig(cfg *config.Config) error {
	if !IsTTY() {
		return ErrInteractiveDisabled
	}

	questions := []*survey.Question{
		{
			Name:     "repo",
			Prompt:   &survey.Input{Message: "Repository to synchronize:", Default: cfg.Repo},
			Validate: survey.Required,
		},
		{
			Name:     "name",
			Prompt:   &survey.Input{Message: "Name of this host in commit messages:", Default: cfg.Name},
			Validate: survey.Required,
		},
		{
			Name:     "remote",
			Prompt:   &survey.Input{Message: "Remote to pull from and push to:", Default: cfg.Remote},
			Validate: survey.Required,
		},
		{
			Name:   "notify",
			Prompt: &survey.Confirm{Message: "Show desktop notifications for conflicts and failures?", Default: cfg.Notify},
		},
	}

	answers := struct {
		Repo   string `survey:"repo"`
		Name   string `survey:"name"`
		Remote string `survey:"remote"`
		Notify bool   `survey:"notify"`
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return fmt.Errorf("canceled: %w", err)
	}

	cfg.Repo = config.ExpandHome(answers.Repo)
	cfg.Name = answers.Name
	cfg.Remote = answers.Remote
	cfg.Notify = answers.Notify
	return nil
}
