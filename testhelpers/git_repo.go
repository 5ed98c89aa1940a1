package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitRepo is a git working tree driven by the real git executable, for tests.
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a new repository in dir on branch main.
func NewGitRepo(dir string) (*GitRepo, error) {
	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "-c", "core.autocrlf=false", "init", dir, "-b", "main")
	cmd.Env = gitEnv()
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("failed to init repo: %w: %s", err, out)
	}

	repo := &GitRepo{Dir: dir}
	if err := repo.configure(); err != nil {
		return nil, err
	}
	return repo, nil
}

// CloneGitRepo clones remote into dir.
func CloneGitRepo(remote, dir string) (*GitRepo, error) {
	cmd := exec.Command("git", "clone", remote, dir)
	cmd.Env = gitEnv()
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("failed to clone repo: %w: %s", err, out)
	}

	repo := &GitRepo{Dir: dir}
	if err := repo.configure(); err != nil {
		return nil, err
	}
	return repo, nil
}

// configure sets a local identity so commits work without a global config.
// The settings are local because dotsync itself runs git with the caller's environment.
func (r *GitRepo) configure() error {
	settings := [][2]string{
		{"user.name", "Test User"},
		{"user.email", "test@example.com"},
		{"commit.gpgsign", "false"},
		{"core.autocrlf", "false"},
	}
	for _, s := range settings {
		if err := r.Run("config", s[0], s[1]); err != nil {
			return err
		}
	}
	return nil
}

// gitEnv keeps the global git config of the machine running the tests out of the way.
func gitEnv() []string {
	return append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
}

// Run executes a git command in the repository directory.
func (r *GitRepo) Run(args ...string) error {
	_, err := r.Output(args...)
	return err
}

// Output executes a git command and returns its trimmed stdout.
func (r *GitRepo) Output(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = gitEnv()

	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, stderr.String())
	}
	return strings.TrimSpace(string(out)), nil
}

// WriteFile writes content to a file relative to the working tree root.
func (r *GitRepo) WriteFile(name, content string) error {
	path := filepath.Join(r.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ReadFile returns the content of a file relative to the working tree root.
func (r *GitRepo) ReadFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.Dir, name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// CommitFile writes a file and commits it.
func (r *GitRepo) CommitFile(name, content, message string) error {
	if err := r.WriteFile(name, content); err != nil {
		return err
	}
	if err := r.Run("add", name); err != nil {
		return err
	}
	return r.Run("commit", "-m", message)
}

// CreateBareRemote creates a bare repository next to the working tree and adds it as a remote.
// Returns the path to the bare repository.
func (r *GitRepo) CreateBareRemote(name string) (string, error) {
	bareDir := r.Dir + "-" + name + ".git"

	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "init", "--bare", bareDir)
	cmd.Env = gitEnv()
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("failed to create bare repo: %w: %s", err, out)
	}

	if err := r.Run("remote", "add", name, bareDir); err != nil {
		return "", fmt.Errorf("failed to add remote: %w", err)
	}
	return bareDir, nil
}

// HeadSubject returns the subject line of the latest commit.
func (r *GitRepo) HeadSubject() (string, error) {
	return r.Output("log", "-1", "--format=%s")
}

// CommitMessages returns the full messages of the commits on the current branch, newest first.
func (r *GitRepo) CommitMessages() ([]string, error) {
	out, err := r.Output("log", "--format=%B%x00")
	if err != nil {
		return nil, err
	}
	var messages []string
	for _, m := range strings.Split(out, "\x00") {
		if m = strings.TrimSpace(m); m != "" {
			messages = append(messages, m)
		}
	}
	return messages, nil
}

// CommitCount returns the number of commits reachable from rev.
func (r *GitRepo) CommitCount(rev string) (int, error) {
	out, err := r.Output("rev-list", "--count", rev)
	if err != nil {
		return 0, err
	}
	var count int
	if _, err := fmt.Sscanf(out, "%d", &count); err != nil {
		return 0, fmt.Errorf("failed to parse commit count: %w", err)
	}
	return count, nil
}

// RebaseInProgress reports whether a rebase stopped in this working tree.
func (r *GitRepo) RebaseInProgress() bool {
	for _, dir := range []string{"rebase-merge", "rebase-apply"} {
		if _, err := os.Stat(filepath.Join(r.Dir, ".git", dir)); err == nil {
			return true
		}
	}
	return false
}
