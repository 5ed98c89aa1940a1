package actions

import (
	"fmt"
	"strings"
	"time"

	"dotsync.dev/dotsync/internal/git"
	"dotsync.dev/dotsync/internal/runtime"
	"dotsync.dev/dotsync/internal/tui"
)

// StatusOptions contains options for the status command
type StatusOptions struct {
	// Color styles the output for a terminal
	Color bool
	// Now is the time used in the commit message preview
	Now func() time.Time
}

// StatusAction prints the local changes and the commit message the next sync would use
func StatusAction(ctx *runtime.Context, opts StatusOptions) error {
	repo := ctx.Repo
	splog := ctx.Splog

	entries, err := repo.Status(ctx.Context)
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	branch, err := repo.Branch()
	if err != nil {
		splog.Debug("cannot determine branch: %v", err)
		branch = "(detached)"
	}
	if !repo.HasRemote() {
		splog.Warn("remote %s is not configured in %s", repo.Remote(), repo.Path())
	}

	splog.Page(RenderStatus(repo.Path(), branch, entries, opts.Color))

	if len(entries) == 0 {
		return nil
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	msg := git.NewCommitMessage(repo.Name(), now(), git.Committable(entries))
	splog.Newline()
	splog.Page(msg.String())

	if unmerged := git.Unmerged(entries); len(unmerged) > 0 {
		splog.Warn("%d file(s) need manual conflict resolution and will not be synced", len(unmerged))
	}
	return nil
}

// RenderStatus formats the status entries of a working tree, one per line
func RenderStatus(path, branch string, entries []git.StatusEntry, color bool) string {
	var b strings.Builder

	header := fmt.Sprintf("%s on %s", path, branch)
	if color {
		header = tui.ColorBold(path) + " on " + tui.ColorCyan(branch)
	}
	b.WriteString(header)
	b.WriteString("\n")

	if len(entries) == 0 {
		line := "nothing to sync, working tree clean"
		if color {
			line = tui.ColorDim(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
		return b.String()
	}

	for _, e := range entries {
		flags := e.Flags()
		if color {
			flags = tui.ColorStatusFlag(e.IndexState, e.TreeState)
		}
		b.WriteString("  ")
		b.WriteString(flags)
		b.WriteString(" ")
		b.WriteString(e.FromPath)
		if e.IsRename() {
			b.WriteString(" -> ")
			b.WriteString(e.ToPath)
		}
		b.WriteString("\n")
	}
	return b.String()
}
