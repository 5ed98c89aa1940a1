package git

import "fmt"

// Porcelain status codes
const (
	StateUnmodified byte = ' '
	StateModified   byte = 'M'
	StateAdded      byte = 'A'
	StateDeleted    byte = 'D'
	StateRenamed    byte = 'R'
	StateUnmerged   byte = 'U'
	StateUntracked  byte = '?'
)

// StatusEntry is one change in the working tree as reported by git status.
type StatusEntry struct {
	// IndexState is the state of the staging area relative to HEAD
	IndexState byte
	// TreeState is the state of the working tree relative to the staging area
	TreeState byte
	FromPath  string
	// ToPath is only set for renames
	ToPath string
}

// IsUnmerged reports whether the path is left conflicted by a merge or rebase
func (e StatusEntry) IsUnmerged() bool {
	return e.IndexState == StateUnmerged || e.TreeState == StateUnmerged
}

// IsRename reports whether the entry carries a destination path
func (e StatusEntry) IsRename() bool {
	return e.IndexState == StateRenamed
}

// IsUntracked reports whether the path is not known to git yet
func (e StatusEntry) IsUntracked() bool {
	return e.IndexState == StateUntracked
}

// EffectivePath returns the path to stage and display.
func (e StatusEntry) EffectivePath() string {
	if e.ToPath != "" {
		return e.ToPath
	}
	return e.FromPath
}

// Flags returns the two-character status code, e.g. " M" or "R ".
func (e StatusEntry) Flags() string {
	return string([]byte{e.IndexState, e.TreeState})
}

func (e StatusEntry) String() string {
	if e.IsRename() {
		return fmt.Sprintf("%s %s -> %s", e.Flags(), e.FromPath, e.ToPath)
	}
	return fmt.Sprintf("%s %s", e.Flags(), e.FromPath)
}

// Unmerged returns the entries that need manual conflict resolution
func Unmerged(entries []StatusEntry) []StatusEntry {
	var out []StatusEntry
	for _, e := range entries {
		if e.IsUnmerged() {
			out = append(out, e)
		}
	}
	return out
}

// Committable returns the entries that may go into a commit, dropping unmerged paths
func Committable(entries []StatusEntry) []StatusEntry {
	out := make([]StatusEntry, 0, len(entries))
	for _, e := range entries {
		if !e.IsUnmerged() {
			out = append(out, e)
		}
	}
	return out
}
