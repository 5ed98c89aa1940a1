package git

import (
	"strings"
	"time"
)

// CommitMessage is the message dotsync commits local changes with.
type CommitMessage struct {
	Name    string
	At      time.Time
	Entries []StatusEntry
}

// NewCommitMessage builds the message for a sync from host name name at time at
func NewCommitMessage(name string, at time.Time, entries []StatusEntry) CommitMessage {
	cp := make([]StatusEntry, len(entries))
	copy(cp, entries)
	return CommitMessage{Name: name, At: at, Entries: cp}
}

// Header returns the first line of the message
func (m CommitMessage) Header() string {
	return "dotsync: " + m.Name + " " + m.At.Format(time.RFC3339)
}

func (m CommitMessage) String() string {
	var b strings.Builder
	b.WriteString(m.Header())
	b.WriteString("\n")
	if len(m.Entries) > 0 {
		b.WriteString("\n")
	}
	for _, e := range m.Entries {
		b.WriteString(e.String())
		b.WriteString("\n")
	}
	return b.String()
}
