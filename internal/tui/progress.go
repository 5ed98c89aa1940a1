package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StageStatus is the display state of one sync stage
type StageStatus int

// Stage display states
const (
	StagePending StageStatus = iota
	StageRunning
	StageDone
	StageFailed
	StageSkipped
)

// StageMsg reports a stage changing state
type StageMsg struct {
	Stage  string
	Status StageStatus
	Err    error
}

// SyncDoneMsg signals the sync finished
type SyncDoneMsg struct {
	Err error
}

type stageRow struct {
	name   string
	status StageStatus
}

// SyncProgressModel is the bubbletea model showing the stages of a sync
type SyncProgressModel struct {
	rows     []stageRow
	spinner  spinner.Model
	events   <-chan tea.Msg
	done     bool
	quitting bool
	err      error
	styles   progressStyles
}

type progressStyles struct {
	spinnerStyle lipgloss.Style
	doneStyle    lipgloss.Style
	errorStyle   lipgloss.Style
	stageStyle   lipgloss.Style
	dimStyle     lipgloss.Style
}

// NewSyncProgressModel creates a model listing stages, fed by events
func NewSyncProgressModel(stages []string, events <-chan tea.Msg) SyncProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	rows := make([]stageRow, len(stages))
	for i, name := range stages {
		rows[i] = stageRow{name: name}
	}

	return SyncProgressModel{
		rows:    rows,
		spinner: s,
		events:  events,
		styles: progressStyles{
			spinnerStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
			doneStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			errorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
			stageStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
			dimStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		},
	}
}

// waitForEvent reads the next message from the sync goroutine
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return SyncDoneMsg{}
		}
		return msg
	}
}

func (m SyncProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func (m SyncProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StageMsg:
		for i := range m.rows {
			if m.rows[i].name == msg.Stage {
				m.rows[i].status = msg.Status
			}
		}
		return m, waitForEvent(m.events)

	case SyncDoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

func (m SyncProgressModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")

	for _, row := range m.rows {
		var icon, status string

		switch row.status {
		case StagePending:
			icon = m.styles.dimStyle.Render("○")
			if m.done {
				status = m.styles.dimStyle.Render("not run")
			}
		case StageRunning:
			icon = m.spinner.View()
			status = m.styles.spinnerStyle.Render("running...")
		case StageDone:
			icon = m.styles.doneStyle.Render("✓")
		case StageSkipped:
			icon = m.styles.dimStyle.Render("-")
			status = m.styles.dimStyle.Render("skipped")
		case StageFailed:
			icon = m.styles.errorStyle.Render("✗")
			status = m.styles.errorStyle.Render("failed")
		}

		line := fmt.Sprintf("  %s %s", icon, m.styles.stageStyle.Render(row.name))
		if status != "" {
			line += " " + status
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.done {
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(m.styles.errorStyle.Render("Sync failed"))
		} else {
			b.WriteString(m.styles.doneStyle.Render("✓ Synchronized"))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Err returns the error the sync finished with
func (m SyncProgressModel) Err() error {
	return m.err
}

// ReportFunc updates the display of a stage
type ReportFunc func(stage string, status StageStatus, err error)

// RunSyncProgress shows the stages while run executes in the background.
// Pressing Ctrl+C cancels the context passed to run. Returns the error of run
// once it has finished.
func RunSyncProgress(ctx context.Context, out io.Writer, stages []string, run func(ctx context.Context, report ReportFunc) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tea.Msg)
	result := make(chan error, 1)
	go func() {
		defer close(events)
		err := run(ctx, func(stage string, status StageStatus, err error) {
			select {
			case events <- StageMsg{Stage: stage, Status: status, Err: err}:
			case <-ctx.Done():
			}
		})
		result <- err
		select {
		case events <- SyncDoneMsg{Err: err}:
		case <-ctx.Done():
		}
	}()

	p := tea.NewProgram(NewSyncProgressModel(stages, events), tea.WithOutput(out), tea.WithContext(ctx))
	// A display failure does not stop the sync.
	final, _ := p.Run()
	if m, ok := final.(SyncProgressModel); ok && m.quitting {
		cancel()
	}
	go func() {
		for range events {
		}
	}()

	return <-result
}
