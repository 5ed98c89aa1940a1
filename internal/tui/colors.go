package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// ColorRed colors text red
func ColorRed(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("1")).
		Render(text)
}

// ColorGreen colors text green
func ColorGreen(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("2")).
		Render(text)
}

// ColorYellow colors text yellow
func ColorYellow(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("3")).
		Render(text)
}

// ColorCyan colors text cyan
func ColorCyan(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("6")).
		Render(text)
}

// ColorDim makes text dim/gray
func ColorDim(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Render(text)
}

// ColorBold makes text bold
func ColorBold(text string) string {
	return lipgloss.NewStyle().Bold(true).Render(text)
}

// ColorStatusFlag colors a porcelain status code by its meaning:
// conflicts red, staged changes green, untracked dim, everything else yellow.
func ColorStatusFlag(index, tree byte) string {
	flags := string([]byte{index, tree})
	switch {
	case index == 'U' || tree == 'U':
		return ColorRed(flags)
	case index == '?':
		return ColorDim(flags)
	case index != ' ' && tree == ' ':
		return ColorGreen(flags)
	default:
		return ColorYellow(flags)
	}
}

// IsTTY returns true if stdout is a terminal
func IsTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
