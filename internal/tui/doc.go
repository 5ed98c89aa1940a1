// Package tui provides terminal output for dotsync.
//
// It handles:
//   - Structured logging to the console and a rotating log file (Splog)
//   - Terminal styling and colors (using lipgloss)
//   - The stage display shown by `dotsync sync` (using bubbletea)
//   - Interactive prompts for `dotsync config init` (using survey)
package tui
