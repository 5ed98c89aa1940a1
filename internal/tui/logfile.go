package tui

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// EnvLogFile overrides the log file location
const EnvLogFile = "DOTSYNC_LOG_FILE"

// GetLogFilePath returns the path to the log file.
// If DOTSYNC_LOG_FILE is set, uses that path.
// Otherwise, uses $XDG_STATE_HOME/dotsync/dotsync.log
func GetLogFilePath() string {
	if customPath := os.Getenv(EnvLogFile); customPath != "" {
		return customPath
	}
	return filepath.Join(xdg.StateHome, "dotsync", "dotsync.log")
}
