//go:build darwin

package notify

import "strconv"

// platformCommand uses AppleScript on macOS
func platformCommand(summary, body string) (string, []string) {
	script := "display notification " + strconv.Quote(body) + " with title " + strconv.Quote(summary)
	return "osascript", []string{"-e", script}
}
