//go:build linux

package notify

// platformCommand uses notify-send from libnotify on Linux
func platformCommand(summary, body string) (string, []string) {
	return "notify-send", []string{"--app-name=dotsync", summary, body}
}
