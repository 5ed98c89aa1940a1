// Package notify delivers out-of-band attention signals, such as desktop
// notifications, for unattended syncs.
package notify

import (
	"context"
	"os/exec"
	"time"
)

// DefaultTimeout bounds how long a desktop notification may take to deliver
const DefaultTimeout = 5 * time.Second

// Notifier raises a notification. Delivery is fire-and-forget: implementations
// must not block for long and never report failure to the caller.
type Notifier interface {
	Notify(summary, body string)
}

// Logger receives delivery failures
type Logger interface {
	Debug(format string, args ...interface{})
	Warn(format string, args ...interface{})
}

// Func adapts a function to the Notifier interface
type Func func(summary, body string)

// Notify calls f(summary, body)
func (f Func) Notify(summary, body string) {
	f(summary, body)
}

// Disabled drops every notification
type Disabled struct{}

// Notify does nothing
func (Disabled) Notify(string, string) {}

// Desktop shows notifications through the platform's notification command
type Desktop struct {
	logger  Logger
	timeout time.Duration
	// command returns the program and arguments used to show a notification.
	// An empty program means the platform has no notification command.
	command func(summary, body string) (string, []string)
}

// NewDesktop creates a desktop notifier for the current platform
func NewDesktop(logger Logger) *Desktop {
	return &Desktop{
		logger:  logger,
		timeout: DefaultTimeout,
		command: platformCommand,
	}
}

// Notify shows the notification, logging instead when delivery is unavailable or fails
func (d *Desktop) Notify(summary, body string) {
	program, args := d.command(summary, body)
	if program == "" {
		d.logger.Warn("%s: %s", summary, body)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	// #nosec G204 -- program is fixed per platform, summary and body are passed as arguments
	if out, err := exec.CommandContext(ctx, program, args...).CombinedOutput(); err != nil {
		d.logger.Debug("notification via %s failed: %v %s", program, err, out)
		d.logger.Warn("%s: %s", summary, body)
		return
	}
	d.logger.Debug("notified: %s", summary)
}

// New returns a desktop notifier when enabled, otherwise one that drops everything
func New(enabled bool, logger Logger) Notifier {
	if !enabled {
		return Disabled{}
	}
	return NewDesktop(logger)
}
