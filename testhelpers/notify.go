package testhelpers

import "sync"

// Notification is one notification captured by a Recorder
type Notification struct {
	Summary string
	Body    string
}

// Recorder is a notify.Notifier that captures notifications
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

// Notify records the notification
func (r *Recorder) Notify(summary, body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, Notification{Summary: summary, Body: body})
}

// Notifications returns the captured notifications in order
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notifications...)
}
