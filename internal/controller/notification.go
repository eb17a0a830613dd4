package controller

import "time"

// NotificationType distinguishes success from error notifications.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// Notification is the single transient user-facing message. A new one
// replaces the old; it expires after the controller's TTL or on explicit
// dismissal.
type Notification struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
	At      time.Time        `json:"at"`
}

func (c *Controller) notifySuccess(message string) {
	c.setNotification(Notification{Type: NotificationSuccess, Message: message})
}

func (c *Controller) notifyError(message string) {
	c.setNotification(Notification{Type: NotificationError, Message: message})
}

func (c *Controller) setNotification(note Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	note.At = c.now()
	c.note = &note
	c.noteGen++
	gen := c.noteGen

	time.AfterFunc(c.opts.NotificationTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.noteGen == gen {
			c.note = nil
		}
	})
}

// DismissNotification clears the live notification, if any.
func (c *Controller) DismissNotification() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.note = nil
	c.noteGen++
}
