// Package notify defines the outbound notification boundary. Delivery
// (push, email, chat) is external; the core only hands off messages and
// treats failures as best-effort.
package notify

import (
	"context"

	"github.com/sanctum-collective/sanctum/pkg/logger"
)

// Notification is one outbound message.
type Notification struct {
	RecipientID int64  `json:"recipient_id"`
	Message     string `json:"message"`
	Urgency     string `json:"urgency"`
}

// Notifier delivers notifications. Errors are reported so callers can log
// them, but a mutation that already succeeded is never rolled back on a
// delivery failure.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the log. It is the default sink when
// no real delivery channel is wired.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.NewDefault("notify")
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, msg Notification) error {
	n.log.WithField("recipient_id", msg.RecipientID).
		WithField("urgency", msg.Urgency).
		Info(msg.Message)
	return nil
}
