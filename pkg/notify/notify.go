// Package notify implements the notification surface. The log notifier is
// the headless stand-in for a UI notification center.
package notify

import (
	"context"
	"log/slog"

	"github.com/nudgecrm/nudge/pkg/log"
)

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: log.WithModule("notifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, title, message string) error {
	n.logger.InfoContext(ctx, "Notification", "title", title, "message", message)

	return nil
}
