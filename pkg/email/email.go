// Package email hands outbound email to a delivery service. The log sender
// stands in until a real provider is wired up.
package email

import (
	"context"
	"log/slog"

	"github.com/nudgecrm/nudge/pkg/log"
)

// LogSender records each send in the structured log instead of delivering.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender() *LogSender {
	return &LogSender{logger: log.WithModule("email")}
}

func (s *LogSender) SendEmail(ctx context.Context, templateID string, data map[string]any) error {
	s.logger.InfoContext(ctx, "Email handed to delivery",
		"template_id", templateID, "fields", len(data))

	return nil
}
