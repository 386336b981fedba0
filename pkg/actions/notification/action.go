// Package notification implements the send_notification automation action.
package notification

import (
	"context"
	"log/slog"

	"github.com/nudgecrm/nudge/pkg/models"
	"github.com/nudgecrm/nudge/pkg/protocol"
	"github.com/nudgecrm/nudge/pkg/template"
)

// ActionFactory builds send_notification actions. The notifier may be nil
// when no notification surface is available; actions then succeed as
// no-ops.
type ActionFactory struct {
	notifier protocol.Notifier
}

func NewActionFactory(notifier protocol.Notifier) *ActionFactory {
	return &ActionFactory{notifier: notifier}
}

func (*ActionFactory) ID() string {
	return string(models.ActionSendNotification)
}

func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Notification title. Supports {{key}} placeholders.",
			},
			"message": map[string]any{
				"type":        "string",
				"description": "Notification body. Supports {{key}} placeholders.",
			},
		},
	}
}

func (f *ActionFactory) Create(params map[string]any) (protocol.Action, error) {
	if params == nil {
		params = map[string]any{}
	}

	title, _ := params["title"].(string)
	message, _ := params["message"].(string)

	return &Action{Title: title, Message: message, notifier: f.notifier}, nil
}

type Action struct {
	Title   string
	Message string

	notifier protocol.Notifier
}

func (a *Action) Execute(ctx context.Context, tc models.TriggerContext, logger *slog.Logger) (any, error) {
	data := tc.TemplateData()
	title := template.Render(a.Title, data)
	message := template.Render(a.Message, data)

	if a.notifier == nil {
		logger.DebugContext(ctx, "No notification surface available, skipping", "title", title)

		return map[string]any{"delivered": false}, nil
	}

	err := a.notifier.Notify(ctx, title, message)
	if err != nil {
		// Best effort: an unavailable surface is not an action failure.
		logger.WarnContext(ctx, "Notification not delivered", "title", title, "error", err)

		return map[string]any{"delivered": false}, nil
	}

	return map[string]any{"delivered": true, "title": title}, nil
}
