// Package email implements the send_email automation action.
package email

import (
	"context"
	"log/slog"

	"github.com/nudgecrm/nudge/pkg/models"
	"github.com/nudgecrm/nudge/pkg/protocol"
)

type ActionFactory struct {
	sender protocol.EmailSender
}

func NewActionFactory(sender protocol.EmailSender) *ActionFactory {
	return &ActionFactory{sender: sender}
}

func (*ActionFactory) ID() string {
	return string(models.ActionSendEmail)
}

func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"template": map[string]any{
				"type":        "string",
				"description": "Id of the email template to send.",
			},
		},
		"required": []string{"template"},
	}
}

func (f *ActionFactory) Create(params map[string]any) (protocol.Action, error) {
	if params == nil {
		params = map[string]any{}
	}

	templateID, _ := params["template"].(string)

	return &Action{Template: templateID, sender: f.sender}, nil
}

// Action hands the template id and the trigger context to the email
// collaborator. Delivery happens (or not) out of band; the action only
// records the attempt.
type Action struct {
	Template string

	sender protocol.EmailSender
}

func (a *Action) Execute(ctx context.Context, tc models.TriggerContext, logger *slog.Logger) (any, error) {
	data := tc.TemplateData()

	err := a.sender.SendEmail(ctx, a.Template, data)
	if err != nil {
		logger.WarnContext(ctx, "Email handoff failed", "template", a.Template, "error", err)

		return map[string]any{"sent": false}, nil
	}

	logger.InfoContext(ctx, "Email handed off", "template", a.Template)

	return map[string]any{"sent": true, "template": a.Template}, nil
}
