// Package contactstatus implements the update_contact_status automation
// action.
package contactstatus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nudgecrm/nudge/pkg/models"
	"github.com/nudgecrm/nudge/pkg/protocol"
)

type ActionFactory struct {
	contacts protocol.ContactWriter
}

func NewActionFactory(contacts protocol.ContactWriter) *ActionFactory {
	return &ActionFactory{contacts: contacts}
}

func (*ActionFactory) ID() string {
	return string(models.ActionUpdateContactStatus)
}

func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{
				"type":        "string",
				"description": "Status to set on the related contact.",
			},
		},
		"required": []string{"status"},
	}
}

func (f *ActionFactory) Create(params map[string]any) (protocol.Action, error) {
	if params == nil {
		params = map[string]any{}
	}

	status, _ := params["status"].(string)

	return &Action{Status: status, contacts: f.contacts}, nil
}

// Action sets the related contact's status to the configured value. The
// status is passed through verbatim; validating it against the known enum
// is the contact store's job. Events without a contact are skipped.
type Action struct {
	Status string

	contacts protocol.ContactWriter
}

func (a *Action) Execute(ctx context.Context, tc models.TriggerContext, logger *slog.Logger) (any, error) {
	contactID := tc.ContactID()
	if contactID == "" {
		logger.DebugContext(ctx, "Trigger context has no contact, skipping status update")

		return map[string]any{"updated": false}, nil
	}

	err := a.contacts.UpdateContactStatus(ctx, contactID, models.ContactStatus(a.Status))
	if err != nil {
		return nil, fmt.Errorf("failed to update contact %s: %w", contactID, err)
	}

	return map[string]any{"updated": true, "contactId": contactID, "status": a.Status}, nil
}
