// Package protocol defines the interfaces between the automation engine and
// its pluggable actions and external collaborators.
package protocol

import (
	"context"
	"log/slog"

	"github.com/nudgecrm/nudge/pkg/models"
)

// Action performs one side effect for a matched rule. Execute returns an
// opaque output for logging; errors are reported, never retried.
type Action interface {
	Execute(ctx context.Context, tc models.TriggerContext, logger *slog.Logger) (any, error)
}

// ActionFactory builds actions of one type from rule parameters.
type ActionFactory interface {
	ID() string
	// Schema returns the JSON schema for the action's params, used to
	// validate rules when they are saved.
	Schema() map[string]any
	Create(params map[string]any) (Action, error)
}
