package registry

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/nudgecrm/nudge/pkg/models"
	"github.com/nudgecrm/nudge/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAction struct{}

func (stubAction) Execute(_ context.Context, _ models.TriggerContext, _ *slog.Logger) (any, error) {
	return nil, nil
}

type stubFactory struct {
	id string
}

func (f stubFactory) ID() string { return f.id }

func (stubFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{"type": "string"},
		},
		"required": []string{"status"},
	}
}

func (stubFactory) Create(_ map[string]any) (protocol.Action, error) {
	return stubAction{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestCreateAction(t *testing.T) {
	reg := NewRegistry(testLogger())
	reg.RegisterAction(stubFactory{id: "update_contact_status"})

	action, err := reg.CreateAction("update_contact_status", map[string]any{"status": "inactive"})
	require.NoError(t, err)
	assert.NotNil(t, action)

	_, err = reg.CreateAction("unknown", nil)
	assert.Error(t, err)
}

func TestValidateActionParams(t *testing.T) {
	reg := NewRegistry(testLogger())
	reg.RegisterAction(stubFactory{id: "update_contact_status"})

	tests := []struct {
		name       string
		actionType string
		params     map[string]any
		wantErr    bool
	}{
		{"valid params", "update_contact_status", map[string]any{"status": "inactive"}, false},
		{"missing required param", "update_contact_status", map[string]any{}, true},
		{"nil params fail required", "update_contact_status", nil, true},
		{"wrong type", "update_contact_status", map[string]any{"status": 5}, true},
		{"unknown action", "explode", map[string]any{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.ValidateActionParams(tt.actionType, tt.params)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAvailableActionsSorted(t *testing.T) {
	reg := NewRegistry(testLogger())
	reg.RegisterAction(stubFactory{id: "send_email"})
	reg.RegisterAction(stubFactory{id: "create_task"})

	assert.Equal(t, []string{"create_task", "send_email"}, reg.AvailableActions())
}
