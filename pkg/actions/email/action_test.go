package email

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/nudgecrm/nudge/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	templates []string
	data      []map[string]any
	err       error
}

func (f *fakeSender) SendEmail(_ context.Context, templateID string, data map[string]any) error {
	if f.err != nil {
		return f.err
	}

	f.templates = append(f.templates, templateID)
	f.data = append(f.data, data)

	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestExecuteHandsOffTemplateAndContext(t *testing.T) {
	sender := &fakeSender{}
	factory := NewActionFactory(sender)

	action, err := factory.Create(map[string]any{"template": "follow_up"})
	require.NoError(t, err)

	tc := models.ContactContext{Contact: models.Contact{ID: "c-1", Name: "Ann"}}

	output, err := action.Execute(context.Background(), tc, testLogger())
	require.NoError(t, err)

	out, ok := output.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, out["sent"])

	require.Len(t, sender.templates, 1)
	assert.Equal(t, "follow_up", sender.templates[0])
	assert.Equal(t, "Ann", sender.data[0]["name"])
}

func TestExecuteSwallowsSenderError(t *testing.T) {
	// Delivery is best effort; a failed handoff is recorded, not raised.
	factory := NewActionFactory(&fakeSender{err: errors.New("smtp down")})

	action, err := factory.Create(map[string]any{"template": "follow_up"})
	require.NoError(t, err)

	output, err := action.Execute(context.Background(), models.ContactContext{}, testLogger())
	require.NoError(t, err)

	out, ok := output.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, out["sent"])
}
