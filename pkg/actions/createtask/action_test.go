package createtask

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nudgecrm/nudge/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTaskWriter struct {
	created []models.NewTask
	err     error
}

func (f *fakeTaskWriter) CreateTask(_ context.Context, draft models.NewTask) (*models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.created = append(f.created, draft)

	return &models.Task{
		ID:        "task-1",
		Title:     draft.Title,
		DueDate:   draft.DueDate,
		Status:    draft.Status,
		ContactID: draft.ContactID,
	}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestActionFactoryID(t *testing.T) {
	factory := NewActionFactory(&fakeTaskWriter{}, clockwork.NewFakeClock())
	assert.Equal(t, "create_task", factory.ID())
}

func TestExecuteDerivesDueDateFromClock(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)
	writer := &fakeTaskWriter{}

	factory := NewActionFactory(writer, clock)
	action, err := factory.Create(map[string]any{
		"title":       "Follow up with {{name}}",
		"description": "Reconnect about {{company}}",
		"dueDays":     float64(7),
	})
	require.NoError(t, err)

	tc := models.ContactContext{Contact: models.Contact{
		ID:      "c-1",
		Name:    "John Doe",
		Company: "ABC Corp",
	}}

	output, err := action.Execute(context.Background(), tc, testLogger())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"taskId": "task-1"}, output)

	require.Len(t, writer.created, 1)
	created := writer.created[0]
	assert.Equal(t, start.AddDate(0, 0, 7), created.DueDate)
	assert.Equal(t, models.TaskStatusPending, created.Status)
	assert.Equal(t, models.TaskPriorityMedium, created.Priority)
	assert.Equal(t, "Follow up with John Doe", created.Title)
	assert.Equal(t, "Reconnect about ABC Corp", created.Description)
	assert.Equal(t, "c-1", created.ContactID)
}

func TestExecuteMissingTemplateKeysRenderEmpty(t *testing.T) {
	writer := &fakeTaskWriter{}
	factory := NewActionFactory(writer, clockwork.NewFakeClock())

	action, err := factory.Create(map[string]any{"title": "Hello {{name}}"})
	require.NoError(t, err)

	tc := models.TaskContext{Task: models.Task{ID: "t-1", Title: "irrelevant"}}

	_, err = action.Execute(context.Background(), tc, testLogger())
	require.NoError(t, err)

	require.Len(t, writer.created, 1)
	assert.Equal(t, "Hello ", writer.created[0].Title)
}

func TestExecutePropagatesWriterError(t *testing.T) {
	writer := &fakeTaskWriter{err: errors.New("store closed")}
	factory := NewActionFactory(writer, clockwork.NewFakeClock())

	action, err := factory.Create(map[string]any{"dueDays": 1})
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), models.TaskContext{}, testLogger())
	assert.Error(t, err)
}

func TestCreateDefaultsWithNilParams(t *testing.T) {
	factory := NewActionFactory(&fakeTaskWriter{}, clockwork.NewFakeClock())

	action, err := factory.Create(nil)
	require.NoError(t, err)

	concrete, ok := action.(*Action)
	require.True(t, ok)
	assert.Equal(t, 0, concrete.DueDays)
	assert.Empty(t, concrete.Title)
}
