// Package createtask implements the create_task automation action.
package createtask

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/nudgecrm/nudge/pkg/models"
	"github.com/nudgecrm/nudge/pkg/protocol"
	"github.com/nudgecrm/nudge/pkg/template"
)

// ActionFactory builds create_task actions bound to the task collaborator
// and the injected clock.
type ActionFactory struct {
	tasks protocol.TaskWriter
	clock clockwork.Clock
}

func NewActionFactory(tasks protocol.TaskWriter, clock clockwork.Clock) *ActionFactory {
	return &ActionFactory{tasks: tasks, clock: clock}
}

func (*ActionFactory) ID() string {
	return string(models.ActionCreateTask)
}

func (*ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Task title. Supports {{key}} placeholders from the trigger context.",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "Task description. Supports {{key}} placeholders.",
			},
			"dueDays": map[string]any{
				"type":        "number",
				"description": "Calendar days from now until the task is due.",
				"minimum":     0,
			},
		},
	}
}

func (f *ActionFactory) Create(params map[string]any) (protocol.Action, error) {
	if params == nil {
		params = map[string]any{}
	}

	title, _ := params["title"].(string)
	description, _ := params["description"].(string)

	return &Action{
		Title:       title,
		Description: description,
		DueDays:     intParam(params, "dueDays"),
		tasks:       f.tasks,
		clock:       f.clock,
	}, nil
}

// Action creates a pending task due a configured number of calendar days
// from now, with title and description rendered from the trigger context.
type Action struct {
	Title       string
	Description string
	DueDays     int

	tasks protocol.TaskWriter
	clock clockwork.Clock
}

func (a *Action) Execute(ctx context.Context, tc models.TriggerContext, logger *slog.Logger) (any, error) {
	data := tc.TemplateData()

	draft := models.NewTask{
		Title:       template.Render(a.Title, data),
		Description: template.Render(a.Description, data),
		DueDate:     a.clock.Now().UTC().AddDate(0, 0, a.DueDays),
		Status:      models.TaskStatusPending,
		Priority:    models.TaskPriorityMedium,
		ContactID:   tc.ContactID(),
	}

	created, err := a.tasks.CreateTask(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	logger.InfoContext(ctx, "Created task from automation", "task_id", created.ID, "due_date", created.DueDate)

	return map[string]any{"taskId": created.ID}, nil
}

func intParam(params map[string]any, key string) int {
	switch n := params[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
