package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskContextField(t *testing.T) {
	due := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	tc := TaskContext{Task: Task{
		ID:        "t-1",
		Title:     "Follow up",
		Status:    TaskStatusPending,
		DueDate:   due,
		ContactID: "c-1",
	}}

	tests := []struct {
		name  string
		path  string
		want  any
		found bool
	}{
		{"status", "task.status", "pending", true},
		{"title", "task.title", "Follow up", true},
		{"due date as RFC3339", "task.dueDate", "2024-03-15T00:00:00Z", true},
		{"contact id", "task.contactId", "c-1", true},
		{"unknown field", "task.nope", nil, false},
		{"bare root", "task", nil, false},
		{"wrong root", "contact.name", nil, false},
		{"too deep", "task.status.inner", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := tc.Field(tt.path)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContactContextTemplateData(t *testing.T) {
	last := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	cc := ContactContext{Contact: Contact{
		ID:          "c-2",
		Name:        "Jane Smith",
		Company:     "XYZ Inc",
		Status:      ContactStatusActive,
		LastContact: last,
	}}

	data := cc.TemplateData()
	assert.Equal(t, "Jane Smith", data["name"])
	assert.Equal(t, "XYZ Inc", data["company"])
	assert.Equal(t, "active", data["status"])
	assert.Equal(t, "2024-01-02T00:00:00Z", data["lastContact"])
	assert.Equal(t, "c-2", data["contactId"])
	assert.Equal(t, "c-2", cc.ContactID())
}

func TestDealContextPreviousStage(t *testing.T) {
	dc := DealContext{
		Deal:          Deal{ID: "d-1", Title: "Enterprise License", Stage: DealStageProposal, ContactID: "c-1", Value: 50000},
		PreviousStage: DealStageLead,
	}

	got, found := dc.Field("previousStage")
	assert.True(t, found)
	assert.Equal(t, "lead", got)

	got, found = dc.Field("deal.stage")
	assert.True(t, found)
	assert.Equal(t, "proposal", got)

	got, found = dc.Field("deal.value")
	assert.True(t, found)
	assert.Equal(t, 50000.0, got)
}

func TestMapContextField(t *testing.T) {
	mc := MapContext{Data: map[string]any{
		"contactId": "c-9",
		"task": map[string]any{
			"status": "pending",
			"nested": map[string]any{"deep": 1},
		},
	}}

	got, found := mc.Field("task.status")
	assert.True(t, found)
	assert.Equal(t, "pending", got)

	got, found = mc.Field("task.nested.deep")
	assert.True(t, found)
	assert.Equal(t, 1, got)

	_, found = mc.Field("task.missing")
	assert.False(t, found)

	_, found = mc.Field("task.status.deeper")
	assert.False(t, found)

	assert.Equal(t, "c-9", mc.ContactID())
}

func TestRuleCloneIsDeep(t *testing.T) {
	rule := &AutomationRule{
		ID:       "r-1",
		Name:     "Overdue reminder",
		IsActive: true,
		Trigger: TriggerItem{
			Type:       TriggerTaskDue,
			Conditions: []Condition{{Field: "task.status", Operator: OperatorEquals, Value: "pending"}},
		},
		Actions: []ActionItem{{Type: ActionSendNotification, Params: map[string]any{"title": "Overdue"}}},
	}

	clone := rule.Clone()
	clone.Trigger.Conditions[0].Value = "completed"
	clone.Actions[0].Params["title"] = "changed"

	assert.Equal(t, "pending", rule.Trigger.Conditions[0].Value)
	assert.Equal(t, "Overdue", rule.Actions[0].Params["title"])
}

func TestRulePatchApply(t *testing.T) {
	rule := &AutomationRule{Name: "Old name", Description: "keep me", IsActive: true}

	name := "New name"
	active := false
	RulePatch{Name: &name, IsActive: &active}.Apply(rule)

	assert.Equal(t, "New name", rule.Name)
	assert.Equal(t, "keep me", rule.Description)
	assert.False(t, rule.IsActive)
}
