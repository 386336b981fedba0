package models

import (
	"strings"
	"time"
)

// TriggerContext is the event payload passed from a trigger source through
// condition evaluation and into action execution. It is a tagged union:
// each trigger type carries the matching variant below.
//
// Field resolves a dot-separated path ("task.status") into the context;
// a missing segment yields (nil, false), never an error. TemplateData
// returns the flat map used for {{key}} template interpolation. ContactID
// returns the related contact id, or "" when the event has none.
type TriggerContext interface {
	Field(path string) (any, bool)
	TemplateData() map[string]any
	ContactID() string
}

// TaskContext is the payload of task_due and task_assigned events.
type TaskContext struct {
	Task Task
}

func (c TaskContext) Field(path string) (any, bool) {
	rest, ok := pathUnder(path, "task")
	if !ok {
		return nil, false
	}

	return taskField(c.Task, rest)
}

func (c TaskContext) TemplateData() map[string]any {
	return map[string]any{
		"id":          c.Task.ID,
		"title":       c.Task.Title,
		"description": c.Task.Description,
		"dueDate":     formatTime(c.Task.DueDate),
		"status":      string(c.Task.Status),
		"priority":    string(c.Task.Priority),
		"contactId":   c.Task.ContactID,
		"dealId":      c.Task.DealID,
		"assigneeId":  c.Task.AssigneeID,
	}
}

func (c TaskContext) ContactID() string {
	return c.Task.ContactID
}

// ContactContext is the payload of contact_inactive and follow_up_needed
// events.
type ContactContext struct {
	Contact Contact
}

func (c ContactContext) Field(path string) (any, bool) {
	rest, ok := pathUnder(path, "contact")
	if !ok {
		return nil, false
	}

	return contactField(c.Contact, rest)
}

func (c ContactContext) TemplateData() map[string]any {
	return map[string]any{
		"id":          c.Contact.ID,
		"name":        c.Contact.Name,
		"email":       c.Contact.Email,
		"phone":       c.Contact.Phone,
		"company":     c.Contact.Company,
		"status":      string(c.Contact.Status),
		"region":      c.Contact.Region,
		"lastContact": formatTime(c.Contact.LastContact),
		"contactId":   c.Contact.ID,
	}
}

func (c ContactContext) ContactID() string {
	return c.Contact.ID
}

// DealContext is the payload of deal_stage_change events. PreviousStage is
// the stage the deal moved away from.
type DealContext struct {
	Deal          Deal
	PreviousStage DealStage
}

func (c DealContext) Field(path string) (any, bool) {
	if path == "previousStage" {
		return string(c.PreviousStage), true
	}

	rest, ok := pathUnder(path, "deal")
	if !ok {
		return nil, false
	}

	return dealField(c.Deal, rest)
}

func (c DealContext) TemplateData() map[string]any {
	return map[string]any{
		"id":            c.Deal.ID,
		"title":         c.Deal.Title,
		"value":         c.Deal.Value,
		"stage":         string(c.Deal.Stage),
		"description":   c.Deal.Description,
		"contactId":     c.Deal.ContactID,
		"previousStage": string(c.PreviousStage),
	}
}

func (c DealContext) ContactID() string {
	return c.Deal.ContactID
}

// MapContext wraps an arbitrary JSON-shaped map, used for trigger events
// injected through the API where no typed variant applies.
type MapContext struct {
	Data map[string]any
}

func (c MapContext) Field(path string) (any, bool) {
	var current any = c.Data

	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

func (c MapContext) TemplateData() map[string]any {
	if c.Data == nil {
		return map[string]any{}
	}

	return c.Data
}

func (c MapContext) ContactID() string {
	id, _ := c.Data["contactId"].(string)

	return id
}

// pathUnder strips the variant's root segment from a dotted path. A bare
// root ("task") resolves to nothing useful, so it is treated as absent.
func pathUnder(path, root string) (string, bool) {
	rest, found := strings.CutPrefix(path, root+".")
	if !found || rest == "" {
		return "", false
	}

	return rest, true
}

func taskField(t Task, name string) (any, bool) {
	switch name {
	case "id":
		return t.ID, true
	case "title":
		return t.Title, true
	case "description":
		return t.Description, true
	case "dueDate":
		return formatTime(t.DueDate), true
	case "status":
		return string(t.Status), true
	case "priority":
		return string(t.Priority), true
	case "contactId":
		return t.ContactID, true
	case "dealId":
		return t.DealID, true
	case "assigneeId":
		return t.AssigneeID, true
	default:
		return nil, false
	}
}

func contactField(c Contact, name string) (any, bool) {
	switch name {
	case "id":
		return c.ID, true
	case "name":
		return c.Name, true
	case "email":
		return c.Email, true
	case "phone":
		return c.Phone, true
	case "company":
		return c.Company, true
	case "status":
		return string(c.Status), true
	case "region":
		return c.Region, true
	case "lastContact":
		return formatTime(c.LastContact), true
	default:
		return nil, false
	}
}

func dealField(d Deal, name string) (any, bool) {
	switch name {
	case "id":
		return d.ID, true
	case "title":
		return d.Title, true
	case "value":
		return d.Value, true
	case "stage":
		return string(d.Stage), true
	case "description":
		return d.Description, true
	case "contactId":
		return d.ContactID, true
	default:
		return nil, false
	}
}

// formatTime renders timestamps the way they travel on the wire, so date
// conditions compare lexicographically in chronological order.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}
