// Package models defines the core domain models for rule-based CRM automation.
package models

import "time"

// TriggerType names the event category a rule listens for.
type TriggerType string

const (
	TriggerTaskDue         TriggerType = "task_due"
	TriggerDealStageChange TriggerType = "deal_stage_change"
	TriggerTaskAssigned    TriggerType = "task_assigned"
	TriggerContactInactive TriggerType = "contact_inactive"
	TriggerFollowUpNeeded  TriggerType = "follow_up_needed"
)

// TriggerTypes lists every trigger type a rule may listen for.
var TriggerTypes = []TriggerType{
	TriggerTaskDue,
	TriggerDealStageChange,
	TriggerTaskAssigned,
	TriggerContactInactive,
	TriggerFollowUpNeeded,
}

// KnownTriggerType reports whether t is one of the defined trigger types.
func KnownTriggerType(t TriggerType) bool {
	for _, known := range TriggerTypes {
		if t == known {
			return true
		}
	}

	return false
}

// Operator is a condition comparison operator.
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "not_equals"
	OperatorContains    Operator = "contains"
	OperatorGreaterThan Operator = "greater_than"
	OperatorLessThan    Operator = "less_than"
)

// ActionType names a side-effecting operation a matched rule performs.
type ActionType string

const (
	ActionSendEmail           ActionType = "send_email"
	ActionCreateTask          ActionType = "create_task"
	ActionSendNotification    ActionType = "send_notification"
	ActionUpdateContactStatus ActionType = "update_contact_status"
)

// Condition is a single field/operator/value test evaluated against the
// trigger context. Field is a dotted path, e.g. "task.status".
type Condition struct {
	Field    string   `json:"field"    validate:"required"`
	Operator Operator `json:"operator" validate:"required"`
	Value    any      `json:"value"`
}

// TriggerItem couples a trigger type with the conditions that must all hold
// for a rule to fire. An empty condition list matches unconditionally.
type TriggerItem struct {
	Type       TriggerType `json:"type" validate:"required"`
	Conditions []Condition `json:"conditions"`
}

// ActionItem is one configured action of a rule. Params is a free-form
// parameter bag consumed by the action's executor.
type ActionItem struct {
	Type   ActionType     `json:"type" validate:"required"`
	Params map[string]any `json:"params"`
}

// AutomationRule reacts to trigger events with a sequence of actions.
// ID is immutable after creation. Actions may be empty.
type AutomationRule struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"        validate:"required,min=3"`
	Description string       `json:"description"`
	IsActive    bool         `json:"isActive"`
	Trigger     TriggerItem  `json:"trigger"     validate:"required"`
	Actions     []ActionItem `json:"actions"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing the stored rule to mutation.
func (r *AutomationRule) Clone() *AutomationRule {
	clone := *r

	clone.Trigger.Conditions = make([]Condition, len(r.Trigger.Conditions))
	copy(clone.Trigger.Conditions, r.Trigger.Conditions)

	clone.Actions = make([]ActionItem, len(r.Actions))

	for i, action := range r.Actions {
		cloned := action
		if action.Params != nil {
			cloned.Params = make(map[string]any, len(action.Params))
			for k, v := range action.Params {
				cloned.Params[k] = v
			}
		}

		clone.Actions[i] = cloned
	}

	return &clone
}

// RulePatch carries a partial rule update. Nil fields are left untouched
// (merge semantics).
type RulePatch struct {
	Name        *string       `json:"name,omitempty"`
	Description *string       `json:"description,omitempty"`
	IsActive    *bool         `json:"isActive,omitempty"`
	Trigger     *TriggerItem  `json:"trigger,omitempty"`
	Actions     *[]ActionItem `json:"actions,omitempty"`
}

// Apply merges the patch into the rule, leaving unset fields as they are.
func (p RulePatch) Apply(rule *AutomationRule) {
	if p.Name != nil {
		rule.Name = *p.Name
	}

	if p.Description != nil {
		rule.Description = *p.Description
	}

	if p.IsActive != nil {
		rule.IsActive = *p.IsActive
	}

	if p.Trigger != nil {
		rule.Trigger = *p.Trigger
	}

	if p.Actions != nil {
		rule.Actions = *p.Actions
	}
}
