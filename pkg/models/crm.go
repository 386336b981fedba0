package models

import "time"

// ContactStatus is the lifecycle state of a contact.
type ContactStatus string

const (
	ContactStatusActive   ContactStatus = "active"
	ContactStatusInactive ContactStatus = "inactive"
	ContactStatusLead     ContactStatus = "lead"
)

// DealStage is the pipeline stage of a deal.
type DealStage string

const (
	DealStageLead        DealStage = "lead"
	DealStageProposal    DealStage = "proposal"
	DealStageNegotiation DealStage = "negotiation"
	DealStageClosed      DealStage = "closed"
)

// TaskStatus is the completion state of a task.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// TaskPriority is the urgency of a task.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// ActivityType categorizes a logged interaction with a contact.
type ActivityType string

const (
	ActivityCall    ActivityType = "call"
	ActivityEmail   ActivityType = "email"
	ActivityMeeting ActivityType = "meeting"
)

type Contact struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"    validate:"required"`
	Email       string        `json:"email"   validate:"required,email"`
	Phone       string        `json:"phone,omitempty"`
	Company     string        `json:"company,omitempty"`
	Status      ContactStatus `json:"status"`
	Region      string        `json:"region,omitempty"`
	LastContact time.Time     `json:"lastContact"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type Deal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required"`
	Value       float64   `json:"value"`
	Stage       DealStage `json:"stage"`
	ContactID   string    `json:"contactId,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description,omitempty"`
	DueDate     time.Time    `json:"dueDate"`
	Status      TaskStatus   `json:"status"`
	ContactID   string       `json:"contactId,omitempty"`
	DealID      string       `json:"dealId,omitempty"`
	AssigneeID  string       `json:"assigneeId,omitempty"`
	Priority    TaskPriority `json:"priority,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type Activity struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	Date        time.Time    `json:"date"`
	ContactID   string       `json:"contactId"`
	DealID      string       `json:"dealId,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// TaskPatch carries a partial task update. Nil fields are left untouched
// (merge semantics).
type TaskPatch struct {
	Title       *string       `json:"title,omitempty"       validate:"omitempty,min=1"`
	Description *string       `json:"description,omitempty"`
	DueDate     *time.Time    `json:"dueDate,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
	ContactID   *string       `json:"contactId,omitempty"`
	DealID      *string       `json:"dealId,omitempty"`
	AssigneeID  *string       `json:"assigneeId,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
}

// Apply merges the patch into the task, leaving unset fields as they are.
func (p TaskPatch) Apply(task *Task) {
	if p.Title != nil {
		task.Title = *p.Title
	}

	if p.Description != nil {
		task.Description = *p.Description
	}

	if p.DueDate != nil {
		task.DueDate = *p.DueDate
	}

	if p.Status != nil {
		task.Status = *p.Status
	}

	if p.ContactID != nil {
		task.ContactID = *p.ContactID
	}

	if p.DealID != nil {
		task.DealID = *p.DealID
	}

	if p.AssigneeID != nil {
		task.AssigneeID = *p.AssigneeID
	}

	if p.Priority != nil {
		task.Priority = *p.Priority
	}
}

// NewTask carries the fields an automation or API caller provides when
// creating a task; the store fills in id, timestamps and defaults.
type NewTask struct {
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description,omitempty"`
	DueDate     time.Time    `json:"dueDate"`
	Status      TaskStatus   `json:"status,omitempty"`
	ContactID   string       `json:"contactId,omitempty"`
	DealID      string       `json:"dealId,omitempty"`
	AssigneeID  string       `json:"assigneeId,omitempty"`
	Priority    TaskPriority `json:"priority,omitempty"`
}
