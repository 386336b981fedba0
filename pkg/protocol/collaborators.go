package protocol

import (
	"context"

	"github.com/nudgecrm/nudge/pkg/models"
)

// TaskWriter creates tasks in the domain data store.
type TaskWriter interface {
	CreateTask(ctx context.Context, draft models.NewTask) (*models.Task, error)
}

// TaskLister reads tasks from the domain data store.
type TaskLister interface {
	ListTasks(ctx context.Context) []models.Task
}

// ContactLister reads contacts from the domain data store.
type ContactLister interface {
	ListContacts(ctx context.Context) []models.Contact
}

// ContactWriter updates contact state in the domain data store.
type ContactWriter interface {
	UpdateContactStatus(ctx context.Context, contactID string, status models.ContactStatus) error
}

// Notifier is the notification surface. Implementations may be unavailable,
// in which case Notify is a no-op.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// EmailSender hands an email template plus data to an external delivery
// service. Delivery success is not surfaced back to the engine.
type EmailSender interface {
	SendEmail(ctx context.Context, templateID string, data map[string]any) error
}

// Dispatcher is the generic trigger entry point, callable from timers,
// event-bus subscriptions, or direct domain-event call sites.
type Dispatcher interface {
	ProcessTrigger(ctx context.Context, trigger models.TriggerType, tc models.TriggerContext) models.DispatchResult
}
