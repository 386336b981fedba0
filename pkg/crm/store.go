// Package crm is the in-memory domain data store behind the automation
// engine: contacts, deals, tasks and activities. Mutations that matter to
// automations publish domain events on the bus.
package crm

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/nudgecrm/nudge/pkg/eventbus"
	"github.com/nudgecrm/nudge/pkg/events"
	"github.com/nudgecrm/nudge/pkg/log"
	"github.com/nudgecrm/nudge/pkg/models"
)

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrDealNotFound    = errors.New("deal not found")
	ErrTaskNotFound    = errors.New("task not found")
)

type Store struct {
	mu         sync.RWMutex
	contacts   []*models.Contact
	deals      []*models.Deal
	tasks      []*models.Task
	activities []*models.Activity

	publisher eventbus.EventPublisher
	clock     clockwork.Clock
	logger    *slog.Logger
}

// NewStore creates an empty store. publisher may be nil, in which case
// mutations do not emit events.
func NewStore(publisher eventbus.EventPublisher, clock clockwork.Clock) *Store {
	return &Store{
		publisher: publisher,
		clock:     clock,
		logger:    log.WithModule("crm"),
	}
}

func (s *Store) ListContacts(_ context.Context) []models.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		out = append(out, *c)
	}

	return out
}

func (s *Store) GetContact(_ context.Context, id string) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.contacts {
		if c.ID == id {
			clone := *c

			return &clone, nil
		}
	}

	return nil, ErrContactNotFound
}

func (s *Store) AddContact(_ context.Context, contact models.Contact) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()

	contact.ID = uuid.NewString()
	if contact.Status == "" {
		contact.Status = models.ContactStatusLead
	}

	if contact.LastContact.IsZero() {
		contact.LastContact = now
	}

	contact.CreatedAt = now
	contact.UpdatedAt = now

	s.contacts = append(s.contacts, &contact)

	clone := contact

	return &clone, nil
}

func (s *Store) UpdateContactStatus(_ context.Context, contactID string, status models.ContactStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.contacts {
		if c.ID != contactID {
			continue
		}

		c.Status = status
		c.UpdatedAt = s.clock.Now().UTC()

		return nil
	}

	return ErrContactNotFound
}

// FlagFollowUp marks that a contact needs attention and publishes the
// follow-up event so matching automations run.
func (s *Store) FlagFollowUp(ctx context.Context, contactID string) error {
	s.mu.Lock()

	var flagged *models.Contact

	for _, c := range s.contacts {
		if c.ID == contactID {
			c.UpdatedAt = s.clock.Now().UTC()
			clone := *c
			flagged = &clone

			break
		}
	}

	s.mu.Unlock()

	if flagged == nil {
		return ErrContactNotFound
	}

	s.publish(ctx, flagged.ID, events.NewFollowUpNeeded(*flagged))

	return nil
}

func (s *Store) ListDeals(_ context.Context) []models.Deal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Deal, 0, len(s.deals))
	for _, d := range s.deals {
		out = append(out, *d)
	}

	return out
}

func (s *Store) AddDeal(_ context.Context, deal models.Deal) (*models.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()

	deal.ID = uuid.NewString()
	if deal.Stage == "" {
		deal.Stage = models.DealStageLead
	}

	deal.CreatedAt = now
	deal.UpdatedAt = now

	s.deals = append(s.deals, &deal)

	clone := deal

	return &clone, nil
}

// UpdateDealStage moves a deal to a new pipeline stage. A real stage
// transition publishes DealStageChanged; setting the current stage again
// does not.
func (s *Store) UpdateDealStage(ctx context.Context, dealID string, stage models.DealStage) (*models.Deal, error) {
	s.mu.Lock()

	var (
		updated  *models.Deal
		previous models.DealStage
		moved    bool
	)

	for _, d := range s.deals {
		if d.ID != dealID {
			continue
		}

		previous = d.Stage
		moved = d.Stage != stage

		d.Stage = stage
		d.UpdatedAt = s.clock.Now().UTC()

		clone := *d
		updated = &clone

		break
	}

	s.mu.Unlock()

	if updated == nil {
		return nil, ErrDealNotFound
	}

	if moved {
		s.publish(ctx, updated.ID, events.NewDealStageChanged(*updated, previous))
	}

	return updated, nil
}

func (s *Store) ListTasks(_ context.Context) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, *t)
	}

	return out
}

func (s *Store) CreateTask(ctx context.Context, draft models.NewTask) (*models.Task, error) {
	s.mu.Lock()

	now := s.clock.Now().UTC()

	task := &models.Task{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Description: draft.Description,
		DueDate:     draft.DueDate,
		Status:      draft.Status,
		ContactID:   draft.ContactID,
		DealID:      draft.DealID,
		AssigneeID:  draft.AssigneeID,
		Priority:    draft.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}

	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}

	s.tasks = append(s.tasks, task)

	clone := *task

	s.mu.Unlock()

	if clone.AssigneeID != "" {
		s.publish(ctx, clone.ID, events.NewTaskAssigned(clone))
	}

	return &clone, nil
}

// UpdateTask merges the patch into the task. Gaining an assignee through
// the patch publishes TaskAssigned.
func (s *Store) UpdateTask(ctx context.Context, taskID string, patch models.TaskPatch) (*models.Task, error) {
	s.mu.Lock()

	var (
		updated        *models.Task
		gainedAssignee bool
	)

	for _, t := range s.tasks {
		if t.ID != taskID {
			continue
		}

		hadAssignee := t.AssigneeID != ""

		patch.Apply(t)
		t.UpdatedAt = s.clock.Now().UTC()

		gainedAssignee = !hadAssignee && t.AssigneeID != ""

		clone := *t
		updated = &clone

		break
	}

	s.mu.Unlock()

	if updated == nil {
		return nil, ErrTaskNotFound
	}

	if gainedAssignee {
		s.publish(ctx, updated.ID, events.NewTaskAssigned(*updated))
	}

	return updated, nil
}

// AssignTask sets the task's assignee and publishes TaskAssigned.
func (s *Store) AssignTask(ctx context.Context, taskID, assigneeID string) (*models.Task, error) {
	s.mu.Lock()

	var assigned *models.Task

	for _, t := range s.tasks {
		if t.ID != taskID {
			continue
		}

		t.AssigneeID = assigneeID
		t.UpdatedAt = s.clock.Now().UTC()

		clone := *t
		assigned = &clone

		break
	}

	s.mu.Unlock()

	if assigned == nil {
		return nil, ErrTaskNotFound
	}

	if assigneeID != "" {
		s.publish(ctx, assigned.ID, events.NewTaskAssigned(*assigned))
	}

	return assigned, nil
}

func (s *Store) ToggleTaskStatus(_ context.Context, taskID string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.ID != taskID {
			continue
		}

		if t.Status == models.TaskStatusPending {
			t.Status = models.TaskStatusCompleted
		} else {
			t.Status = models.TaskStatusPending
		}

		t.UpdatedAt = s.clock.Now().UTC()

		clone := *t

		return &clone, nil
	}

	return nil, ErrTaskNotFound
}

func (s *Store) DeleteTask(_ context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks {
		if t.ID == taskID {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)

			return nil
		}
	}

	return ErrTaskNotFound
}

func (s *Store) ListActivities(_ context.Context) []models.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Activity, 0, len(s.activities))
	for _, a := range s.activities {
		out = append(out, *a)
	}

	return out
}

// AddActivity records an interaction and refreshes the related contact's
// last-contact timestamp.
func (s *Store) AddActivity(_ context.Context, activity models.Activity) (*models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()

	activity.ID = uuid.NewString()
	if activity.Date.IsZero() {
		activity.Date = now
	}

	activity.CreatedAt = now

	s.activities = append(s.activities, &activity)

	for _, c := range s.contacts {
		if c.ID == activity.ContactID {
			c.LastContact = activity.Date
			c.UpdatedAt = now

			break
		}
	}

	clone := activity

	return &clone, nil
}

func (s *Store) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, key, event)
	if err != nil {
		s.logger.Error("Failed to publish domain event",
			"event_type", event.GetType(), "key", key, "error", err)
	}
}
