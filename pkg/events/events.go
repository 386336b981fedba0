// Package events defines the domain events that feed the automation
// engine's event-driven triggers.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/nudgecrm/nudge/pkg/models"
)

type EventType string

// Topic carries every domain event on the bus.
const Topic = "nudge.domain"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	DealStageChangedEvent EventType = "deal.stage_changed"
	TaskAssignedEvent     EventType = "task.assigned"
	FollowUpNeededEvent   EventType = "contact.follow_up_needed"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}

// DealStageChanged is published when a deal moves between pipeline stages.
type DealStageChanged struct {
	BaseEvent

	Deal          models.Deal      `json:"deal"`
	PreviousStage models.DealStage `json:"previous_stage"`
}

func NewDealStageChanged(deal models.Deal, previous models.DealStage) DealStageChanged {
	return DealStageChanged{
		BaseEvent:     NewBaseEvent(DealStageChangedEvent),
		Deal:          deal,
		PreviousStage: previous,
	}
}

func (e DealStageChanged) GetType() EventType {
	return DealStageChangedEvent
}

// TaskAssigned is published when a task gains an assignee.
type TaskAssigned struct {
	BaseEvent

	Task models.Task `json:"task"`
}

func NewTaskAssigned(task models.Task) TaskAssigned {
	return TaskAssigned{
		BaseEvent: NewBaseEvent(TaskAssignedEvent),
		Task:      task,
	}
}

func (e TaskAssigned) GetType() EventType {
	return TaskAssignedEvent
}

// FollowUpNeeded is published when a contact is flagged for a follow-up.
type FollowUpNeeded struct {
	BaseEvent

	Contact models.Contact `json:"contact"`
}

func NewFollowUpNeeded(contact models.Contact) FollowUpNeeded {
	return FollowUpNeeded{
		BaseEvent: NewBaseEvent(FollowUpNeededEvent),
		Contact:   contact,
	}
}

func (e FollowUpNeeded) GetType() EventType {
	return FollowUpNeededEvent
}
