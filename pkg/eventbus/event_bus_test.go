package eventbus

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/nudgecrm/nudge/pkg/events"
	"github.com/nudgecrm/nudge/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestGoChannelEventBusRoundTrip(t *testing.T) {
	bus := NewGoChannelEventBus(testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *events.DealStageChanged, 1)

	bus.Handle(events.DealStageChangedEvent, func(_ context.Context, event any) error {
		typed, ok := event.(*events.DealStageChanged)
		require.True(t, ok)
		received <- typed

		return nil
	})

	require.NoError(t, bus.Subscribe(ctx))

	deal := models.Deal{ID: "d-1", Title: "Enterprise License", Stage: models.DealStageProposal}
	require.NoError(t, bus.Publish(ctx, deal.ID, events.NewDealStageChanged(deal, models.DealStageLead)))

	select {
	case event := <-received:
		assert.Equal(t, "d-1", event.Deal.ID)
		assert.Equal(t, models.DealStageLead, event.PreviousStage)
		assert.Equal(t, events.DealStageChangedEvent, event.GetType())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestUnhandledEventTypesAreAcked(t *testing.T) {
	bus := NewGoChannelEventBus(testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan struct{}, 1)

	bus.Handle(events.TaskAssignedEvent, func(_ context.Context, _ any) error {
		received <- struct{}{}

		return nil
	})

	require.NoError(t, bus.Subscribe(ctx))

	// No handler registered for this one; it must not wedge the stream.
	contact := models.Contact{ID: "c-1"}
	require.NoError(t, bus.Publish(ctx, contact.ID, events.NewFollowUpNeeded(contact)))

	task := models.Task{ID: "t-1", AssigneeID: "u-1"}
	require.NoError(t, bus.Publish(ctx, task.ID, events.NewTaskAssigned(task)))

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for task assigned event")
	}
}

func TestGenerateID(t *testing.T) {
	bus := NewGoChannelEventBus(testLogger())
	assert.NotEqual(t, bus.GenerateID(), bus.GenerateID())
}
