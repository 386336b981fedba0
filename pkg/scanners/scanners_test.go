package scanners

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nudgecrm/nudge/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedTrigger struct {
	trigger models.TriggerType
	tc      models.TriggerContext
}

type recordingDispatcher struct {
	calls []recordedTrigger
}

func (d *recordingDispatcher) ProcessTrigger(_ context.Context, trigger models.TriggerType, tc models.TriggerContext) models.DispatchResult {
	d.calls = append(d.calls, recordedTrigger{trigger: trigger, tc: tc})

	return models.DispatchResult{Trigger: trigger}
}

type staticTasks struct {
	tasks []models.Task
}

func (s staticTasks) ListTasks(_ context.Context) []models.Task { return s.tasks }

type staticContacts struct {
	contacts []models.Contact
}

func (s staticContacts) ListContacts(_ context.Context) []models.Contact { return s.contacts }

func TestDueTaskScanOnlyFiresOverduePending(t *testing.T) {
	clock := clockwork.NewFakeClock()
	now := clock.Now().UTC()

	tasks := staticTasks{tasks: []models.Task{
		{ID: "t-overdue", Status: models.TaskStatusPending, DueDate: now.Add(-time.Hour)},
		{ID: "t-due-now", Status: models.TaskStatusPending, DueDate: now},
		{ID: "t-future", Status: models.TaskStatusPending, DueDate: now.Add(time.Hour)},
		{ID: "t-done", Status: models.TaskStatusCompleted, DueDate: now.Add(-time.Hour)},
		{ID: "t-no-date", Status: models.TaskStatusPending},
	}}

	dispatcher := &recordingDispatcher{}
	scanner := NewDueTaskScanner(tasks, dispatcher, clock, time.Minute)

	scanner.Scan(context.Background())

	require.Len(t, dispatcher.calls, 2)
	assert.Equal(t, models.TriggerTaskDue, dispatcher.calls[0].trigger)

	fired := []string{}
	for _, call := range dispatcher.calls {
		id, ok := call.tc.Field("task.id")
		require.True(t, ok)
		fired = append(fired, id.(string))
	}

	assert.ElementsMatch(t, []string{"t-overdue", "t-due-now"}, fired)
}

func TestDueTaskScanRefiresWhileStillOverdue(t *testing.T) {
	clock := clockwork.NewFakeClock()

	tasks := staticTasks{tasks: []models.Task{
		{ID: "t-1", Status: models.TaskStatusPending, DueDate: clock.Now().UTC().Add(-time.Hour)},
	}}

	dispatcher := &recordingDispatcher{}
	scanner := NewDueTaskScanner(tasks, dispatcher, clock, time.Minute)

	scanner.Scan(context.Background())
	scanner.Scan(context.Background())

	assert.Len(t, dispatcher.calls, 2)
}

type signallingDispatcher struct {
	fired chan models.TriggerType
}

func (d *signallingDispatcher) ProcessTrigger(_ context.Context, trigger models.TriggerType, _ models.TriggerContext) models.DispatchResult {
	d.fired <- trigger

	return models.DispatchResult{Trigger: trigger}
}

func TestDueTaskScannerTicks(t *testing.T) {
	clock := clockwork.NewFakeClock()

	tasks := staticTasks{tasks: []models.Task{
		{ID: "t-1", Status: models.TaskStatusPending, DueDate: clock.Now().UTC().Add(-time.Hour)},
	}}

	dispatcher := &signallingDispatcher{fired: make(chan models.TriggerType, 1)}
	scanner := NewDueTaskScanner(tasks, dispatcher, clock, time.Minute)

	scanner.Start(context.Background())
	defer scanner.Stop()

	clock.BlockUntilContext(context.Background(), 1)
	clock.Advance(time.Minute)

	select {
	case trigger := <-dispatcher.fired:
		assert.Equal(t, models.TriggerTaskDue, trigger)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for scanner tick")
	}
}

func TestInactiveContactScan(t *testing.T) {
	clock := clockwork.NewFakeClock()
	now := clock.Now().UTC()

	contacts := staticContacts{contacts: []models.Contact{
		{ID: "c-stale", Status: models.ContactStatusActive, LastContact: now.AddDate(0, 0, -45)},
		{ID: "c-fresh", Status: models.ContactStatusActive, LastContact: now.AddDate(0, 0, -2)},
		{ID: "c-exactly-30", Status: models.ContactStatusActive, LastContact: now.AddDate(0, 0, -30)},
		{ID: "c-never", Status: models.ContactStatusActive},
	}}

	dispatcher := &recordingDispatcher{}
	scanner := NewInactiveContactScanner(contacts, dispatcher, clock, 24*time.Hour, 30*24*time.Hour)

	scanner.Scan(context.Background())

	require.Len(t, dispatcher.calls, 1)
	assert.Equal(t, models.TriggerContactInactive, dispatcher.calls[0].trigger)

	id, ok := dispatcher.calls[0].tc.Field("contact.id")
	require.True(t, ok)
	assert.Equal(t, "c-stale", id)
}

func TestInactiveContactScanIgnoresStatus(t *testing.T) {
	clock := clockwork.NewFakeClock()
	now := clock.Now().UTC()

	// Every stale contact fires, whatever its status; filtering on status
	// is a rule condition, not the scanner's call.
	contacts := staticContacts{contacts: []models.Contact{
		{ID: "c-stale-lead", Status: models.ContactStatusLead, LastContact: now.AddDate(0, 0, -90)},
		{ID: "c-stale-inactive", Status: models.ContactStatusInactive, LastContact: now.AddDate(0, 0, -60)},
		{ID: "c-fresh-lead", Status: models.ContactStatusLead, LastContact: now.AddDate(0, 0, -3)},
	}}

	dispatcher := &recordingDispatcher{}
	scanner := NewInactiveContactScanner(contacts, dispatcher, clock, 24*time.Hour, 30*24*time.Hour)

	scanner.Scan(context.Background())

	require.Len(t, dispatcher.calls, 2)

	fired := []string{}
	for _, call := range dispatcher.calls {
		id, ok := call.tc.Field("contact.id")
		require.True(t, ok)
		fired = append(fired, id.(string))
	}

	assert.ElementsMatch(t, []string{"c-stale-lead", "c-stale-inactive"}, fired)
}

func TestScannerDefaults(t *testing.T) {
	clock := clockwork.NewFakeClock()

	due := NewDueTaskScanner(staticTasks{}, &recordingDispatcher{}, clock, 0)
	assert.Equal(t, DefaultDueTaskInterval, due.interval)

	inactive := NewInactiveContactScanner(staticContacts{}, &recordingDispatcher{}, clock, 0, 0)
	assert.Equal(t, DefaultInactiveScanInterval, inactive.interval)
	assert.Equal(t, DefaultInactivityWindow, inactive.window)
}
