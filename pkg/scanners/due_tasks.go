// Package scanners holds the periodic trigger sources: background loops
// that sweep the CRM data on an interval and feed matching records into
// the dispatcher.
package scanners

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nudgecrm/nudge/pkg/log"
	"github.com/nudgecrm/nudge/pkg/models"
	"github.com/nudgecrm/nudge/pkg/protocol"
)

const DefaultDueTaskInterval = time.Minute

// DueTaskScanner fires a task_due trigger for every pending task whose
// due date has passed. It deliberately keeps no memory of what it already
// fired: a task that stays overdue triggers again on every sweep, and
// rules that should not repeat must make their actions change the state
// the conditions test.
type DueTaskScanner struct {
	tasks      protocol.TaskLister
	dispatcher protocol.Dispatcher
	clock      clockwork.Clock
	interval   time.Duration
	logger     *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func NewDueTaskScanner(tasks protocol.TaskLister, dispatcher protocol.Dispatcher, clock clockwork.Clock, interval time.Duration) *DueTaskScanner {
	if interval <= 0 {
		interval = DefaultDueTaskInterval
	}

	return &DueTaskScanner{
		tasks:      tasks,
		dispatcher: dispatcher,
		clock:      clock,
		interval:   interval,
		logger:     log.WithModule("scanner.due_tasks"),
	}
}

func (s *DueTaskScanner) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	s.logger.Info("Starting due task scanner", "interval", s.interval)

	go func() {
		defer close(s.done)

		ticker := s.clock.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				s.Scan(ctx)
			}
		}
	}()
}

func (s *DueTaskScanner) Stop() {
	s.once.Do(func() {
		if s.cancel == nil {
			return
		}

		s.cancel()
		<-s.done

		s.logger.Info("Due task scanner stopped")
	})
}

// Scan runs one sweep. Exposed so callers can force a sweep outside the
// ticker cadence.
func (s *DueTaskScanner) Scan(ctx context.Context) {
	now := s.clock.Now().UTC()

	for _, task := range s.tasks.ListTasks(ctx) {
		if task.Status != models.TaskStatusPending {
			continue
		}

		if task.DueDate.IsZero() || task.DueDate.After(now) {
			continue
		}

		s.logger.Debug("Task is due", "task_id", task.ID, "due_date", task.DueDate)

		result := s.dispatcher.ProcessTrigger(ctx, models.TriggerTaskDue, models.TaskContext{Task: task})
		if failed := result.Failed(); failed > 0 {
			s.logger.Warn("Actions failed during due task sweep",
				"task_id", task.ID, "failed", failed)
		}
	}
}
