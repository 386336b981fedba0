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

const (
	DefaultInactiveScanInterval = 24 * time.Hour
	DefaultInactivityWindow     = 30 * 24 * time.Hour
)

// InactiveContactScanner fires a contact_inactive trigger for every
// contact whose last recorded touch is older than the inactivity window,
// whatever the contact's status. Rules that only care about currently
// active contacts add a contact.status condition.
type InactiveContactScanner struct {
	contacts   protocol.ContactLister
	dispatcher protocol.Dispatcher
	clock      clockwork.Clock
	interval   time.Duration
	window     time.Duration
	logger     *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func NewInactiveContactScanner(contacts protocol.ContactLister, dispatcher protocol.Dispatcher, clock clockwork.Clock, interval, window time.Duration) *InactiveContactScanner {
	if interval <= 0 {
		interval = DefaultInactiveScanInterval
	}

	if window <= 0 {
		window = DefaultInactivityWindow
	}

	return &InactiveContactScanner{
		contacts:   contacts,
		dispatcher: dispatcher,
		clock:      clock,
		interval:   interval,
		window:     window,
		logger:     log.WithModule("scanner.inactive_contacts"),
	}
}

func (s *InactiveContactScanner) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	s.logger.Info("Starting inactive contact scanner",
		"interval", s.interval, "window", s.window)

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

func (s *InactiveContactScanner) Stop() {
	s.once.Do(func() {
		if s.cancel == nil {
			return
		}

		s.cancel()
		<-s.done

		s.logger.Info("Inactive contact scanner stopped")
	})
}

// Scan runs one sweep. A contact with no last-contact timestamp at all is
// skipped rather than treated as infinitely stale.
func (s *InactiveContactScanner) Scan(ctx context.Context) {
	cutoff := s.clock.Now().UTC().Add(-s.window)

	for _, contact := range s.contacts.ListContacts(ctx) {
		if contact.LastContact.IsZero() || !contact.LastContact.Before(cutoff) {
			continue
		}

		s.logger.Debug("Contact has gone quiet",
			"contact_id", contact.ID, "last_contact", contact.LastContact)

		result := s.dispatcher.ProcessTrigger(ctx, models.TriggerContactInactive, models.ContactContext{Contact: contact})
		if failed := result.Failed(); failed > 0 {
			s.logger.Warn("Actions failed during inactive contact sweep",
				"contact_id", contact.ID, "failed", failed)
		}
	}
}
