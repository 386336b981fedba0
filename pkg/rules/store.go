// Package rules owns the automation rule set: an in-memory list persisted
// as a JSON blob on every mutation, plus the condition evaluator.
package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/nudgecrm/nudge/pkg/models"
	"github.com/nudgecrm/nudge/pkg/persistence"
)

// BlobKey is the fixed persistence key for the serialized rule list.
const BlobKey = "automation_rules"

// Store is the authoritative rule list. Reads and writes are guarded by an
// RWMutex since scanners, event handlers and API edits interleave.
type Store struct {
	mu     sync.RWMutex
	rules  []*models.AutomationRule
	blobs  persistence.BlobRepository
	clock  clockwork.Clock
	logger *slog.Logger
}

func NewStore(blobs persistence.BlobRepository, clock clockwork.Clock, logger *slog.Logger) *Store {
	return &Store{
		blobs:  blobs,
		clock:  clock,
		logger: logger.With("module", "rule_store"),
	}
}

// Load restores the rule set from the persisted blob. An absent or corrupt
// blob yields an empty set and a warning, not an error.
func (s *Store) Load(ctx context.Context) error {
	blob, found, err := s.blobs.Get(ctx, BlobKey)
	if err != nil {
		return fmt.Errorf("failed to read rule blob: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !found {
		s.rules = nil

		return nil
	}

	var loaded []*models.AutomationRule

	err = json.Unmarshal([]byte(blob), &loaded)
	if err != nil {
		s.logger.WarnContext(ctx, "Discarding corrupt rule blob", "error", err)
		s.rules = nil

		return nil
	}

	s.rules = loaded

	return nil
}

// Add assigns a fresh id and timestamps to the draft, appends it and
// persists the set. The stored rule is returned.
func (s *Store) Add(ctx context.Context, draft models.AutomationRule) (*models.AutomationRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()

	rule := draft
	rule.ID = uuid.NewString()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	s.rules = append(s.rules, &rule)

	err := s.persistLocked(ctx)
	if err != nil {
		return nil, err
	}

	return rule.Clone(), nil
}

// Update merges the patch into the matching rule and bumps UpdatedAt. An
// unknown id is a silent no-op: nothing changes, nothing persists.
func (s *Store) Update(ctx context.Context, id string, patch models.RulePatch) (*models.AutomationRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rule := range s.rules {
		if rule.ID != id {
			continue
		}

		patch.Apply(rule)
		rule.UpdatedAt = s.clock.Now().UTC()

		err := s.persistLocked(ctx)
		if err != nil {
			return nil, err
		}

		return rule.Clone(), nil
	}

	return nil, nil
}

// Remove deletes the matching rule and persists. No-op when absent.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.rules[:0]
	removed := false

	for _, rule := range s.rules {
		if rule.ID == id {
			removed = true

			continue
		}

		kept = append(kept, rule)
	}

	s.rules = kept

	if !removed {
		return nil
	}

	return s.persistLocked(ctx)
}

// Get returns a copy of the rule with the given id, or nil.
func (s *Store) Get(id string) *models.AutomationRule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rule := range s.rules {
		if rule.ID == id {
			return rule.Clone()
		}
	}

	return nil
}

// List returns a snapshot of the rule set in list order. Mutating the
// snapshot does not affect the store.
func (s *Store) List() []*models.AutomationRule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]*models.AutomationRule, len(s.rules))
	for i, rule := range s.rules {
		snapshot[i] = rule.Clone()
	}

	return snapshot
}

func (s *Store) persistLocked(ctx context.Context) error {
	blob, err := json.Marshal(s.rules)
	if err != nil {
		return fmt.Errorf("failed to serialize rules: %w", err)
	}

	err = s.blobs.Set(ctx, BlobKey, string(blob))
	if err != nil {
		return fmt.Errorf("failed to persist rules: %w", err)
	}

	return nil
}
