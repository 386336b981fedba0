// Package settings stores application-wide preferences as a single
// persisted blob with merge-style updates.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nudgecrm/nudge/pkg/log"
	"github.com/nudgecrm/nudge/pkg/persistence"
)

// BlobKey is the fixed persistence key for the serialized settings.
const BlobKey = "app_settings"

type AppSettings struct {
	Theme       string `json:"theme"       validate:"oneof=light dark"`
	Language    string `json:"language"`
	Logo        string `json:"logo,omitempty"`
	CompanyName string `json:"companyName"`
}

// Patch carries a partial settings update; nil fields keep their value.
type Patch struct {
	Theme       *string `json:"theme,omitempty"`
	Language    *string `json:"language,omitempty"`
	Logo        *string `json:"logo,omitempty"`
	CompanyName *string `json:"companyName,omitempty"`
}

func Defaults() AppSettings {
	return AppSettings{
		Theme:       "light",
		Language:    "en",
		CompanyName: "My CRM",
	}
}

// LanguageOption describes a selectable UI language.
type LanguageOption struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NativeName string `json:"nativeName"`
}

// AvailableLanguages lists the languages the UI can be rendered in.
var AvailableLanguages = []LanguageOption{
	{Code: "en", Name: "English", NativeName: "English"},
	{Code: "fr", Name: "French", NativeName: "Français"},
	{Code: "es", Name: "Spanish", NativeName: "Español"},
	{Code: "de", Name: "German", NativeName: "Deutsch"},
}

type Store struct {
	mu       sync.RWMutex
	settings AppSettings
	blobs    persistence.BlobRepository
	logger   *slog.Logger
}

func NewStore(blobs persistence.BlobRepository) *Store {
	return &Store{
		settings: Defaults(),
		blobs:    blobs,
		logger:   log.WithModule("settings"),
	}
}

// Load restores settings from the persisted blob. Absent or corrupt blobs
// fall back to defaults.
func (s *Store) Load(ctx context.Context) error {
	blob, found, err := s.blobs.Get(ctx, BlobKey)
	if err != nil {
		return fmt.Errorf("failed to read settings blob: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !found {
		s.settings = Defaults()

		return nil
	}

	loaded := Defaults()

	err = json.Unmarshal([]byte(blob), &loaded)
	if err != nil {
		s.logger.WarnContext(ctx, "Discarding corrupt settings blob", "error", err)
		s.settings = Defaults()

		return nil
	}

	s.settings = loaded

	return nil
}

func (s *Store) Get() AppSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings
}

// Update merges the patch into the current settings and persists.
func (s *Store) Update(ctx context.Context, patch Patch) (AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.settings

	if patch.Theme != nil {
		updated.Theme = *patch.Theme
	}

	if patch.Language != nil {
		updated.Language = *patch.Language
	}

	if patch.Logo != nil {
		updated.Logo = *patch.Logo
	}

	if patch.CompanyName != nil {
		updated.CompanyName = *patch.CompanyName
	}

	blob, err := json.Marshal(updated)
	if err != nil {
		return s.settings, fmt.Errorf("failed to serialize settings: %w", err)
	}

	err = s.blobs.Set(ctx, BlobKey, string(blob))
	if err != nil {
		return s.settings, fmt.Errorf("failed to persist settings: %w", err)
	}

	s.settings = updated

	return s.settings, nil
}
