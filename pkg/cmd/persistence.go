// Package cmd wires shared infrastructure (persistence, event bus) for the
// command-line entry points.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nudgecrm/nudge/pkg/persistence"
	"github.com/nudgecrm/nudge/pkg/persistence/file"
	"github.com/nudgecrm/nudge/pkg/persistence/memory"
	"github.com/nudgecrm/nudge/pkg/persistence/postgres"
	"github.com/nudgecrm/nudge/pkg/persistence/redis"
)

// NewBlobRepository creates the blob store described by the database URL
// scheme: file://, redis://, postgres://, or memory:// (the default).
func NewBlobRepository(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.BlobRepository {
	switch provider := parsePersistenceProvider(databaseURL); provider {
	case "file":
		repo, err := file.NewRepository(databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create file persistence: %w", err))
		}

		return repo
	case "redis":
		repo, err := redis.NewRepository(ctx, databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create redis persistence: %w", err))
		}

		return repo
	case "postgres", "postgresql":
		repo, err := postgres.NewRepository(ctx, logger, databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create postgres persistence: %w", err))
		}

		return repo
	case "memory", "":
		return memory.NewRepository()
	default:
		panic("Unsupported persistence provider: " + provider)
	}
}

func parsePersistenceProvider(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return ""
	}

	return scheme
}
