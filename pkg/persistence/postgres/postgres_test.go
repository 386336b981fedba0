package postgres

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Integration test; set NUDGE_POSTGRES_URL to run against a real database.
func TestRepositoryIntegration(t *testing.T) {
	databaseURL := os.Getenv("NUDGE_POSTGRES_URL")
	if databaseURL == "" {
		t.Skip("NUDGE_POSTGRES_URL not set, skipping postgres integration test")
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	repo, err := NewRepository(ctx, logger, databaseURL)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, repo.Close(ctx))
	}()

	require.NoError(t, repo.HealthCheck(ctx))

	_, found, err := repo.Get(ctx, "integration_probe")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Set(ctx, "integration_probe", `{"v":1}`))
	require.NoError(t, repo.Set(ctx, "integration_probe", `{"v":2}`))

	value, found, err := repo.Get(ctx, "integration_probe")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"v":2}`, value)
}
