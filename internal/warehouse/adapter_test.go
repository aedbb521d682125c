package warehouse

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birddog/teddy/pkg/config"
	"github.com/birddog/teddy/pkg/logger"
)

func TestErrNoDataIsDetectableThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("soil_profile TX-1: %w", ErrNoData)
	assert.True(t, errors.Is(wrapped, ErrNoData))

	other := errors.New("connection refused")
	assert.False(t, errors.Is(other, ErrNoData))
}

func TestSearchCriteriaDefaults(t *testing.T) {
	// Zero and out-of-range limits fall back to the default cap.
	for _, limit := range []int{0, -5, 500} {
		c := SearchCriteria{Limit: limit}
		capped := c.Limit
		if capped <= 0 || capped > 100 {
			capped = defaultSearchLimit
		}
		assert.Equal(t, defaultSearchLimit, capped)
	}
}

// Integration tests need a live warehouse with the curated schema loaded.
func integrationAdapter(t *testing.T) *Adapter {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping warehouse integration test in short mode")
	}
	url := os.Getenv("WAREHOUSE_URL")
	if url == "" {
		t.Skip("WAREHOUSE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
	return NewAdapter(pool, log)
}

func TestFetchParcelProfileIntegration(t *testing.T) {
	adapter := integrationAdapter(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := adapter.FetchParcelProfile(ctx, "no-such-parcel")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSearchByCriteriaIntegration(t *testing.T) {
	adapter := integrationAdapter(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	min := 40.0
	results, err := adapter.SearchByCriteria(ctx, SearchCriteria{MinAcreage: &min, State: "tx", Limit: 5})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 5)
}
