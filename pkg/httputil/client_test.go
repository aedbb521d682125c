package httputil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birddog/teddy/pkg/config"
	"github.com/birddog/teddy/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := New(&config.Config{}, testLogger())

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestPostJSONWithHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "TX-123", payload["parcel_id"])

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(&config.Config{}, testLogger())

	resp, err := client.PostJSONWithHeaders(context.Background(), server.URL,
		map[string]string{"Authorization": "Bearer secret"},
		map[string]string{"parcel_id": "TX-123"},
	)
	require.NoError(t, err)
	resp.Body.Close()
}

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(&config.Config{}, testLogger()).WithRetry(3, 10*time.Millisecond)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDisableRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(&config.Config{}, testLogger()).DisableRetry()

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(http.StatusInternalServerError))
	assert.True(t, IsRetryableError(http.StatusBadGateway))
	assert.True(t, IsRetryableError(http.StatusTooManyRequests))
	assert.False(t, IsRetryableError(http.StatusOK))
	assert.False(t, IsRetryableError(http.StatusNotFound))
	assert.False(t, IsRetryableError(http.StatusBadRequest))
}
