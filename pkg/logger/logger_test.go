package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birddog/teddy/pkg/config"
)

// newBufferLogger returns a logger writing JSON into buf.
func newBufferLogger(buf *bytes.Buffer) *Logger {
	zlog := zerolog.New(buf).With().Timestamp().Logger()
	return &Logger{zlog: zlog}
}

func TestNew(t *testing.T) {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "debug",
		LogFormat: "json",
	}

	log := New(cfg)
	assert.NotNil(t, log)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"garbage", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.WithFields(map[string]interface{}{
		"parcel_id": "TX-123",
		"score":     82.5,
	}).Info("insight computed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "TX-123", entry["parcel_id"])
	assert.Equal(t, 82.5, entry["score"])
	assert.Equal(t, "insight computed", entry["message"])
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	log.WithError(assert.AnError).Error("fetch failed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Contains(t, entry["error"], "assert.AnError")
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	log := newBufferLogger(&buf)

	child := log.WithField("category", "soil")
	assert.NotSame(t, log, child)

	log.Info("parent message")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	_, has := entry["category"]
	assert.False(t, has, "parent logger should not carry child fields")
}
