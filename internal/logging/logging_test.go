package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			result := newLogger(Config{Level: tt.level, Format: FormatJSON}, &bytes.Buffer{})
			assert.Equal(t, tt.want, result.Logger.GetLevel())
		})
	}
}

func TestNewLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	result := newLogger(Config{Level: "info", Format: FormatJSON}, &buf)

	logger := ComponentLogger(result.Logger, "grid")
	logger.Info().Int("page", 3).Msg("rendered")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "grid", event["component"])
	assert.Equal(t, "rendered", event["message"])
	assert.EqualValues(t, 3, event["page"])
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gridpager.log")
	result := NewLogger(Config{Level: "info", Output: OutputFile, File: path})
	defer result.Close()

	require.True(t, result.UsingFile)
	assert.Equal(t, path, result.FilePath)

	result.Logger.Info().Msg("hello")
	require.NoError(t, result.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestNewLogger_FileFallback(t *testing.T) {
	var buf bytes.Buffer
	result := newLogger(Config{Output: OutputFile}, &buf)
	assert.False(t, result.UsingFile)
	assert.True(t, result.FallbackUsed)
	assert.NotEmpty(t, result.FallbackReason)
	assert.NoError(t, result.Close())

	var out bytes.Buffer
	PrintFallbackWarning(&out, result.FallbackReason)
	assert.Contains(t, out.String(), "logging to stderr")
}

func TestFromContext(t *testing.T) {
	t.Run("no logger is disabled", func(t *testing.T) {
		logger := FromContext(context.Background())
		require.NotNil(t, logger)
		assert.Equal(t, zerolog.Disabled, logger.GetLevel())
	})

	t.Run("trace id attached", func(t *testing.T) {
		var buf bytes.Buffer
		base := zerolog.New(&buf)
		ctx := base.WithContext(context.Background())
		ctx = ContextWithTraceID(ctx, "trace-123")

		FromContext(ctx).Info().Msg("x")

		var event map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
		assert.Equal(t, "trace-123", event["trace_id"])
	})
}

func TestTraceIDs(t *testing.T) {
	id := GenerateTraceID()
	_, err := ulid.Parse(id)
	require.NoError(t, err)

	assert.Empty(t, TraceIDFromContext(context.Background()))

	ctx := ContextWithTraceID(context.Background(), id)
	assert.Equal(t, id, TraceIDFromContext(ctx))
	assert.Equal(t, id, GetOrGenerateTraceID(ctx))
	assert.NotEqual(t, id, GetOrGenerateTraceID(context.Background()))
}
