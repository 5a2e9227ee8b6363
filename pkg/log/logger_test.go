package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcxgbErrors "github.com/hrmn-preet/multi-class-xgboost/pkg/errors"
)

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{name: "debug", want: slog.LevelDebug},
		{name: "info", want: slog.LevelInfo},
		{name: "warn", want: slog.LevelWarn},
		{name: "error", want: slog.LevelError},
		{name: "bogus", want: slog.LevelInfo},
		{name: "", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("level "+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToLogLevel(tt.name))
		})
	}
}

func newBufferLogger(buf *bytes.Buffer, level slog.Level) Logger {
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level}))
	return &slogLogger{l: slog.New(handler)}
}

func TestErrFmtHandlerAddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, slog.LevelInfo)

	err := mcxgbErrors.NewDimensionError("GradHess", 4, 3, 1)
	logger.Error("computation failed", ErrAttr(err))

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Contains(t, record[ErrAttrKey].(string), "GradHess")
	stacktrace, ok := record[StacktraceAttrKey].(string)
	require.True(t, ok, "record must carry a stacktrace attribute")
	assert.NotEmpty(t, stacktrace)
}

func TestErrFmtHandlerPlainRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, slog.LevelInfo)

	logger.Info("training started", SamplesKey, 100)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, float64(100), record[SamplesKey])
	_, hasStacktrace := record[StacktraceAttrKey]
	assert.False(t, hasStacktrace)
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, slog.LevelInfo).With(ComponentKey, "booster.trainer")

	logger.Info("round done", RoundKey, 3)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "booster.trainer", record[ComponentKey])
	assert.Equal(t, float64(3), record[RoundKey])
}

func TestLoggerEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf, slog.LevelWarn)

	ctx := context.Background()
	assert.False(t, logger.Enabled(ctx, slog.LevelDebug))
	assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.True(t, logger.Enabled(ctx, slog.LevelWarn))
	assert.True(t, logger.Enabled(ctx, slog.LevelError))

	logger.Debug("suppressed")
	assert.Zero(t, buf.Len())
}

func TestSetLogger(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	var buf bytes.Buffer
	replacement := newBufferLogger(&buf, slog.LevelInfo)
	SetLogger(replacement)

	GetLoggerWithName("test.component").Info("hello")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "test.component", record[ComponentKey])
}
