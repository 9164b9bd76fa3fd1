package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lrerrors "github.com/YuminosukeSato/linreg/pkg/errors"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestZerologLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Debug("hidden")
	logger.Info("shown", SamplesKey, 10)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "shown", entries[0]["message"])
	assert.Equal(t, 10.0, entries[0][SamplesKey])

	assert.True(t, logger.Enabled(context.Background(), LevelWarn))
	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
}

func TestZerologLogger_ErrorFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	err := lrerrors.NewDimensionError("MultipleRegressor.Predict", 2, 3, 1)
	logger.Error("predict failed", err, OperationKey, OperationPredict)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "error", entry["level"])
	assert.Contains(t, entry["error"], "dimension mismatch")
	assert.Equal(t, "DIMENSION_MISMATCH", entry[ErrorCodeKey])
	assert.Contains(t, entry[StacktraceKey], "zerolog_test.go")
	assert.Equal(t, OperationPredict, entry[OperationKey])
}

func TestZerologLogger_MarshalerField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	logger.Warn("fit failed", "cause", lrerrors.NewSingularSystemError("matrix.Invert", 1, 0, 1e-10))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	cause, ok := entries[0]["cause"].(map[string]interface{})
	require.True(t, ok, "expected structured object, got %v", entries[0]["cause"])
	assert.Equal(t, "SingularSystemError", cause["type"])
	assert.Equal(t, 1.0, cause["pivot_index"])
}

func TestZerologLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug).With(ModelNameKey, "SimpleRegressor")

	logger.Info("fit finished")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "SimpleRegressor", entries[0][ModelNameKey])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	require.NoError(t, SetupLogger("debug"))
	assert.True(t, GetLogger().Enabled(context.Background(), LevelDebug))
	assert.Error(t, SetupLogger("loud"))
}

func TestWarningsRouteToGlobalLogger(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	testLogger, _ := NewTestLogger(LevelDebug)
	SetLogger(testLogger)

	lrerrors.Warn(lrerrors.NewConditioningWarning("matrix.SolveLinearSystem", 1e9, 1e8))

	assert.True(t, testLogger.ContainsMessage("ill-conditioned"))
	assert.True(t, testLogger.ContainsField(ErrorTypeKey, "*errors.ConditioningWarning"))
}

func TestGetLoggerWithName(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	testLogger, _ := NewTestLogger(LevelDebug)
	SetLogger(testLogger)

	GetLoggerWithName("linear").Info("named")
	assert.True(t, testLogger.ContainsField(ComponentKey, "linear"))
}
