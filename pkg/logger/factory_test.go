package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/telegraph/pkg/logger"
)

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &rec), buf.String())
	return rec
}

func TestNewFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []logger.Option
		json bool
	}{
		{"json by default", nil, true},
		{"text", []logger.Option{logger.WithTextFormatter()}, false},
		{"last format wins", []logger.Option{logger.WithTextFormatter(), logger.WithJSONFormatter()}, true},
		{"explicit format", []logger.Option{logger.WithFormat(logger.FormatText)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := logger.New(append(tt.opts, logger.WithOutput(&buf))...)
			log.Info("transition taken", logger.Transition("dial"))

			if tt.json {
				rec := lastRecord(t, &buf)
				assert.Equal(t, "transition taken", rec["msg"])
				assert.Equal(t, "dial", rec["transition"])
				return
			}
			assert.Contains(t, buf.String(), "transition=dial")
			assert.Contains(t, buf.String(), `msg="transition taken"`)
		})
	}
}

func TestWithFormatRejectsUnknown(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { logger.WithFormat(logger.Format("xml"))(nil) })
}

func TestMachineScopedLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("service", "telegraph")),
	).With(logger.Machine("door"))

	log.Info("driver started", logger.RunID("r-1"), logger.State("closed"), logger.Goal("open"))

	rec := lastRecord(t, &buf)
	assert.Equal(t, "telegraph", rec["service"])
	assert.Equal(t, "door", rec["machine"])
	assert.Equal(t, "r-1", rec["run_id"])
	assert.Equal(t, "closed", rec["state"])
	assert.Equal(t, "open", rec["goal"])
}

func TestWithContextValue(t *testing.T) {
	t.Parallel()

	type correlationKey struct{}

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithContextValue("correlation", correlationKey{}),
		logger.WithContextValue("", correlationKey{}),
		logger.WithContextValue("ignored", nil),
	)

	log.InfoContext(context.Background(), "no value")
	assert.NotContains(t, lastRecord(t, &buf), "correlation")

	ctx := context.WithValue(context.Background(), correlationKey{}, "op-9")
	log.InfoContext(ctx, "with value")
	assert.Equal(t, "op-9", lastRecord(t, &buf)["correlation"])
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))

	log.Debug("transition rejected")
	log.Info("driver started")
	assert.Empty(t, buf.String())

	log.Warn("change not relayed")
	assert.Equal(t, "change not relayed", lastRecord(t, &buf)["msg"])
}

func TestSetAsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger.SetAsDefault(logger.New(logger.WithOutput(&buf)).With(logger.Machine("default")))
	slog.Info("via default")

	rec := lastRecord(t, &buf)
	assert.Equal(t, "via default", rec["msg"])
	assert.Equal(t, "default", rec["machine"])
}
