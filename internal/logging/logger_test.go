package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetOutput(os.Stdout)
		log.SetLevel(logrus.InfoLevel)
	})
	return &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestWithFields_CarriesRequestID(t *testing.T) {
	buf := capture(t)
	ctx := ContextWithRequestID(context.Background(), "req-1")

	WithFields(ctx, map[string]interface{}{"recipe_id": 7}).Info("recipe created")

	entry := lastEntry(t, buf)
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, float64(7), entry["recipe_id"])
	assert.Equal(t, "recipe created", entry["message"])
	assert.Equal(t, "info", entry["severity"])
	assert.NotContains(t, entry, "trace_id")
}

func TestLevelHelpers(t *testing.T) {
	buf := capture(t)
	ctx := context.Background()

	Init("warn")
	Info(ctx, "hidden")
	Infof(ctx, "hidden %d", 1)
	assert.Zero(t, buf.Len())

	Warnf(ctx, "slow %s", "query")
	assert.Equal(t, "warning", lastEntry(t, buf)["severity"])

	Errorf(ctx, "failed: %v", "boom")
	entry := lastEntry(t, buf)
	assert.Equal(t, "error", entry["severity"])
	assert.Equal(t, "failed: boom", entry["message"])
}

func TestInit_UnknownLevelKeepsInfo(t *testing.T) {
	capture(t)
	Init("chatty")
	assert.Equal(t, logrus.InfoLevel, Logger().GetLevel())
}

func TestWarnWriter(t *testing.T) {
	buf := capture(t)

	NewWarnWriter("gorm").Printf("SLOW SQL >= %dms", 200)

	entry := lastEntry(t, buf)
	assert.Equal(t, "warning", entry["severity"])
	assert.Equal(t, "gorm", entry["component"])
	assert.Equal(t, "SLOW SQL >= 200ms", entry["message"])
}
