package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/medgraph/pkg/types"
)

func newTestHandler(t *testing.T) (*ParquetHandler, string) {
	t.Helper()
	dir := t.TempDir()
	next := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	h, err := NewParquetHandler(next, dir)
	require.NoError(t, err)
	return h, dir
}

func record(level slog.Level, msg string) slog.Record {
	return slog.NewRecord(time.Now(), level, msg, 0)
}

func TestHandlerBuffersOnlyErrors(t *testing.T) {
	h, dir := newTestHandler(t)
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, record(slog.LevelInfo, "expansion cycle complete")))
	require.NoError(t, h.Handle(ctx, record(slog.LevelWarn, "rate limited")))
	require.NoError(t, h.Handle(ctx, record(slog.LevelError, "fetch failed")))

	require.NoError(t, h.Flush())

	files, err := filepath.Glob(filepath.Join(dir, "*.parquet"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	rows, err := parquet.ReadFile[LogRecord](files[0])
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "fetch failed", rows[0].Message)
	assert.Equal(t, "ERROR", rows[0].Level)
	assert.NotEmpty(t, rows[0].ID)
}

func TestHandlerCapturesContextIDs(t *testing.T) {
	h, dir := newTestHandler(t)
	ctx := context.WithValue(context.Background(), types.ContextKeySessionID, "sess-1")
	ctx = context.WithValue(ctx, types.ContextKeyCycleID, "cycle-2")

	rec := record(slog.LevelError, "admission failed")
	rec.AddAttrs(slog.String("node", "wall_shear_stress"))
	require.NoError(t, h.Handle(ctx, rec))
	require.NoError(t, h.Flush())

	files, err := filepath.Glob(filepath.Join(dir, "*.parquet"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	rows, err := parquet.ReadFile[LogRecord](files[0])
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "sess-1", rows[0].SessionID)
	assert.Equal(t, "cycle-2", rows[0].CycleID)
	assert.Contains(t, rows[0].Attributes, "wall_shear_stress")
}

func TestFlushEmptyBufferWritesNothing(t *testing.T) {
	h, dir := newTestHandler(t)
	require.NoError(t, h.Flush())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
