package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriterLogger(&buf, Options{Level: "debug"})
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, want := range []string{"level=DEBUG", "msg=dbg", "a=1", "level=INFO", "b=2", "level=WARN", "c=3", "level=ERROR", "d=4"} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriterLogger(&buf, Options{Level: "warn"})
	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSlogLogger_JSONWith(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriterLogger(&buf, Options{JSON: true}).With("req_id", "123")
	log.Info(context.Background(), "hello", "k", "v")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "123", entry["req_id"])
	assert.Equal(t, "v", entry["k"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNew_WritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "server.log")
	log := New(Options{File: file, NoTerminal: true, Rotation: Rotation{MaxSize: 1}})
	log.Info(context.Background(), "to-file")

	data, err := readFile(file)
	require.NoError(t, err)
	assert.True(t, strings.Contains(data, "to-file"))
}

func readFile(p string) (string, error) {
	b, err := os.ReadFile(p)
	return string(b), err
}
