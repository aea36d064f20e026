package log

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Level(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, InfoLevel)
	l.Debug("hidden")
	l.Info("shown", String("key", "value"))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"key":"value"`)

	l.Named("child").SetLevel(DebugLevel)
	l.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestLogger_WithFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	l, err := New(buf, DebugLevel).WithFilter("info,warn,error:* debug:world")
	require.NoError(t, err)

	l.Named("racer").Debug("racer debug")
	l.Named("world").Debug("world debug")
	l.Named("racer").Info("racer info")

	assert.NotContains(t, buf.String(), "racer debug")
	assert.Contains(t, buf.String(), "world debug")
	assert.Contains(t, buf.String(), "racer info")
}

func TestContext(t *testing.T) {
	assert.Same(t, Default(), GetFromContext(context.Background()))
	l := New(&bytes.Buffer{}, InfoLevel)
	ctx := AddToContext(context.Background(), l)
	assert.Same(t, l, GetFromContext(ctx))
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.yml")
	require.NoError(t, os.WriteFile(path,
		[]byte("level: debug\nformat: json\nfilter: \"*:*\"\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, &FileConfig{Level: "debug", Format: "json", Filter: "*:*"}, cfg)

	l := New(&bytes.Buffer{}, InfoLevel)
	l.reloadLevel(path)
	assert.Equal(t, DebugLevel, l.Level())
}

func TestWatchConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.yml")
	require.NoError(t, os.WriteFile(path, []byte("level: info\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := New(&bytes.Buffer{}, InfoLevel)
	require.NoError(t, l.WatchConfig(ctx, path))

	require.NoError(t, os.WriteFile(path, []byte("level: warn\n"), 0o600))
	assert.Eventually(t, func() bool { return l.Level() == WarnLevel },
		2*time.Second, 10*time.Millisecond)
}
