package nativelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterAppendsToDailyFile(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	day := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return day }

	_, err = w.Write([]byte("first\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "lander_2026-03-14.log"))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(content))
}

func TestPruneRemovesOldFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	for _, name := range []string{"lander_2026-01-01.log", "lander_2026-03-13.log", "other.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	removed, err := w.Prune(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(filepath.Join(dir, "lander_2026-03-13.log"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "other.txt"))
	assert.NoError(t, err)
}

func TestNewZapLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewZapLogger(Options{Dir: dir})
	require.NoError(t, err)

	logger.Info("hello")
	_ = logger.Sync()

	content, err := os.ReadFile(filepath.Join(dir, DailyFilename(time.Now())))
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"hello"`)
}
