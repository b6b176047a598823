//go:build linux

package guard

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFilesSeesOwnHandle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "held.db")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	o := NewOpenFiles()
	assert.True(t, o.IsOpen(path))
}

func TestOpenFilesClosedHandle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "free.db")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	o := &OpenFiles{TTL: time.Nanosecond}
	assert.False(t, o.IsOpen(path))
}

func TestOpenFilesMissingPath(t *testing.T) {
	o := NewOpenFiles()
	assert.False(t, o.IsOpen(filepath.Join(t.TempDir(), "never-existed")))
}
