package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDeleteFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "junk.tmp")
	write(t, file, "12345")

	bytes, entries, err := Delete(file, false)
	require.NoError(t, err)
	assert.Equal(t, int64(5), bytes)
	assert.Equal(t, 1, entries)
	assert.NoFileExists(t, file)
}

func TestDeleteDirectoryRecursive(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "cache")
	write(t, filepath.Join(root, "a"), "123")
	write(t, filepath.Join(root, "sub", "b"), "4567")

	bytes, entries, err := Delete(root, false)
	require.NoError(t, err)
	assert.Equal(t, int64(7), bytes)
	// a, sub, sub/b, plus the cache directory itself.
	assert.Equal(t, 4, entries)
	assert.NoDirExists(t, root)
}

func TestDeleteMissing(t *testing.T) {
	_, _, err := Delete(filepath.Join(t.TempDir(), "gone"), false)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDeleteSymlinkRemovesOnlyTheLink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privilege on windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	link := filepath.Join(dir, "link")
	write(t, target, "payload")
	require.NoError(t, os.Symlink(target, link))

	bytes, entries, err := Delete(link, true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bytes)
	assert.Equal(t, 1, entries)
	assert.NoFileExists(t, link)

	// The target survives untouched even in shred mode.
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestDeleteShredLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "secret.txt")
	write(t, file, "do not recover me")

	bytes, entries, err := Delete(file, true)
	require.NoError(t, err)
	assert.Equal(t, int64(17), bytes)
	assert.Equal(t, 1, entries)

	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestTruncate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.log")
	write(t, file, "old log lines")

	freed, err := Truncate(file)
	require.NoError(t, err)
	assert.Equal(t, int64(13), freed)

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
}

func TestTruncateRefusesDirectory(t *testing.T) {
	_, err := Truncate(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a regular file")
}

func TestTruncateMissing(t *testing.T) {
	_, err := Truncate(filepath.Join(t.TempDir(), "gone.log"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestTreeSize(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "a"), "12345")
	write(t, filepath.Join(dir, "sub", "b"), "123")

	bytes, entries := TreeSize(dir)
	assert.Equal(t, int64(8), bytes)
	assert.Equal(t, 3, entries) // a, sub, sub/b
}

func TestTreeSizeMissingRoot(t *testing.T) {
	bytes, entries := TreeSize(filepath.Join(t.TempDir(), "gone"))
	assert.Equal(t, int64(0), bytes)
	assert.Equal(t, 0, entries)
}

func TestWipeContents(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "w")
	write(t, file, "sensitive")

	require.NoError(t, WipeContents(file))

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
}

func TestScrambleName(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "original")
	write(t, file, "x")

	renamed, err := ScrambleName(file)
	require.NoError(t, err)
	assert.NotEqual(t, file, renamed)
	assert.Equal(t, dir, filepath.Dir(renamed))
	assert.NoFileExists(t, file)
	assert.FileExists(t, renamed)
}
