package action

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scourlabs/scour/internal/catalog"
	"github.com/scourlabs/scour/internal/search"
)

func TestHandlerTableCoversEveryCommand(t *testing.T) {
	d := NewDispatcher(false, 0)
	assert.ElementsMatch(t, catalog.Commands(), d.Commands())
}

func TestApplyUnknownCommand(t *testing.T) {
	d := NewDispatcher(false, 0)

	_, err := d.Apply(context.Background(), catalog.Action{Command: "obliterate"}, search.Target{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler")
}

func TestApplyCancelledContext(t *testing.T) {
	d := NewDispatcher(false, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Apply(ctx, catalog.Action{Command: catalog.CommandDelete}, search.Target{Path: "/tmp/x"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestApplyDelete(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "junk.tmp", "12345")

	d := NewDispatcher(false, 0)
	eff, err := d.Apply(context.Background(),
		catalog.Action{Command: catalog.CommandDelete}, search.Target{Path: path})
	require.NoError(t, err)
	assert.Equal(t, Effect{Bytes: 5, Items: 1}, eff)
	assert.NoFileExists(t, path)
}

func TestApplyTruncate(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.log", "old lines")

	d := NewDispatcher(false, 0)
	eff, err := d.Apply(context.Background(),
		catalog.Action{Command: catalog.CommandTruncate}, search.Target{Path: path})
	require.NoError(t, err)
	assert.Equal(t, Effect{Bytes: 9, Items: 1}, eff)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
}

func TestDeleteConsultsInUseOracle(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "held.db", "x")

	d := NewDispatcher(false, 0)
	d.InUse = func(p string) bool { return p == path }

	_, err := d.Apply(context.Background(),
		catalog.Action{Command: catalog.CommandDelete}, search.Target{Path: path})
	require.ErrorIs(t, err, ErrInUse)
	assert.FileExists(t, path)
}

func TestDeleteShredViaDispatcher(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "secret", "do not recover")

	d := NewDispatcher(true, 0)
	eff, err := d.Apply(context.Background(),
		catalog.Action{Command: catalog.CommandDelete}, search.Target{Path: path})
	require.NoError(t, err)
	assert.Equal(t, int64(14), eff.Bytes)

	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestWindowsOnlyCommandsElsewhere(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("windows runs these for real")
	}
	d := NewDispatcher(false, time.Second)

	_, err := d.Apply(context.Background(),
		catalog.Action{Command: catalog.CommandWinreg, Path: `HKCU\Software\Test`}, search.Target{})
	require.ErrorIs(t, err, ErrUnsupported)

	_, err = d.Apply(context.Background(),
		catalog.Action{Command: catalog.CommandRecycle}, search.Target{})
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestDeleteMissingTarget(t *testing.T) {
	d := NewDispatcher(false, 0)

	_, err := d.Apply(context.Background(),
		catalog.Action{Command: catalog.CommandDelete},
		search.Target{Path: filepath.Join(t.TempDir(), "gone")})
	require.ErrorIs(t, err, fs.ErrNotExist)
}
