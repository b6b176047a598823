package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNewCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "scour", "audit.log")

	l, err := New(path, false)
	require.NoError(t, err)
	l.Infof("first line")
	require.NoError(t, l.Close())

	assert.Contains(t, readLog(t, path), "INFO first line")
}

func TestLevelsAndRunPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	l, err := New(path, false)
	require.NoError(t, err)

	run := l.WithRun("abc-123")
	run.Infof("cleaned %d entries", 4)
	run.Warnf("skipped %s", "/tmp/x")
	run.Errorf("failed %s", "/tmp/y")
	require.NoError(t, l.Close())

	out := readLog(t, path)
	assert.Contains(t, out, "INFO run=abc-123 cleaned 4 entries")
	assert.Contains(t, out, "WARN run=abc-123 skipped /tmp/x")
	assert.Contains(t, out, "ERROR run=abc-123 failed /tmp/y")
}

func TestDebugGated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	l, err := New(path, false)
	require.NoError(t, err)
	l.Debugf("invisible")
	l.Infof("visible")
	require.NoError(t, l.Close())

	out := readLog(t, path)
	assert.NotContains(t, out, "invisible")
	assert.Contains(t, out, "visible")
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Infof("goes nowhere")
	l.Errorf("also nowhere")
	assert.NoError(t, l.Close())
}

func TestWithRunDoesNotAffectParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	l, err := New(path, false)
	require.NoError(t, err)
	_ = l.WithRun("xyz")
	l.Infof("plain line")
	require.NoError(t, l.Close())

	for _, line := range strings.Split(readLog(t, path), "\n") {
		if strings.Contains(line, "plain line") {
			assert.NotContains(t, line, "run=")
		}
	}
}
