package whitelist

import (
	"path/filepath"
	"runtime"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtectedRootsExactOnly(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix root layout")
	}
	w := New(nil)

	assert.True(t, w.IsProtected("/"))
	assert.True(t, w.IsProtected("/etc"))
	assert.True(t, w.IsProtected("/home"))

	// Roots protect themselves, not their contents; cleaning inside a
	// home directory must stay possible.
	assert.False(t, w.IsProtected("/home/me/.cache/junk"))
}

func TestHomeDirectoryIsProtected(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	w := New(nil)
	assert.True(t, w.IsProtected(home))
}

func TestUserPatternSubtree(t *testing.T) {
	w := New([]string{"/home/me/keep"})

	assert.True(t, w.IsProtected("/home/me/keep"))
	assert.True(t, w.IsProtected("/home/me/keep/photos/x.jpg"))
	assert.False(t, w.IsProtected("/home/me/keepsake"))
	assert.False(t, w.IsProtected("/home/me/other"))
}

func TestUserPatternWildcard(t *testing.T) {
	w := New([]string{"/home/me/.config/*/important.db"})

	assert.True(t, w.IsProtected("/home/me/.config/app/important.db"))
	assert.False(t, w.IsProtected("/home/me/.config/app/other.db"))
}

func TestNormalizeCleansPaths(t *testing.T) {
	w := New([]string{"/home/me/keep"})

	assert.True(t, w.IsProtected("/home/me/keep/../keep/file"))
	assert.True(t, w.IsProtected(filepath.Join("/home/me/keep", "file")))
}
