package expand

import (
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnvBothSyntaxes(t *testing.T) {
	t.Setenv("SCOUR_TEST_DIR", "/srv/data")

	assert.Equal(t, "/srv/data/cache", ExpandEnv("$SCOUR_TEST_DIR/cache"))
	assert.Equal(t, "/srv/data/cache", ExpandEnv("${SCOUR_TEST_DIR}/cache"))
	assert.Equal(t, "/srv/data/cache", ExpandEnv("%SCOUR_TEST_DIR%/cache"))
}

func TestExpandEnvUnknownStaysLiteral(t *testing.T) {
	assert.Equal(t, "$SCOUR_NO_SUCH_VAR/cache", ExpandEnv("$SCOUR_NO_SUCH_VAR/cache"))
	assert.Equal(t, "%SCOUR_NO_SUCH_VAR%/cache", ExpandEnv("%SCOUR_NO_SUCH_VAR%/cache"))
}

func TestExpandEnvEmptyValueStaysLiteral(t *testing.T) {
	// An empty variable would collapse the path toward the root, so
	// it is treated as unset.
	t.Setenv("SCOUR_EMPTY", "")

	assert.Equal(t, "$SCOUR_EMPTY/cache", ExpandEnv("$SCOUR_EMPTY/cache"))
}

func TestExpandEnvXDGFallback(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	assert.Equal(t, xdg.CacheHome+"/thumbs", ExpandEnv("${XDG_CACHE_HOME}/thumbs"))
}

func TestExpandEnvXDGFromEnvironment(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	assert.Equal(t, "/tmp/xdg-cache/thumbs", ExpandEnv("${XDG_CACHE_HOME}/thumbs"))
}

func TestExpandHome(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	got, err := ExpandHome("~/.cache/app")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".cache", "app"), got)

	got, err = ExpandHome("/no/tilde")
	require.NoError(t, err)
	assert.Equal(t, "/no/tilde", got)

	// A tilde anywhere but the front is a file name character.
	got, err = ExpandHome("/data/~backup")
	require.NoError(t, err)
	assert.Equal(t, "/data/~backup", got)
}
