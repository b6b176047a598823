package action

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scourlabs/scour/internal/catalog"
	"github.com/scourlabs/scour/internal/search"
)

// makeBloatedDB builds a database whose pages are mostly dead rows,
// the shape a browser history file is in after months of use.
func makeBloatedDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "places.sqlite")

	db, err := sqlx.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE visits (id INTEGER PRIMARY KEY, url TEXT)`)
	require.NoError(t, err)
	for i := 0; i < 200; i++ {
		_, err = db.Exec(`INSERT INTO visits (url) VALUES (?)`,
			"https://example.com/some/fairly/long/path/segment/for/padding")
		require.NoError(t, err)
	}
	_, err = db.Exec(`DELETE FROM visits`)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	return path
}

func vacuumAction() catalog.Action {
	return catalog.Action{Command: catalog.CommandVacuum}
}

func TestVacuumShrinksDatabase(t *testing.T) {
	path := makeBloatedDB(t)
	before, err := os.Stat(path)
	require.NoError(t, err)

	d := NewDispatcher(false, 0)
	eff, err := d.Apply(context.Background(), vacuumAction(), search.Target{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 1, eff.Items)
	assert.GreaterOrEqual(t, eff.Bytes, int64(0))

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.LessOrEqual(t, after.Size(), before.Size())

	// The database still opens and answers queries.
	db, err := sqlx.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM visits`))
	assert.Equal(t, 0, n)
}

func TestVacuumRefusesNonDatabase(t *testing.T) {
	path := writeFile(t, t.TempDir(), "not.sqlite", "plain text pretending to be a database")
	d := NewDispatcher(false, 0)

	_, err := d.Apply(context.Background(), vacuumAction(), search.Target{Path: path})
	require.ErrorIs(t, err, ErrInvalidFormat)

	// Refusal happens before the driver touches the file.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "plain text pretending to be a database", string(data))
}

func TestVacuumRefusesShortFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tiny.sqlite", "short")
	d := NewDispatcher(false, 0)

	_, err := d.Apply(context.Background(), vacuumAction(), search.Target{Path: path})
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestVacuumMissingFile(t *testing.T) {
	d := NewDispatcher(false, 0)

	_, err := d.Apply(context.Background(), vacuumAction(),
		search.Target{Path: filepath.Join(t.TempDir(), "gone.sqlite")})
	require.ErrorIs(t, err, fs.ErrNotExist)
}
