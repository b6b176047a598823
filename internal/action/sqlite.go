package action

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/scourlabs/scour/internal/catalog"
	"github.com/scourlabs/scour/internal/fsutil"
	"github.com/scourlabs/scour/internal/search"
)

// sqliteMagic is the first 16 bytes of every SQLite 3 database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// vacuumDatabase rebuilds an SQLite database file and reports the
// bytes the rebuild gave back. The magic header is verified first so
// a glob that caught a stray file never reaches the driver.
func (d *Dispatcher) vacuumDatabase(ctx context.Context, act catalog.Action, tgt search.Target) (Effect, error) {
	if err := checkSQLiteMagic(tgt.Path); err != nil {
		return Effect{}, err
	}
	before := fileSize(tgt.Path)

	db, err := sqlx.Open("sqlite", fsutil.ExtendedPath(tgt.Path))
	if err != nil {
		return Effect{}, errors.Wrapf(err, "open %s", tgt.Path)
	}

	// A cheap read first: a database held by a running application
	// surfaces as locked here instead of mid-VACUUM.
	var schema int
	if err := db.GetContext(ctx, &schema, "PRAGMA schema_version"); err != nil {
		db.Close()
		return Effect{}, classifySQLite(err, tgt.Path)
	}
	if _, err := db.ExecContext(ctx, "VACUUM"); err != nil {
		db.Close()
		return Effect{}, classifySQLite(err, tgt.Path)
	}
	if err := db.Close(); err != nil {
		return Effect{}, errors.Wrapf(err, "close %s", tgt.Path)
	}

	freed := before - fileSize(tgt.Path)
	if freed < 0 {
		freed = 0
	}
	return Effect{Bytes: freed, Items: 1}, nil
}

// classifySQLite maps driver errors onto the shared failure classes.
// The driver reports a held database as "locked" or "busy" text, not
// a typed error.
func classifySQLite(err error, path string) error {
	msg := err.Error()
	if strings.Contains(msg, "locked") || strings.Contains(msg, "busy") {
		return fmt.Errorf("%s: %w", path, ErrInUse)
	}
	return errors.Wrapf(err, "vacuum %s", path)
}

func checkSQLiteMagic(path string) error {
	f, err := os.Open(fsutil.ExtendedPath(path))
	if err != nil {
		return classify(err)
	}
	defer f.Close()
	header := make([]byte, len(sqliteMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		return fmt.Errorf("%w: %s: too short for an SQLite database", ErrInvalidFormat, path)
	}
	if !bytes.Equal(header, sqliteMagic) {
		return fmt.Errorf("%w: %s: not an SQLite database", ErrInvalidFormat, path)
	}
	return nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(fsutil.ExtendedPath(path))
	if err != nil {
		return 0
	}
	return info.Size()
}
