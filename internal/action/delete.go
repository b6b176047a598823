package action

import (
	"context"
	"fmt"

	"github.com/scourlabs/scour/internal/catalog"
	"github.com/scourlabs/scour/internal/fsutil"
	"github.com/scourlabs/scour/internal/search"
)

// deleteTarget removes one matched entry. Directories arrive after
// their contents in walk.all order, so by the time one is dispatched
// it is normally already empty.
func (d *Dispatcher) deleteTarget(ctx context.Context, act catalog.Action, tgt search.Target) (Effect, error) {
	if d.InUse != nil && d.InUse(tgt.Path) {
		return Effect{}, fmt.Errorf("%s: held open by another process: %w", tgt.Path, ErrInUse)
	}
	bytes, entries, err := fsutil.Delete(tgt.Path, d.Shred)
	if err != nil {
		return Effect{}, classify(err)
	}
	return Effect{Bytes: bytes, Items: entries}, nil
}

// truncateTarget empties one file in place, keeping the entry.
func (d *Dispatcher) truncateTarget(ctx context.Context, act catalog.Action, tgt search.Target) (Effect, error) {
	bytes, err := fsutil.Truncate(tgt.Path)
	if err != nil {
		return Effect{}, classify(err)
	}
	return Effect{Bytes: bytes, Items: 1}, nil
}
