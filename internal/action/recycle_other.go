//go:build !windows

package action

import (
	"context"
	"fmt"

	"github.com/scourlabs/scour/internal/catalog"
	"github.com/scourlabs/scour/internal/search"
)

// emptyRecycleBin is Windows shell functionality; elsewhere it is an
// unsupported skip.
func (d *Dispatcher) emptyRecycleBin(ctx context.Context, act catalog.Action, tgt search.Target) (Effect, error) {
	return Effect{}, fmt.Errorf("recycle: %w", ErrUnsupported)
}
