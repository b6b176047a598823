//go:build !windows

package action

import (
	"context"
	"fmt"

	"github.com/scourlabs/scour/internal/catalog"
	"github.com/scourlabs/scour/internal/search"
)

// editRegistry has nothing to edit outside Windows. The caller
// records an unsupported skip, never a failure, so rule documents
// shared across platforms stay loadable everywhere.
func (d *Dispatcher) editRegistry(ctx context.Context, act catalog.Action, tgt search.Target) (Effect, error) {
	return Effect{}, fmt.Errorf("winreg: %w", ErrUnsupported)
}
