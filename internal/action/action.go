package action

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scourlabs/scour/internal/catalog"
	"github.com/scourlabs/scour/internal/search"
)

// Shared failure classes. Handlers fold platform errors into these so
// callers can classify with errors.Is; fs.ErrNotExist and
// fs.ErrPermission cover the not-found and permission classes.
var (
	ErrInUse         = errors.New("resource in use")
	ErrInvalidFormat = errors.New("invalid file format")
	ErrUnsupported   = errors.New("unsupported on this platform")
)

// Effect is what a handler changed: apparent bytes freed and entries
// removed or rewritten.
type Effect struct {
	Bytes int64
	Items int
}

type handler func(ctx context.Context, act catalog.Action, tgt search.Target) (Effect, error)

// Dispatcher routes actions to command handlers. The handler table is
// closed: every catalog command has exactly one entry, checked by
// tests, so adding a command without a handler fails loudly instead
// of at a user's keyboard.
type Dispatcher struct {
	// Shred overwrites file contents and scrambles names before
	// deletion.
	Shred bool

	// Timeout bounds external commands.
	Timeout time.Duration

	// InUse, when set, reports whether another process holds the path
	// open; delete consults it before touching the entry.
	InUse func(path string) bool

	handlers map[catalog.Command]handler
}

// NewDispatcher builds a dispatcher with the full handler table.
func NewDispatcher(shred bool, timeout time.Duration) *Dispatcher {
	d := &Dispatcher{Shred: shred, Timeout: timeout}
	d.handlers = map[catalog.Command]handler{
		catalog.CommandDelete:   d.deleteTarget,
		catalog.CommandTruncate: d.truncateTarget,
		catalog.CommandIni:      d.editIni,
		catalog.CommandJSON:     d.editJSON,
		catalog.CommandVacuum:   d.vacuumDatabase,
		catalog.CommandWinreg:   d.editRegistry,
		catalog.CommandRecycle:  d.emptyRecycleBin,
		catalog.CommandApt:      d.runApt,
	}
	return d
}

// Commands returns the command kinds the dispatcher can route.
func (d *Dispatcher) Commands() []catalog.Command {
	out := make([]catalog.Command, 0, len(d.handlers))
	for c := range d.handlers {
		out = append(out, c)
	}
	return out
}

// Apply runs one action against one target.
func (d *Dispatcher) Apply(ctx context.Context, act catalog.Action, tgt search.Target) (Effect, error) {
	h, ok := d.handlers[act.Command]
	if !ok {
		return Effect{}, fmt.Errorf("no handler for command %q", act.Command)
	}
	if err := ctx.Err(); err != nil {
		return Effect{}, err
	}
	return h(ctx, act, tgt)
}
