package catalog

import (
	"fmt"
	"sort"

	"github.com/scourlabs/scour/internal/core"
)

// Registry holds the loaded cleaners. It is filled once by LoadDir
// and immutable afterwards, so concurrent readers need no locking.
type Registry struct {
	cleaners map[string]*Cleaner
	errs     []LoadError
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{cleaners: make(map[string]*Cleaner)}
}

// Add inserts a cleaner, rejecting duplicate ids. The first document
// to claim an id wins; later claimants surface as load errors.
func (r *Registry) Add(c *Cleaner) error {
	if prev, ok := r.cleaners[c.ID]; ok {
		return fmt.Errorf("duplicate cleaner id %q (already loaded from %s)", c.ID, prev.Source)
	}
	r.cleaners[c.ID] = c
	return nil
}

// Cleaner returns the cleaner with the given id.
func (r *Registry) Cleaner(id string) (*Cleaner, bool) {
	c, ok := r.cleaners[id]
	return c, ok
}

// List returns the loaded cleaners sorted by id. With hostOnly set,
// cleaners that do not apply to the running host are dropped.
func (r *Registry) List(hostOnly bool) []*Cleaner {
	tags := core.Tags()
	out := make([]*Cleaner, 0, len(r.cleaners))
	for _, c := range r.cleaners {
		if hostOnly && !c.Applies(tags) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of loaded cleaners.
func (r *Registry) Len() int { return len(r.cleaners) }

// LoadErrors returns the documents skipped during load, in encounter
// order.
func (r *Registry) LoadErrors() []LoadError {
	return append([]LoadError(nil), r.errs...)
}

func (r *Registry) recordError(e LoadError) {
	r.errs = append(r.errs, e)
}
