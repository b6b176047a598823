package expand

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/scourlabs/scour/internal/catalog"
	"github.com/scourlabs/scour/internal/core"
)

var (
	// ErrUnresolvedVariable marks a $$name$$ reference with no
	// definition, or none applicable to the host. Resolution fails
	// loudly; an unresolved reference must never become an empty
	// path segment.
	ErrUnresolvedVariable = errors.New("unresolved variable")

	// ErrCircularVariable marks variable definitions that reference
	// each other past the nesting bound.
	ErrCircularVariable = errors.New("circular variable reference")
)

// maxVarDepth bounds nested $$a$$ → $$b$$ substitution.
const maxVarDepth = 8

// varToken matches $$name$$ references in rule document paths.
var varToken = regexp.MustCompile(`\$\$([A-Za-z0-9_]+)\$\$`)

// Resolver resolves $$name$$ references against one cleaner's
// variable table for one host tag set, then expands environment
// syntax. It holds no mutable state: identical inputs yield identical
// outputs.
type Resolver struct {
	vars map[string][]catalog.VarValue
	tags []string
}

// NewResolver builds a resolver over the given variables and host
// tags. Pass core.Tags() for the running host; tests pass fixed sets.
func NewResolver(vars []catalog.Variable, tags []string) *Resolver {
	m := make(map[string][]catalog.VarValue, len(vars))
	for _, v := range vars {
		m[v.Name] = v.Values
	}
	return &Resolver{vars: m, tags: tags}
}

// Lookup resolves a single variable: the first declared value whose
// OS tag is in the host set wins, and a tagless value matches any
// host. Values may themselves contain $$refs$$.
func (r *Resolver) Lookup(name string) (string, error) {
	return r.lookup(name, 0)
}

// Expand resolves every $$name$$ reference in s, then expands
// environment syntax (%VAR%, $VAR, ${VAR}) and a leading ~.
func (r *Resolver) Expand(s string) (string, error) {
	out, err := r.substitute(s, 0)
	if err != nil {
		return "", err
	}
	return ExpandHome(ExpandEnv(out))
}

func (r *Resolver) lookup(name string, depth int) (string, error) {
	if depth > maxVarDepth {
		return "", fmt.Errorf("%w: $$%s$$", ErrCircularVariable, name)
	}
	values, ok := r.vars[name]
	if !ok {
		return "", fmt.Errorf("%w: $$%s$$", ErrUnresolvedVariable, name)
	}
	for _, v := range values {
		if v.OS == "" || core.Applies([]string{v.OS}, r.tags) {
			return r.substitute(v.Value, depth+1)
		}
	}
	return "", fmt.Errorf("%w: $$%s$$ has no value for this platform", ErrUnresolvedVariable, name)
}

func (r *Resolver) substitute(s string, depth int) (string, error) {
	var firstErr error
	out := varToken.ReplaceAllStringFunc(s, func(tok string) string {
		if firstErr != nil {
			return tok
		}
		name := varToken.FindStringSubmatch(tok)[1]
		val, err := r.lookup(name, depth)
		if err != nil {
			firstErr = err
			return tok
		}
		return val
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
