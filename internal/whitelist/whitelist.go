package whitelist

import (
	"path/filepath"
	"runtime"
	"strings"

	wildcard "github.com/IGLOU-EU/go-wildcard"
)

// Whitelist holds paths the engine must never touch. Built-in
// protected roots match exactly; user patterns protect a subtree when
// they name a directory and support shell-style wildcards, where *
// spans path separators. Matching is case-insensitive on Windows.
type Whitelist struct {
	exact    map[string]bool
	patterns []string
	fold     bool
}

// New builds a whitelist from user patterns plus the built-in
// protected roots for the running OS. Patterns arrive already
// environment-expanded.
func New(patterns []string) *Whitelist {
	w := &Whitelist{
		exact: make(map[string]bool),
		fold:  runtime.GOOS == "windows",
	}
	for _, root := range ProtectedRoots() {
		w.exact[w.normalize(root)] = true
	}
	for _, p := range patterns {
		w.patterns = append(w.patterns, w.normalize(p))
	}
	return w
}

// IsProtected reports whether path is covered by the whitelist.
func (w *Whitelist) IsProtected(path string) bool {
	p := w.normalize(path)
	if w.exact[p] {
		return true
	}
	for _, pat := range w.patterns {
		if p == pat {
			return true
		}
		// A plain directory pattern covers everything beneath it.
		if strings.HasPrefix(p, pat+"/") {
			return true
		}
		if wildcard.Match(pat, p) {
			return true
		}
	}
	return false
}

func (w *Whitelist) normalize(path string) string {
	p := filepath.ToSlash(filepath.Clean(path))
	if w.fold {
		p = strings.ToLower(p)
	}
	return p
}
