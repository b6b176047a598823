package search

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/scourlabs/scour/internal/fsutil"
)

// Mode selects how an action's path expression maps to targets.
type Mode string

const (
	ModeFile      Mode = "file"       // the literal path
	ModeGlob      Mode = "glob"       // shell-style wildcard expansion
	ModeWalkFiles Mode = "walk.files" // every file beneath the path
	ModeWalkAll   Mode = "walk.all"   // files and directories, children first
)

// ParseMode validates a search mode string from a rule document.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFile, ModeGlob, ModeWalkFiles, ModeWalkAll:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown search mode %q", s)
}

// ErrShallowPath rejects resolved paths too close to the filesystem
// root. An empty variable or environment substitution shows up as
// exactly this shape, so it is refused before any enumeration.
var ErrShallowPath = errors.New("path too shallow")

// Target is one filesystem entry an action will process.
type Target struct {
	Path  string
	IsDir bool
	Size  int64
}

// Matcher expands path expressions into concrete target slices. The
// slice is complete when Expand returns; callers act only after
// enumeration has finished.
type Matcher struct {
	// MinDepth rejects resolved roots with fewer path components.
	MinDepth int

	// Warn, when set, receives notes about skipped subtrees.
	Warn func(msg string)
}

// Depth counts path components below the root: "/" and `C:\` are 0,
// "/home/x" is 2. Volume names never count as a component.
func Depth(path string) int {
	path = filepath.Clean(path)
	vol := filepath.VolumeName(path)
	rest := strings.Trim(path[len(vol):], string(filepath.Separator))
	if rest == "" {
		return 0
	}
	return strings.Count(rest, string(filepath.Separator)) + 1
}

// Expand resolves one path expression under the given mode. Missing
// paths yield an empty slice, not an error; relative or too-shallow
// expressions are refused.
func (m *Matcher) Expand(ctx context.Context, expr string, mode Mode) ([]Target, error) {
	if expr == "" {
		return nil, errors.New("empty path expression")
	}
	if !filepath.IsAbs(expr) {
		return nil, fmt.Errorf("path %q is not absolute", expr)
	}
	expr = filepath.Clean(expr)
	if d := Depth(expr); d < m.MinDepth {
		return nil, fmt.Errorf("%w: %s (depth %d, minimum %d)", ErrShallowPath, expr, d, m.MinDepth)
	}

	switch mode {
	case ModeFile:
		return m.one(expr)
	case ModeGlob:
		return m.glob(ctx, expr)
	case ModeWalkFiles:
		return m.walk(ctx, expr, false)
	case ModeWalkAll:
		return m.walk(ctx, expr, true)
	}
	return nil, fmt.Errorf("unknown search mode %q", mode)
}

func (m *Matcher) one(path string) ([]Target, error) {
	info, err := os.Lstat(fsutil.ExtendedPath(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return []Target{m.target(path, info)}, nil
}

func (m *Matcher) glob(ctx context.Context, pattern string) ([]Target, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}
	var targets []Target
	for _, p := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Lstat(fsutil.ExtendedPath(p))
		if err != nil {
			continue // raced away between glob and stat
		}
		targets = append(targets, m.target(p, info))
	}
	return targets, nil
}

func (m *Matcher) walk(ctx context.Context, root string, includeDirs bool) ([]Target, error) {
	info, err := os.Lstat(fsutil.ExtendedPath(root))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		m.warnf("walk root %s is not a directory", root)
		return nil, nil
	}
	if fsutil.IsReparsePoint(root, info) {
		m.warnf("not descending into link %s", root)
		return nil, nil
	}
	var targets []Target
	if err := m.walkDir(ctx, root, includeDirs, &targets); err != nil {
		return nil, err
	}
	return targets, nil
}

// walkDir appends dir's contents depth-first in sorted order, every
// entry before the directory that contains it. The walk root itself
// is never appended.
func (m *Matcher) walkDir(ctx context.Context, dir string, includeDirs bool, out *[]Target) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := os.ReadDir(fsutil.ExtendedPath(dir))
	if err != nil {
		// Permission denied or similar: skip the subtree, keep walking.
		m.warnf("cannot read %s: %v", dir, err)
		return nil
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())

		if e.IsDir() {
			info, ierr := e.Info()
			if ierr != nil {
				m.warnf("cannot stat %s: %v", path, ierr)
				continue
			}
			// NEVER descend into junctions or symlinked directories.
			if fsutil.IsReparsePoint(path, info) {
				if includeDirs {
					*out = append(*out, Target{Path: path})
				}
				continue
			}
			if err := m.walkDir(ctx, path, includeDirs, out); err != nil {
				return err
			}
			if includeDirs {
				*out = append(*out, Target{Path: path, IsDir: true})
			}
			continue
		}

		// In files-only mode a symlink pointing at a directory counts
		// as a directory and is skipped.
		if !includeDirs && e.Type()&fs.ModeSymlink != 0 {
			if ti, serr := os.Stat(fsutil.ExtendedPath(path)); serr == nil && ti.IsDir() {
				continue
			}
		}

		t := Target{Path: path}
		if e.Type().IsRegular() {
			if info, ierr := e.Info(); ierr == nil {
				t.Size = info.Size()
			}
		}
		*out = append(*out, t)
	}
	return nil
}

func (m *Matcher) target(path string, info os.FileInfo) Target {
	t := Target{Path: path, IsDir: info.IsDir()}
	switch {
	case info.IsDir():
		t.Size, _ = fsutil.TreeSize(path)
	case info.Mode().IsRegular():
		t.Size = info.Size()
	}
	return t
}

func (m *Matcher) warnf(format string, args ...any) {
	if m.Warn != nil {
		m.Warn(fmt.Sprintf(format, args...))
	}
}
