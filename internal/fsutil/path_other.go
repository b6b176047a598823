//go:build !windows

package fsutil

import "os"

// ExtendedPath is a no-op outside Windows; there is no MAX_PATH to
// work around.
func ExtendedPath(path string) string { return path }

// IsReparsePoint reports whether the entry is a symlink. Junctions are
// a Windows concept; symlinks are the only non-descendable directory
// entry elsewhere.
func IsReparsePoint(path string, info os.FileInfo) bool {
	return info != nil && info.Mode()&os.ModeSymlink != 0
}
