//go:build windows

package fsutil

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
)

// ExtendedPath returns the \\?\-prefixed form of an absolute path so
// operations work past MAX_PATH. UNC paths get the \\?\UNC\ form.
// Relative and already-prefixed paths come back unchanged.
func ExtendedPath(path string) string {
	if strings.HasPrefix(path, `\\?\`) {
		return path
	}
	if len(path) > 2 && path[1] == ':' {
		return `\\?\` + path
	}
	if strings.HasPrefix(path, `\\`) {
		return `\\?\UNC\` + path[2:]
	}
	return path
}

// IsReparsePoint returns true if the path is a junction or similar
// reparse point (FILE_ATTRIBUTE_REPARSE_POINT). Must be checked before
// descending to avoid infinite recursion; junctions do not always
// surface as symlinks through os.Lstat.
func IsReparsePoint(path string, info os.FileInfo) bool {
	if info != nil && info.Mode()&os.ModeSymlink != 0 {
		return true
	}
	pathp, err := windows.UTF16PtrFromString(ExtendedPath(path))
	if err != nil {
		return false
	}
	attrs, err := windows.GetFileAttributes(pathp)
	if err != nil {
		return false
	}
	return attrs&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0
}
