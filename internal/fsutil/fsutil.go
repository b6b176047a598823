package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Delete removes the entry at path and returns the apparent bytes and
// entry count it freed. Directories are removed recursively; symlinks
// and special files are removed as entries, never followed. With shred
// set, regular file contents are overwritten and names scrambled
// before removal. A missing path comes back as fs.ErrNotExist for the
// caller to classify.
func Delete(path string, shred bool) (bytes int64, entries int, err error) {
	path = ExtendedPath(path)
	info, err := os.Lstat(path)
	if err != nil {
		return 0, 0, err
	}

	switch {
	case info.IsDir():
		bytes, entries = TreeSize(path)
		entries++ // the directory itself
		if shred {
			if scrambled, rerr := ScrambleName(path); rerr == nil {
				path = scrambled
			}
		}
		err = os.RemoveAll(path)

	case info.Mode().IsRegular():
		bytes = info.Size()
		entries = 1
		if shred {
			if werr := WipeContents(path); werr != nil {
				return 0, 0, werr
			}
			if scrambled, rerr := ScrambleName(path); rerr == nil {
				path = scrambled
			}
		}
		err = os.Remove(path)

	default:
		// Symlink, fifo, socket: remove the entry itself. Shredding
		// would write through to the target, so never wipe these.
		entries = 1
		err = os.Remove(path)
	}

	if err != nil {
		return 0, 0, err
	}
	return bytes, entries, nil
}

// Truncate empties a regular file in place and returns the bytes it
// freed. The file keeps its name, permissions and ownership; programs
// holding it open keep a valid handle.
func Truncate(path string) (int64, error) {
	path = ExtendedPath(path)
	info, err := os.Lstat(path)
	if err != nil {
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("truncate %s: not a regular file", path)
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return 0, err
	}
	if err := f.Truncate(0); err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return 0, err
	}
	return info.Size(), f.Close()
}

// TreeSize returns the total apparent size and entry count beneath
// root, excluding root itself. Unreadable children contribute nothing;
// the walk never follows symlinks.
func TreeSize(root string) (bytes int64, entries int) {
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // best effort
		}
		if path == root {
			return nil
		}
		entries++
		if d.Type().IsRegular() {
			if info, ierr := d.Info(); ierr == nil {
				bytes += info.Size()
			}
		}
		return nil
	})
	return bytes, entries
}
