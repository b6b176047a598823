package fsutil

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
)

const (
	wipeChunk       = 4096
	scrambleNameMax = 32
	nameRunes       = "abcdefghijklmnopqrstuvwxyz0123456789_-"
)

// WipeContents overwrites a regular file's bytes with zeros, syncs,
// then truncates it so the contents cannot be read back from the data
// blocks. The name is scrubbed separately by ScrambleName.
func WipeContents(path string) error {
	path = ExtendedPath(path)
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	zeros := make([]byte, wipeChunk)
	remaining := info.Size()
	for remaining > 0 {
		n := int64(len(zeros))
		if remaining < n {
			n = remaining
		}
		if _, err := f.Write(zeros[:n]); err != nil {
			f.Close()
			return err
		}
		remaining -= n
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Truncate(0); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ScrambleName renames the entry to a random name in the same
// directory so the original name cannot be recovered from directory
// blocks. Shorter names are tried when the filesystem rejects long
// ones. On failure the original path comes back with the error.
func ScrambleName(path string) (string, error) {
	dir := filepath.Dir(path)
	for length := scrambleNameMax; length >= 1; length /= 2 {
		for try := 0; try < 3; try++ {
			candidate := filepath.Join(dir, randomName(length))
			if _, err := os.Lstat(candidate); err == nil {
				continue // name already in use
			}
			if err := os.Rename(path, candidate); err == nil {
				return candidate, nil
			}
		}
	}
	return path, fmt.Errorf("scramble: no usable random name in %s", dir)
}

func randomName(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = nameRunes[rand.IntN(len(nameRunes))]
	}
	return string(b)
}
