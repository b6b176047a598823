//go:build linux

package guard

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// OpenFiles caches which paths processes currently hold open, read
// from /proc/*/fd. A scan touches every process's fd table, so one
// snapshot is reused for a short interval.
type OpenFiles struct {
	TTL time.Duration

	mu      sync.Mutex
	scanned time.Time
	files   map[string]bool
}

// NewOpenFiles builds a cache with a 10-second snapshot lifetime.
func NewOpenFiles() *OpenFiles {
	return &OpenFiles{TTL: 10 * time.Second}
}

// IsOpen reports whether any process holds path open. The path is
// resolved through symlinks first, the way /proc reports targets.
func (o *OpenFiles) IsOpen(path string) bool {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.files == nil || time.Since(o.scanned) >= o.TTL {
		o.files = scanOpenFiles()
		o.scanned = time.Now()
	}
	return o.files[resolved]
}

// scanOpenFiles reads every readable /proc/<pid>/fd entry. Pseudo
// files under /dev, /proc and /sys are never cleanable targets and
// are dropped to keep the map small.
func scanOpenFiles() map[string]bool {
	files := make(map[string]bool)
	fds, err := filepath.Glob("/proc/[0-9]*/fd/*")
	if err != nil {
		return files
	}
	for _, fd := range fds {
		target, err := os.Readlink(fd)
		if err != nil || !strings.HasPrefix(target, "/") {
			continue
		}
		if strings.HasPrefix(target, "/dev/") ||
			strings.HasPrefix(target, "/proc/") ||
			strings.HasPrefix(target, "/sys/") {
			continue
		}
		files[target] = true
	}
	return files
}
