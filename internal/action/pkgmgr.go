package action

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	humanize "github.com/dustin/go-humanize"

	"github.com/scourlabs/scour/internal/catalog"
	"github.com/scourlabs/scour/internal/fsutil"
	"github.com/scourlabs/scour/internal/search"
)

const (
	// defaultAptTimeout bounds apt-get when no engine timeout is set.
	defaultAptTimeout = 120 * time.Second

	aptArchivesDir = "/var/cache/apt/archives"
)

// aptFreedPattern matches apt's "After this operation, 65.7 MB disk
// space will be freed" estimate. LANG=C pins the wording and number
// format.
var aptFreedPattern = regexp.MustCompile(`([0-9][0-9.]*\s*[kKMGT]?i?B)\b[^\n]*freed`)

// runApt shells out to apt-get for clean, autoclean or autoremove.
// Only meaningful on Linux hosts with apt-get present, and needs root
// like the package manager itself.
func (d *Dispatcher) runApt(ctx context.Context, act catalog.Action, tgt search.Target) (Effect, error) {
	if runtime.GOOS != "linux" {
		return Effect{}, fmt.Errorf("apt: %w", ErrUnsupported)
	}
	aptGet, err := exec.LookPath("apt-get")
	if err != nil {
		return Effect{}, fmt.Errorf("apt-get not in PATH: %w", ErrUnsupported)
	}
	if os.Geteuid() != 0 {
		return Effect{}, fmt.Errorf("apt-get %s needs root: %w", act.Op, fs.ErrPermission)
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = defaultAptTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	archivesBefore, _ := fsutil.TreeSize(aptArchivesDir)

	args := []string{act.Op}
	if act.Op == catalog.AptAutoremove {
		args = append(args, "-y")
	}
	cmd := exec.CommandContext(ctx, aptGet, args...)
	cmd.Env = append(os.Environ(), "LANG=C", "LC_ALL=C")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Effect{}, handleAptError(err, act.Op, output, timeout)
	}

	if act.Op == catalog.AptAutoremove {
		return Effect{Bytes: parseAptFreed(string(output)), Items: 1}, nil
	}
	archivesAfter, _ := fsutil.TreeSize(aptArchivesDir)
	freed := archivesBefore - archivesAfter
	if freed < 0 {
		freed = 0
	}
	return Effect{Bytes: freed, Items: 1}, nil
}

// parseAptFreed extracts the byte estimate from autoremove output;
// zero when apt reported nothing to remove.
func parseAptFreed(out string) int64 {
	match := aptFreedPattern.FindStringSubmatch(out)
	if match == nil {
		return 0
	}
	n, err := humanize.ParseBytes(match[1])
	if err != nil {
		return 0
	}
	return int64(n)
}

// handleAptError wraps an exec failure with enough output to act on,
// truncated at a valid UTF-8 boundary.
func handleAptError(err error, op string, output []byte, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("apt-get %s timed out after %s", op, timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		detail := strings.TrimSpace(string(output))
		if len(detail) > 200 {
			detail = detail[:200]
			for len(detail) > 0 && !utf8.ValidString(detail) {
				detail = detail[:len(detail)-1]
			}
			detail += "..."
		}
		if detail != "" {
			return fmt.Errorf("apt-get %s failed (exit code %d): %s", op, exitErr.ExitCode(), detail)
		}
		return fmt.Errorf("apt-get %s failed (exit code %d)", op, exitErr.ExitCode())
	}

	return fmt.Errorf("apt-get %s: %w", op, err)
}
