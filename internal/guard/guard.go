package guard

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/scourlabs/scour/internal/catalog"
)

// Proc is the slice of process state the guard compares against.
type Proc struct {
	PID      int32
	Name     string
	Username string
}

// Lister enumerates running processes. gopsutil backs it on unix and
// WMI on Windows; tests substitute fixtures.
type Lister interface {
	Processes(ctx context.Context) ([]Proc, error)
}

// Veto explains why a cleaner must not run right now.
type Veto struct {
	Check  catalog.RunningCheck
	Detail string
}

// Guard decides whether an application is in use before any of its
// cleaner's actions run. One guard serves concurrent cleaners; the
// process snapshot is shared under a short TTL. The check is
// advisory: a process can always start the moment after a snapshot,
// so a pass is best-effort, not a lock.
type Guard struct {
	// Lister enumerates processes; New picks the platform default.
	Lister Lister

	// Conservative treats "cannot verify" as busy. A permissive
	// guard logs the failure and proceeds instead.
	Conservative bool

	// TTL bounds how long one process snapshot is reused.
	TTL time.Duration

	username string

	mu      sync.Mutex
	procs   []Proc
	fetched time.Time
}

// New builds a guard backed by the platform process lister.
func New(conservative bool) *Guard {
	g := &Guard{
		Lister:       newPlatformLister(),
		Conservative: conservative,
		TTL:          10 * time.Second,
	}
	if u, err := user.Current(); err == nil {
		g.username = u.Username
	}
	return g
}

// Check evaluates a cleaner's running checks in declared order. A
// non-nil veto means the application is, or must be presumed, in use.
// The error reports an enumeration failure the permissive policy
// decided to tolerate; callers log it and proceed.
func (g *Guard) Check(ctx context.Context, checks []catalog.RunningCheck, expand func(string) (string, error)) (*Veto, error) {
	var tolerated error
	for _, c := range checks {
		switch c.Type {
		case catalog.CheckLockfile:
			path, err := expand(c.Path)
			if err != nil {
				if g.Conservative {
					return &Veto{Check: c, Detail: fmt.Sprintf("cannot resolve lock path: %v", err)}, nil
				}
				tolerated = err
				continue
			}
			if _, err := os.Lstat(path); err == nil {
				return &Veto{Check: c, Detail: "lock file present: " + path}, nil
			}

		case catalog.CheckProcess:
			procs, err := g.snapshot(ctx)
			if err != nil {
				if g.Conservative {
					return &Veto{Check: c, Detail: fmt.Sprintf("cannot verify processes: %v", err)}, nil
				}
				tolerated = err
				continue
			}
			if p, ok := matchProcess(procs, c, g.username); ok {
				return &Veto{Check: c, Detail: fmt.Sprintf("%s running (pid %d)", p.Name, p.PID)}, nil
			}
		}
	}
	return nil, tolerated
}

func (g *Guard) snapshot(ctx context.Context) ([]Proc, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.procs != nil && time.Since(g.fetched) < g.TTL {
		return g.procs, nil
	}
	procs, err := g.Lister.Processes(ctx)
	if err != nil {
		return nil, err
	}
	g.procs = procs
	g.fetched = time.Now()
	return procs, nil
}

// matchProcess compares the check's executable name against the
// snapshot. Windows ignores case and a trailing .exe. The same-user
// scope is the default.
func matchProcess(procs []Proc, c catalog.RunningCheck, username string) (Proc, bool) {
	want := normalizeExe(c.Name)
	sameUser := c.Scope == "" || c.Scope == catalog.ScopeSameUser
	for _, p := range procs {
		if normalizeExe(p.Name) != want {
			continue
		}
		if sameUser && !sameAccount(p.Username, username) {
			continue
		}
		return p, true
	}
	return Proc{}, false
}

func normalizeExe(name string) string {
	name = filepath.Base(name)
	if runtime.GOOS == "windows" {
		name = strings.TrimSuffix(strings.ToLower(name), ".exe")
	}
	return name
}

// sameAccount compares a process owner to the current user. Windows
// reports DOMAIN\user, so only the account part is compared there. An
// unknown owner counts as a match: the guard must veto when it cannot
// rule the process out.
func sameAccount(owner, current string) bool {
	if owner == "" || current == "" {
		return true
	}
	if runtime.GOOS == "windows" {
		return strings.EqualFold(account(owner), account(current))
	}
	return owner == current
}

func account(s string) string {
	if i := strings.LastIndexByte(s, '\\'); i >= 0 {
		return s[i+1:]
	}
	return s
}
