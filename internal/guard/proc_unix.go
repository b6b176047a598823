//go:build !windows

package guard

import (
	"context"

	"github.com/shirou/gopsutil/v4/process"
)

// gopsutilLister enumerates processes through gopsutil.
type gopsutilLister struct{}

func newPlatformLister() Lister { return gopsutilLister{} }

func (gopsutilLister) Processes(ctx context.Context) ([]Proc, error) {
	list, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	procs := make([]Proc, 0, len(list))
	for _, p := range list {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue // exited mid-scan
		}
		username, _ := p.UsernameWithContext(ctx)
		procs = append(procs, Proc{PID: p.Pid, Name: name, Username: username})
	}
	return procs, nil
}
