//go:build windows

package guard

import (
	"context"

	"github.com/yusufpapurcu/wmi"
)

// Win32_Process mirrors the WMI class of the same name; field names
// must match WMI property names exactly.
type Win32_Process struct {
	Name      string
	ProcessId uint32
}

// wmiLister enumerates processes through WMI. Win32_Process carries
// no owner column, so owners stay empty and the same-user scope then
// matches any owner, which vetoes more, never less.
type wmiLister struct{}

func newPlatformLister() Lister { return wmiLister{} }

func (wmiLister) Processes(ctx context.Context) ([]Proc, error) {
	var dst []Win32_Process
	q := wmi.CreateQuery(&dst, "")
	if err := wmi.Query(q, &dst); err != nil {
		return nil, err
	}
	procs := make([]Proc, 0, len(dst))
	for _, p := range dst {
		procs = append(procs, Proc{PID: int32(p.ProcessId), Name: p.Name})
	}
	return procs, nil
}
