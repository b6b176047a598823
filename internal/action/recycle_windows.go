//go:build windows

package action

import (
	"context"
	"fmt"
	"syscall"
	"unsafe"

	"github.com/scourlabs/scour/internal/catalog"
	"github.com/scourlabs/scour/internal/search"
)

var (
	modShell32          = syscall.NewLazyDLL("shell32.dll")
	procEmptyRecycleBin = modShell32.NewProc("SHEmptyRecycleBinW")
	procQueryRecycleBin = modShell32.NewProc("SHQueryRecycleBinW")
)

const (
	sherbNoConfirmation = 0x00000001
	sherbNoProgressUI   = 0x00000002
	sherbNoSound        = 0x00000004

	// E_UNEXPECTED from SHEmptyRecycleBinW means the bin was already
	// empty.
	hrEmptyAlready = 0x8000FFFF
)

// shQueryRBInfo mirrors the Windows SHQUERYRBINFO struct. Go's
// natural alignment adds padding after cbSize on AMD64, matching the
// C struct layout on both 32-bit and 64-bit.
type shQueryRBInfo struct {
	cbSize      uint32
	i64Size     int64
	i64NumItems int64
}

// emptyRecycleBin empties the recycle bin on all drives via the
// shell, reporting the bytes and items it held. An already-empty bin
// is a zero-effect success.
func (d *Dispatcher) emptyRecycleBin(ctx context.Context, act catalog.Action, tgt search.Target) (Effect, error) {
	var info shQueryRBInfo
	info.cbSize = uint32(unsafe.Sizeof(info))
	ret, _, _ := procQueryRecycleBin.Call(
		0, // NULL = all drives
		uintptr(unsafe.Pointer(&info)),
	)
	var held Effect
	if ret == 0 {
		held = Effect{Bytes: info.i64Size, Items: int(info.i64NumItems)}
	}

	flags := uintptr(sherbNoConfirmation | sherbNoProgressUI | sherbNoSound)
	ret, _, _ = procEmptyRecycleBin.Call(0, 0, flags)
	hr := uint32(ret)
	if hr == hrEmptyAlready {
		return Effect{}, nil
	}
	if hr != 0 {
		return Effect{}, fmt.Errorf("SHEmptyRecycleBinW failed: HRESULT 0x%08x", hr)
	}
	return held, nil
}
