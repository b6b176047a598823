//go:build !windows

package action

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// classify folds platform errnos into the shared failure classes.
// EBUSY and ETXTBSY mean another process holds the entry; everything
// else passes through unchanged, including fs.ErrNotExist and
// fs.ErrPermission wrapped inside *os.PathError.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, unix.EBUSY) || errors.Is(err, unix.ETXTBSY) {
		return fmt.Errorf("%w: %v", ErrInUse, err)
	}
	return err
}
