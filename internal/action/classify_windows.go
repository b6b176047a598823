//go:build windows

package action

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

// classify folds platform error codes into the shared failure
// classes. Sharing violations (32) and lock violations (33) mean
// another process holds the file; everything else passes through
// unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, windows.ERROR_SHARING_VIOLATION) || errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
		return fmt.Errorf("%w: %v", ErrInUse, err)
	}
	return err
}
