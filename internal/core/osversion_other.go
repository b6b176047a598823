//go:build !windows

package core

// OSVersion returns "" on non-Windows hosts; callers fall back to
// gopsutil host info for release details there.
func OSVersion() string { return "" }
