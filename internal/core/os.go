package core

import "runtime"

// Platform tags attachable to cleaners, options and variable values.
// A tag restricts the element to hosts whose tag set contains it; an
// empty tag list means the element applies everywhere.
const (
	TagLinux   = "linux"
	TagDarwin  = "darwin"
	TagWindows = "windows"
	TagUnix    = "unix"
	TagBSD     = "bsd"
)

// Tags returns the tag set of the running host, most specific first.
// Linux and Darwin hosts also carry "unix"; the BSDs carry both "bsd"
// and "unix".
func Tags() []string {
	switch runtime.GOOS {
	case "linux":
		return []string{TagLinux, TagUnix}
	case "darwin":
		return []string{TagDarwin, TagUnix}
	case "freebsd", "netbsd", "openbsd", "dragonfly":
		return []string{runtime.GOOS, TagBSD, TagUnix}
	case "windows":
		return []string{TagWindows}
	default:
		return []string{runtime.GOOS}
	}
}

// Is reports whether tag is part of the running host's tag set.
func Is(tag string) bool {
	for _, t := range Tags() {
		if t == tag {
			return true
		}
	}
	return false
}

// KnownTag reports whether s is a recognized platform tag.
func KnownTag(s string) bool {
	switch s {
	case TagLinux, TagDarwin, TagWindows, TagUnix, TagBSD,
		"freebsd", "netbsd", "openbsd", "dragonfly":
		return true
	}
	return false
}

// Applies reports whether an element restricted to tags applies to a
// host carrying the given set. An empty restriction applies anywhere.
func Applies(restriction, set []string) bool {
	if len(restriction) == 0 {
		return true
	}
	for _, want := range restriction {
		for _, have := range set {
			if want == have {
				return true
			}
		}
	}
	return false
}
