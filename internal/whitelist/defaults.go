package whitelist

import (
	"os"
	"path/filepath"
	"runtime"

	homedir "github.com/mitchellh/go-homedir"
)

// winDir returns the Windows directory, falling back to C:\Windows
// only if %WINDIR% is not set.
func winDir() string {
	if w := os.Getenv("WINDIR"); w != "" {
		return w
	}
	return `C:\Windows`
}

// systemDrive returns the system drive with trailing backslash.
func systemDrive() string {
	if d := os.Getenv("SYSTEMDRIVE"); d != "" {
		return d + `\`
	}
	return `C:\`
}

func programFiles() string {
	if p := os.Getenv("PROGRAMFILES"); p != "" {
		return p
	}
	return `C:\Program Files`
}

func programFilesX86() string {
	if p := os.Getenv("PROGRAMFILES(X86)"); p != "" {
		return p
	}
	return `C:\Program Files (x86)`
}

// ProtectedRoots returns paths that must NEVER be deleted themselves,
// whatever a rule document resolves to. These match exactly, not as
// subtrees: cleaning inside them stays possible, removing them does
// not. Environment variables keep the Windows list correct on any
// drive letter.
func ProtectedRoots() []string {
	var roots []string

	switch runtime.GOOS {
	case "windows":
		w := winDir()
		sd := systemDrive()
		roots = []string{
			sd,
			w,
			filepath.Join(w, "System32"),
			filepath.Join(w, "SysWOW64"),
			filepath.Join(w, "WinSxS"),
			filepath.Join(w, "System32", "config"),
			filepath.Join(sd, "Boot"),
			filepath.Join(sd, "EFI"),
			filepath.Join(sd, "Users"),
			filepath.Join(sd, "Recovery"),
			programFiles(),
			programFilesX86(),
		}
		if pd := os.Getenv("PROGRAMDATA"); pd != "" {
			roots = append(roots, pd)
		}
	case "darwin":
		roots = []string{
			"/", "/Applications", "/Library", "/System", "/Users",
			"/bin", "/dev", "/etc", "/home", "/opt", "/private",
			"/sbin", "/tmp", "/usr", "/var",
		}
	default:
		roots = []string{
			"/", "/bin", "/boot", "/dev", "/etc", "/home", "/lib",
			"/lib64", "/opt", "/proc", "/root", "/run", "/sbin",
			"/srv", "/sys", "/tmp", "/usr", "/var",
		}
	}

	if home, err := homedir.Dir(); err == nil && home != "" {
		roots = append(roots, home)
	}
	return roots
}
