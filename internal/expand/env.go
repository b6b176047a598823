package expand

import (
	"os"
	"regexp"
	"strings"

	"github.com/adrg/xdg"
	homedir "github.com/mitchellh/go-homedir"
)

var (
	winEnvToken   = regexp.MustCompile(`%([A-Za-z0-9_()]+)%`)
	posixEnvToken = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// ExpandEnv expands %VAR%, $VAR and ${VAR} references on every
// platform, so rule documents written with Windows syntax still parse
// on unix and vice versa. Unknown references stay literal: a missing
// environment variable must not collapse a path toward the
// filesystem root.
func ExpandEnv(s string) string {
	s = winEnvToken.ReplaceAllStringFunc(s, func(tok string) string {
		if v, ok := lookupEnv(tok[1 : len(tok)-1]); ok {
			return v
		}
		return tok
	})
	return posixEnvToken.ReplaceAllStringFunc(s, func(tok string) string {
		var name string
		if strings.HasPrefix(tok, "${") {
			name = tok[2 : len(tok)-1]
		} else {
			name = tok[1:]
		}
		if v, ok := lookupEnv(name); ok {
			return v
		}
		return tok
	})
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(s string) (string, error) {
	if !strings.HasPrefix(s, "~") {
		return s, nil
	}
	return homedir.Expand(s)
}

// lookupEnv consults the process environment first, then falls back
// to the XDG base-directory defaults, which adrg/xdg computes when
// the variable is unset.
func lookupEnv(name string) (string, bool) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v, true
	}
	switch name {
	case "XDG_CACHE_HOME":
		return xdg.CacheHome, true
	case "XDG_CONFIG_HOME":
		return xdg.ConfigHome, true
	case "XDG_DATA_HOME":
		return xdg.DataHome, true
	case "XDG_STATE_HOME":
		return xdg.StateHome, true
	}
	return "", false
}
