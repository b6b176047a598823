//go:build windows

package action

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/scourlabs/scour/internal/catalog"
	"github.com/scourlabs/scour/internal/search"
)

// hiveNames maps rule document hive prefixes to registry roots. Both
// abbreviated and full spellings are accepted.
var hiveNames = map[string]registry.Key{
	"HKCU":                registry.CURRENT_USER,
	"HKEY_CURRENT_USER":   registry.CURRENT_USER,
	"HKLM":                registry.LOCAL_MACHINE,
	"HKEY_LOCAL_MACHINE":  registry.LOCAL_MACHINE,
	"HKU":                 registry.USERS,
	"HKEY_USERS":          registry.USERS,
	"HKCR":                registry.CLASSES_ROOT,
	"HKEY_CLASSES_ROOT":   registry.CLASSES_ROOT,
	"HKCC":                registry.CURRENT_CONFIG,
	"HKEY_CURRENT_CONFIG": registry.CURRENT_CONFIG,
}

// splitHive splits `HKCU\Software\App` into its root key and subkey
// path.
func splitHive(path string) (registry.Key, string, error) {
	hive, rest, found := strings.Cut(path, `\`)
	root, ok := hiveNames[strings.ToUpper(hive)]
	if !ok || !found || rest == "" {
		return 0, "", fmt.Errorf("%w: registry path %q", ErrInvalidFormat, path)
	}
	return root, rest, nil
}

// editRegistry deletes a registry value, or a whole key recursively
// when the action names no value. A key or value that is already gone
// counts as not found, mirroring file deletion. The target path
// arrives variable-expanded from the engine.
func (d *Dispatcher) editRegistry(ctx context.Context, act catalog.Action, tgt search.Target) (Effect, error) {
	root, subkey, err := splitHive(tgt.Path)
	if err != nil {
		return Effect{}, err
	}

	if act.Name != "" {
		key, err := registry.OpenKey(root, subkey, registry.SET_VALUE)
		if err != nil {
			return Effect{}, classifyRegistry(err)
		}
		defer key.Close()
		if err := key.DeleteValue(act.Name); err != nil {
			return Effect{}, classifyRegistry(err)
		}
		return Effect{Items: 1}, nil
	}

	deleted, err := deleteKeyTree(root, subkey)
	if err != nil {
		return Effect{}, classifyRegistry(err)
	}
	return Effect{Items: deleted}, nil
}

// deleteKeyTree removes a key and everything beneath it, children
// first, and returns the number of keys deleted.
func deleteKeyTree(root registry.Key, path string) (int, error) {
	key, err := registry.OpenKey(root, path, registry.ENUMERATE_SUB_KEYS|registry.QUERY_VALUE)
	if err != nil {
		return 0, err
	}
	subkeys, err := key.ReadSubKeyNames(-1)
	key.Close()
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, name := range subkeys {
		n, err := deleteKeyTree(root, path+`\`+name)
		deleted += n
		if err != nil {
			return deleted, err
		}
	}
	if err := registry.DeleteKey(root, path); err != nil {
		return deleted, err
	}
	return deleted + 1, nil
}

// classifyRegistry folds registry error codes into the shared failure
// classes.
func classifyRegistry(err error) error {
	switch {
	case errors.Is(err, registry.ErrNotExist):
		return fmt.Errorf("%w: %v", fs.ErrNotExist, err)
	case errors.Is(err, windows.ERROR_ACCESS_DENIED):
		return fmt.Errorf("%w: %v", fs.ErrPermission, err)
	}
	return err
}
