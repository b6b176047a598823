package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	yaml "gopkg.in/yaml.v2"

	"github.com/scourlabs/scour/internal/core"
	"github.com/scourlabs/scour/internal/search"
)

// idPattern constrains cleaner and option ids to the safe lowercase
// vocabulary used in selections ("cleaner.option").
var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// LoadError records a rule document that failed to load or validate
// and was skipped.
type LoadError struct {
	File string
	Err  error
}

func (e LoadError) Error() string { return e.File + ": " + e.Err.Error() }

// LoadDir reads every *.yaml / *.yml rule document under dir into a
// Registry. A bad document never aborts the load: it is skipped and
// recorded so the rest of the catalog stays usable. A missing dir
// yields an empty registry.
func LoadDir(dir string) (*Registry, error) {
	reg := NewRegistry()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return reg, nil
		}
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		c, err := LoadFile(path)
		if err != nil {
			reg.recordError(LoadError{File: path, Err: err})
			continue
		}
		if err := reg.Add(c); err != nil {
			reg.recordError(LoadError{File: path, Err: err})
		}
	}
	return reg, nil
}

// LoadFile parses and validates a single rule document.
func LoadFile(path string) (*Cleaner, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Cleaner
	if err := yaml.UnmarshalStrict(raw, &c); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	c.Source = path
	return &c, nil
}

func (c *Cleaner) validate() error {
	if !idPattern.MatchString(c.ID) {
		return fmt.Errorf("invalid cleaner id %q", c.ID)
	}
	if c.Label == "" {
		return fmt.Errorf("cleaner %s: label required", c.ID)
	}
	if err := checkTags(c.OS); err != nil {
		return fmt.Errorf("cleaner %s: %w", c.ID, err)
	}

	varNames := make(map[string]bool, len(c.Vars))
	for _, v := range c.Vars {
		if v.Name == "" {
			return fmt.Errorf("cleaner %s: variable with empty name", c.ID)
		}
		if varNames[v.Name] {
			return fmt.Errorf("cleaner %s: duplicate variable %q", c.ID, v.Name)
		}
		varNames[v.Name] = true
		if len(v.Values) == 0 {
			return fmt.Errorf("cleaner %s: variable %q has no values", c.ID, v.Name)
		}
		for _, val := range v.Values {
			if val.OS != "" && !core.KnownTag(val.OS) {
				return fmt.Errorf("cleaner %s: variable %q: unknown os tag %q", c.ID, v.Name, val.OS)
			}
		}
	}

	for i, r := range c.Running {
		if err := r.validate(); err != nil {
			return fmt.Errorf("cleaner %s: running check %d: %w", c.ID, i, err)
		}
	}

	if len(c.Options) == 0 {
		return fmt.Errorf("cleaner %s: at least one option required", c.ID)
	}
	optIDs := make(map[string]bool, len(c.Options))
	for i := range c.Options {
		o := &c.Options[i]
		if !idPattern.MatchString(o.ID) {
			return fmt.Errorf("cleaner %s: invalid option id %q", c.ID, o.ID)
		}
		if optIDs[o.ID] {
			return fmt.Errorf("cleaner %s: duplicate option %q", c.ID, o.ID)
		}
		optIDs[o.ID] = true
		if o.Label == "" {
			return fmt.Errorf("cleaner %s: option %s: label required", c.ID, o.ID)
		}
		if err := checkTags(o.OS); err != nil {
			return fmt.Errorf("cleaner %s: option %s: %w", c.ID, o.ID, err)
		}
		if len(o.Actions) == 0 {
			return fmt.Errorf("cleaner %s: option %s: at least one action required", c.ID, o.ID)
		}
		for j, a := range o.Actions {
			if err := a.validate(); err != nil {
				return fmt.Errorf("cleaner %s: option %s: action %d: %w", c.ID, o.ID, j, err)
			}
		}
	}
	return nil
}

func (r RunningCheck) validate() error {
	switch r.Type {
	case CheckProcess:
		if r.Name == "" {
			return errors.New("process check requires a name")
		}
		switch r.Scope {
		case "", ScopeSameUser, ScopeAnyUser:
		default:
			return fmt.Errorf("unknown scope %q", r.Scope)
		}
	case CheckLockfile:
		if r.Path == "" {
			return errors.New("lockfile check requires a path")
		}
	default:
		return fmt.Errorf("unknown check type %q", r.Type)
	}
	return nil
}

func (a Action) validate() error {
	if !knownCommand(a.Command) {
		return fmt.Errorf("unknown command %q", a.Command)
	}

	if a.FilesystemTargets() {
		if a.Path == "" {
			return fmt.Errorf("%s requires a path", a.Command)
		}
		if _, err := search.ParseMode(string(a.Search)); err != nil {
			return err
		}
	} else if a.Search != "" {
		return fmt.Errorf("%s does not take a search mode", a.Command)
	}

	switch a.Command {
	case CommandIni:
		if a.Section == "" {
			return errors.New("ini requires a section")
		}
	case CommandJSON:
		if a.Address == "" {
			return errors.New("json requires an address")
		}
	case CommandWinreg:
		if a.Path == "" {
			return errors.New("winreg requires a key path")
		}
	case CommandRecycle:
		if a.Path != "" {
			return errors.New("recycle does not take a path")
		}
	case CommandApt:
		if a.Path != "" {
			return errors.New("apt does not take a path")
		}
		switch a.Op {
		case AptClean, AptAutoclean, AptAutoremove:
		default:
			return fmt.Errorf("unknown apt op %q", a.Op)
		}
	}
	return nil
}

func checkTags(tags []string) error {
	for _, t := range tags {
		if !core.KnownTag(t) {
			return fmt.Errorf("unknown os tag %q", t)
		}
	}
	return nil
}
