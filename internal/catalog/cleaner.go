package catalog

import (
	"github.com/scourlabs/scour/internal/core"
	"github.com/scourlabs/scour/internal/search"
)

// Command identifies what an action does to each of its targets.
type Command string

const (
	CommandDelete   Command = "delete"
	CommandTruncate Command = "truncate"
	CommandIni      Command = "ini"
	CommandJSON     Command = "json"
	CommandVacuum   Command = "vacuum"
	CommandWinreg   Command = "winreg"
	CommandRecycle  Command = "recycle"
	CommandApt      Command = "apt"
)

// Commands returns every known command kind. The dispatcher's handler
// table is checked against this list so the set stays closed.
func Commands() []Command {
	return []Command{
		CommandDelete, CommandTruncate, CommandIni, CommandJSON,
		CommandVacuum, CommandWinreg, CommandRecycle, CommandApt,
	}
}

func knownCommand(c Command) bool {
	for _, k := range Commands() {
		if c == k {
			return true
		}
	}
	return false
}

// FilesystemTargets reports whether the action's path resolves through
// the path matcher. winreg expands variables in its registry path but
// never touches the filesystem; recycle and apt have no path at all.
func (a Action) FilesystemTargets() bool {
	switch a.Command {
	case CommandWinreg, CommandRecycle, CommandApt:
		return false
	}
	return true
}

// Running-check vocabulary.
const (
	CheckProcess  = "process"
	CheckLockfile = "lockfile"

	ScopeSameUser = "same-user"
	ScopeAnyUser  = "any-user"
)

// Apt operations accepted by the apt command.
const (
	AptClean      = "clean"
	AptAutoclean  = "autoclean"
	AptAutoremove = "autoremove"
)

// Cleaner is one application's rule document: its path variables,
// running guards and user-selectable cleaning options.
type Cleaner struct {
	ID          string         `yaml:"id"`
	Label       string         `yaml:"label"`
	Description string         `yaml:"description,omitempty"`
	OS          []string       `yaml:"os,omitempty"`
	Vars        []Variable     `yaml:"vars,omitempty"`
	Running     []RunningCheck `yaml:"running,omitempty"`
	Options     []Option       `yaml:"options"`

	// Source is the file the cleaner loaded from.
	Source string `yaml:"-"`
}

// Variable is a named path fragment with one value per platform.
type Variable struct {
	Name   string     `yaml:"name"`
	Values []VarValue `yaml:"values"`
}

// VarValue is one candidate value. An empty OS tag is the OS-agnostic
// default; the first value whose tag matches the host wins, in
// declared order.
type VarValue struct {
	OS    string `yaml:"os,omitempty"`
	Value string `yaml:"value"`
}

// RunningCheck describes one way to detect that the owning
// application is currently in use.
type RunningCheck struct {
	Type  string `yaml:"type"`
	Name  string `yaml:"name,omitempty"`  // process: executable name
	Scope string `yaml:"scope,omitempty"` // process: same-user (default) or any-user
	Path  string `yaml:"path,omitempty"`  // lockfile: may use $$var$$ references
}

// Option is a user-selectable group of actions, executed in declared
// order.
type Option struct {
	ID          string   `yaml:"id"`
	Label       string   `yaml:"label"`
	Description string   `yaml:"description,omitempty"`
	Warning     string   `yaml:"warning,omitempty"`
	OS          []string `yaml:"os,omitempty"`
	Actions     []Action `yaml:"actions"`
}

// Action is one command applied to every target its search yields.
// Which extra fields apply depends on the command.
type Action struct {
	Command Command     `yaml:"command"`
	Search  search.Mode `yaml:"search,omitempty"`
	Path    string      `yaml:"path,omitempty"`

	// ini: section to clear, or a single parameter within it.
	Section   string `yaml:"section,omitempty"`
	Parameter string `yaml:"parameter,omitempty"`

	// json: /-separated key path to remove.
	Address string `yaml:"address,omitempty"`

	// winreg: value name; empty deletes the whole key.
	Name string `yaml:"name,omitempty"`

	// apt: clean, autoclean or autoremove.
	Op string `yaml:"op,omitempty"`
}

// Applies reports whether the cleaner applies to a host carrying the
// given tag set.
func (c *Cleaner) Applies(tags []string) bool { return core.Applies(c.OS, tags) }

// Applies reports whether the option applies to a host carrying the
// given tag set.
func (o *Option) Applies(tags []string) bool { return core.Applies(o.OS, tags) }

// Option returns the option with the given id.
func (c *Cleaner) Option(id string) (*Option, bool) {
	for i := range c.Options {
		if c.Options[i].ID == id {
			return &c.Options[i], true
		}
	}
	return nil, false
}
