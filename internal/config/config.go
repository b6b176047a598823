package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	yaml "gopkg.in/yaml.v2"
)

// Duration wraps time.Duration for YAML fields written as "120s".
type Duration time.Duration

// UnmarshalYAML parses Go duration syntax.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the plain time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the engine's settings file. Zero values are filled from
// Default before a file is applied over them, so a partial file is
// fine.
type Config struct {
	// CleanersDir holds the *.yaml rule documents.
	CleanersDir string `yaml:"cleaners_dir"`

	// ConservativeGuard treats unverifiable running checks as busy.
	ConservativeGuard bool `yaml:"conservative_guard"`

	// MinDepth rejects resolved paths closer to the filesystem root.
	MinDepth int `yaml:"min_depth"`

	// Shred overwrites file contents and names before deletion.
	Shred bool `yaml:"shred"`

	// Workers bounds how many cleaners run at once.
	Workers int `yaml:"workers"`

	// CommandTimeout bounds external commands.
	CommandTimeout Duration `yaml:"command_timeout"`

	// Whitelist patterns are never touched; wildcards span path
	// separators and a plain directory covers its subtree.
	Whitelist []string `yaml:"whitelist"`

	// AuditLog is the rotating audit log location.
	AuditLog string `yaml:"audit_log"`

	// CheckOpenFiles scans /proc for open handles before deletes.
	// Linux only.
	CheckOpenFiles bool `yaml:"check_open_files"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		CleanersDir:       filepath.Join(xdg.ConfigHome, "scour", "cleaners.d"),
		ConservativeGuard: true,
		MinDepth:          2,
		Workers:           4,
		CommandTimeout:    Duration(120 * time.Second),
		AuditLog:          filepath.Join(xdg.StateHome, "scour", "audit.log"),
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "scour", "config.yaml")
}

// Load reads settings from path, or from the standard location when
// path is empty. A missing file at the standard location means
// defaults; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.UnmarshalStrict(raw, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MinDepth < 0 {
		return errors.New("min_depth cannot be negative")
	}
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if c.CommandTimeout < 0 {
		return errors.New("command_timeout cannot be negative")
	}
	return nil
}
