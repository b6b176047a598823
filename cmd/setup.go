package cmd

import (
	"github.com/scourlabs/scour/internal/action"
	"github.com/scourlabs/scour/internal/audit"
	"github.com/scourlabs/scour/internal/catalog"
	"github.com/scourlabs/scour/internal/config"
	"github.com/scourlabs/scour/internal/engine"
	"github.com/scourlabs/scour/internal/expand"
	"github.com/scourlabs/scour/internal/guard"
	"github.com/scourlabs/scour/internal/search"
	"github.com/scourlabs/scour/internal/whitelist"
)

// setup holds everything a subcommand needs once config and catalog
// are loaded.
type setup struct {
	cfg *config.Config
	reg *catalog.Registry
	log *audit.Logger
}

// loadSetup reads the config file, opens the audit log and loads the
// cleaner catalog, honoring the global flag overrides. The caller owns
// the returned setup and must Close it.
func loadSetup() (*setup, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cleanersDir != "" {
		cfg.CleanersDir = cleanersDir
	}

	log, err := audit.New(cfg.AuditLog, debug)
	if err != nil {
		return nil, err
	}

	reg, err := catalog.LoadDir(cfg.CleanersDir)
	if err != nil {
		log.Close()
		return nil, err
	}
	for _, le := range reg.LoadErrors() {
		log.Warnf("rule document skipped: %v", le)
	}

	return &setup{cfg: cfg, reg: reg, log: log}, nil
}

// Close flushes and closes the audit log.
func (s *setup) Close() {
	s.log.Close()
}

// newEngine wires an execution engine from the loaded settings.
func (s *setup) newEngine(dryRun bool) *engine.Engine {
	patterns := make([]string, 0, len(s.cfg.Whitelist))
	for _, p := range s.cfg.Whitelist {
		patterns = append(patterns, expand.ExpandEnv(p))
	}

	disp := action.NewDispatcher(s.cfg.Shred, s.cfg.CommandTimeout.Std())
	if s.cfg.CheckOpenFiles {
		disp.InUse = guard.NewOpenFiles().IsOpen
	}

	return &engine.Engine{
		Catalog: s.reg,
		Matcher: &search.Matcher{
			MinDepth: s.cfg.MinDepth,
			Warn:     func(msg string) { s.log.Debugf("search: %s", msg) },
		},
		Dispatch: disp,
		Guard:    guard.New(s.cfg.ConservativeGuard),
		White:    whitelist.New(patterns),
		Log:      s.log,
		Workers:  s.cfg.Workers,
		DryRun:   dryRun,
	}
}
