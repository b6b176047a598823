package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/scourlabs/scour/internal/action"
	"github.com/scourlabs/scour/internal/audit"
	"github.com/scourlabs/scour/internal/catalog"
	"github.com/scourlabs/scour/internal/core"
	"github.com/scourlabs/scour/internal/expand"
	"github.com/scourlabs/scour/internal/guard"
	"github.com/scourlabs/scour/internal/search"
	"github.com/scourlabs/scour/internal/whitelist"
)

// OptAll selects every applicable option of a cleaner.
const OptAll = "*"

// Selection names one option of one cleaner, or all of them.
type Selection struct {
	Cleaner string
	Option  string
}

// ParseSelection parses "cleaner", "cleaner.option" or "cleaner.*".
// A bare cleaner name means every applicable option.
func ParseSelection(s string) (Selection, error) {
	cleaner, option, found := strings.Cut(s, ".")
	if cleaner == "" || (found && option == "") {
		return Selection{}, fmt.Errorf("invalid selection %q", s)
	}
	if !found {
		option = OptAll
	}
	return Selection{Cleaner: cleaner, Option: option}, nil
}

func (s Selection) String() string { return s.Cleaner + "." + s.Option }

// Engine executes selections against the loaded catalog: guard, then
// expand, then enumerate, then dispatch, recording one result per
// target.
type Engine struct {
	Catalog  *catalog.Registry
	Matcher  *search.Matcher
	Dispatch *action.Dispatcher
	Guard    *guard.Guard
	White    *whitelist.Whitelist
	Log      *audit.Logger

	// Workers bounds how many cleaners run at once. Actions within
	// one cleaner always run sequentially in declared order.
	Workers int

	// DryRun reports what would happen without touching anything.
	DryRun bool

	// Tags overrides the host tag set; nil means the running host.
	Tags []string
}

// cleanerJob is one cleaner with the options selected for it, in
// declared order.
type cleanerJob struct {
	cleaner *catalog.Cleaner
	options []*catalog.Option
}

// Run executes the selections and blocks until the aggregated report
// is complete.
func (e *Engine) Run(ctx context.Context, sels []Selection) (*Report, error) {
	report := NewReport()
	results, err := e.Execute(ctx, report.RunID, sels)
	if err != nil {
		return nil, err
	}
	for res := range results {
		report.Add(res)
	}
	report.Finish()
	return report, nil
}

// Execute validates the selections upfront, then runs each selected
// cleaner on a bounded worker pool. Results stream on the returned
// channel, which closes when the run completes. Unknown cleaner or
// option names fail here, before anything is touched.
func (e *Engine) Execute(ctx context.Context, runID string, sels []Selection) (<-chan ActionResult, error) {
	if len(sels) == 0 {
		return nil, errors.New("nothing selected")
	}
	jobs, err := e.resolve(sels)
	if err != nil {
		return nil, err
	}

	log := e.logger().WithRun(runID)
	workers := e.Workers
	if workers < 1 {
		workers = 1
	}

	results := make(chan ActionResult, 64)
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	go func() {
		defer close(results)
		for _, job := range jobs {
			if ctx.Err() != nil {
				break
			}
			wg.Add(1)
			// One slot per cleaner: at most Workers cleaners run at
			// once, each running its own options sequentially.
			sem <- struct{}{}
			go func(job cleanerJob) {
				defer wg.Done()
				defer func() { <-sem }()
				e.runCleaner(ctx, log, job, results)
			}(job)
		}
		wg.Wait()
	}()

	return results, nil
}

// resolve maps selections onto cleaners and options, validating every
// name and platform restriction. Duplicate selections collapse.
func (e *Engine) resolve(sels []Selection) ([]cleanerJob, error) {
	tags := e.tags()
	wanted := make(map[string]map[string]bool)
	var order []string

	for _, s := range sels {
		c, ok := e.Catalog.Cleaner(s.Cleaner)
		if !ok {
			return nil, fmt.Errorf("unknown cleaner %q", s.Cleaner)
		}
		if _, seen := wanted[s.Cleaner]; !seen {
			wanted[s.Cleaner] = make(map[string]bool)
			order = append(order, s.Cleaner)
		}
		if s.Option != OptAll {
			if _, ok := c.Option(s.Option); !ok {
				return nil, fmt.Errorf("cleaner %s has no option %q", s.Cleaner, s.Option)
			}
		}
		wanted[s.Cleaner][s.Option] = true
	}

	var jobs []cleanerJob
	for _, id := range order {
		c, _ := e.Catalog.Cleaner(id)
		if !c.Applies(tags) {
			return nil, fmt.Errorf("cleaner %s does not apply to this platform", id)
		}
		want := wanted[id]
		var opts []*catalog.Option
		for i := range c.Options {
			o := &c.Options[i]
			if !want[OptAll] && !want[o.ID] {
				continue
			}
			if !o.Applies(tags) {
				// Explicitly selecting an inapplicable option is a
				// user error; the wildcard just passes it by.
				if want[o.ID] {
					return nil, fmt.Errorf("option %s.%s does not apply to this platform", id, o.ID)
				}
				continue
			}
			opts = append(opts, o)
		}
		if len(opts) == 0 {
			return nil, fmt.Errorf("cleaner %s: no applicable options selected", id)
		}
		jobs = append(jobs, cleanerJob{cleaner: c, options: opts})
	}
	return jobs, nil
}

// runCleaner guards one cleaner, then walks its selected options and
// actions in declared order.
func (e *Engine) runCleaner(ctx context.Context, log *audit.Logger, job cleanerJob, results chan<- ActionResult) {
	c := job.cleaner
	resolver := expand.NewResolver(c.Vars, e.tags())

	if len(c.Running) > 0 && e.Guard != nil {
		veto, err := e.Guard.Check(ctx, c.Running, resolver.Expand)
		if err != nil {
			log.Warnf("%s: running check unverifiable, proceeding: %v", c.ID, err)
		}
		if veto != nil {
			log.Infof("%s: in use, withholding all actions: %s", c.ID, veto.Detail)
			for _, o := range job.options {
				for _, a := range o.Actions {
					results <- ActionResult{
						Cleaner: c.ID,
						Option:  o.ID,
						Command: a.Command,
						Target:  a.Path,
						Outcome: OutcomeBusy,
						Detail:  veto.Detail,
					}
				}
			}
			return
		}
	}

	for _, o := range job.options {
		for _, a := range o.Actions {
			if ctx.Err() != nil {
				return
			}
			e.runAction(ctx, log, c, o, a, resolver, results)
		}
	}
}

// runAction expands one action's path, enumerates its targets
// completely, then dispatches them one by one. Failures stay local:
// they are recorded and the walk continues.
func (e *Engine) runAction(ctx context.Context, log *audit.Logger, c *catalog.Cleaner, o *catalog.Option, act catalog.Action, resolver *expand.Resolver, results chan<- ActionResult) {
	base := ActionResult{Cleaner: c.ID, Option: o.ID, Command: act.Command}

	// Host-wide commands execute once, not per matched file.
	if !act.FilesystemTargets() {
		path := act.Path
		if path != "" {
			expanded, err := resolver.Expand(path)
			if err != nil {
				base.Target = path
				base.Outcome = OutcomeError
				base.Detail = err.Error()
				e.logResult(log, base)
				results <- base
				return
			}
			path = expanded
		}
		base.Target = targetLabel(act, path)
		e.dispatch(ctx, log, act, search.Target{Path: path}, base, results)
		return
	}

	expanded, err := resolver.Expand(act.Path)
	if err != nil {
		base.Target = act.Path
		base.Outcome = OutcomeError
		base.Detail = err.Error()
		e.logResult(log, base)
		results <- base
		return
	}

	targets, err := e.Matcher.Expand(ctx, expanded, act.Search)
	if err != nil {
		if ctxDone(err) {
			return
		}
		base.Target = expanded
		base.Outcome = OutcomeError
		base.Detail = err.Error()
		e.logResult(log, base)
		results <- base
		return
	}
	if len(targets) == 0 {
		log.Debugf("%s.%s: %s matched nothing", c.ID, o.ID, expanded)
		return
	}

	for _, tgt := range targets {
		if ctx.Err() != nil {
			return
		}
		res := base
		res.Target = tgt.Path
		if e.White != nil && e.White.IsProtected(tgt.Path) {
			res.Outcome = OutcomeProtected
			res.Detail = "whitelisted"
			e.logResult(log, res)
			results <- res
			continue
		}
		e.dispatch(ctx, log, act, tgt, res, results)
	}
}

// dispatch applies one action to one target, or records what it
// would do in a dry run.
func (e *Engine) dispatch(ctx context.Context, log *audit.Logger, act catalog.Action, tgt search.Target, res ActionResult, results chan<- ActionResult) {
	if e.DryRun {
		res.Outcome = OutcomePreview
		res.Items = 1
		switch act.Command {
		case catalog.CommandDelete, catalog.CommandTruncate:
			res.Bytes = tgt.Size
		}
		e.logResult(log, res)
		results <- res
		return
	}

	effect, err := e.Dispatch.Apply(ctx, act, tgt)
	if err != nil && ctxDone(err) {
		return
	}
	res.Outcome = classify(err)
	res.Bytes = effect.Bytes
	res.Items = effect.Items
	if err != nil {
		res.Detail = err.Error()
	}
	e.logResult(log, res)
	results <- res
}

// classify maps a dispatch error onto an outcome. A target that
// vanished between enumeration and dispatch is already satisfied.
func classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeCleaned
	case errors.Is(err, fs.ErrNotExist):
		return OutcomeNotFound
	case errors.Is(err, fs.ErrPermission):
		return OutcomePermission
	case errors.Is(err, action.ErrInUse):
		return OutcomeInUse
	case errors.Is(err, action.ErrInvalidFormat):
		return OutcomeBadFormat
	case errors.Is(err, action.ErrUnsupported):
		return OutcomeUnsupported
	}
	return OutcomeError
}

func ctxDone(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// logResult writes one audit line per decision, at a level matching
// its weight.
func (e *Engine) logResult(log *audit.Logger, res ActionResult) {
	switch {
	case res.Outcome.Failed():
		log.Errorf("%s.%s %s %s: %s: %s", res.Cleaner, res.Option, res.Command, res.Target, res.Outcome, res.Detail)
	case res.Outcome == OutcomeCleaned:
		log.Infof("%s.%s %s %s: freed %d bytes in %d entries", res.Cleaner, res.Option, res.Command, res.Target, res.Bytes, res.Items)
	default:
		log.Debugf("%s.%s %s %s: %s", res.Cleaner, res.Option, res.Command, res.Target, res.Outcome)
	}
}

// targetLabel names what a host-wide command acted on.
func targetLabel(act catalog.Action, path string) string {
	switch act.Command {
	case catalog.CommandRecycle:
		return "recycle bin"
	case catalog.CommandApt:
		return "apt " + act.Op
	}
	return path
}

func (e *Engine) tags() []string {
	if e.Tags != nil {
		return e.Tags
	}
	return core.Tags()
}

func (e *Engine) logger() *audit.Logger {
	if e.Log != nil {
		return e.Log
	}
	return audit.Nop()
}
