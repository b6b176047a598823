package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/scourlabs/scour/internal/core"
	"github.com/scourlabs/scour/internal/engine"
)

var (
	dryRun      bool
	cleanAll    bool
	showSkipped bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean [cleaner[.option]]...",
	Short: "Delete what the selected cleaner options match",
	Long: `Run the selected cleaner options and delete what they match.

Selections name a whole cleaner ('firefox'), one option ('firefox.cache')
or explicitly all of its options ('firefox.*'). Pass --all to run every
option of every cleaner that applies to this machine.

Options whose application appears to be running are skipped whole, and
protected paths are never touched. Use --dry-run (or 'scour preview')
to see the plan without deleting anything.`,
	Args: cobra.ArbitraryArgs,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be removed without touching anything")
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "Run every option of every applicable cleaner")
	cleanCmd.Flags().BoolVar(&showSkipped, "show-skipped", false, "Also report targets that were already gone")
}

func runClean(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !cleanAll {
		return fmt.Errorf("nothing selected: name cleaner options or pass --all")
	}
	if len(args) > 0 && cleanAll {
		return fmt.Errorf("--all cannot be combined with explicit selections")
	}

	s, err := loadSetup()
	if err != nil {
		return err
	}
	defer s.Close()

	sels, err := resolveSelections(s, args)
	if err != nil {
		return err
	}
	printWarnings(s, sels)

	// Ctrl-C stops cleanly: in-flight actions finish, the rest are
	// dropped, and the summary still prints.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng := s.newEngine(dryRun)
	rep := engine.NewReport()

	results, err := eng.Execute(ctx, rep.RunID, sels)
	if err != nil {
		return err
	}
	for r := range results {
		rep.Add(r)
		if quietOutcome(r.Outcome) && !debug && !showSkipped {
			continue
		}
		fmt.Println(renderResult(r))
	}
	rep.Finish()

	fmt.Print(renderSummary(rep, dryRun))

	if ctx.Err() != nil {
		return fmt.Errorf("interrupted")
	}
	if rep.Failures() > 0 {
		exitCode = 2
	}
	return nil
}

// resolveSelections turns command-line args into engine selections,
// expanding --all into every cleaner that applies to this host.
func resolveSelections(s *setup, args []string) ([]engine.Selection, error) {
	if cleanAll {
		cleaners := s.reg.List(true)
		sels := make([]engine.Selection, 0, len(cleaners))
		for _, c := range cleaners {
			sels = append(sels, engine.Selection{Cleaner: c.ID, Option: engine.OptAll})
		}
		if len(sels) == 0 {
			return nil, fmt.Errorf("no cleaners apply to this system (looked in %s)", s.cfg.CleanersDir)
		}
		return sels, nil
	}

	sels := make([]engine.Selection, 0, len(args))
	for _, a := range args {
		sel, err := engine.ParseSelection(a)
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)
	}
	return sels, nil
}

// printWarnings surfaces the warning text of selected options before
// anything runs.
func printWarnings(s *setup, sels []engine.Selection) {
	tags := core.Tags()
	seen := make(map[string]bool)
	for _, sel := range sels {
		c, ok := s.reg.Cleaner(sel.Cleaner)
		if !ok {
			continue
		}
		for i := range c.Options {
			o := &c.Options[i]
			if o.Warning == "" || !o.Applies(tags) {
				continue
			}
			if sel.Option != engine.OptAll && sel.Option != o.ID {
				continue
			}
			key := c.ID + "." + o.ID
			if seen[key] {
				continue
			}
			seen[key] = true
			fmt.Println(paint(styleWarn, fmt.Sprintf("  warning: %s: %s", key, o.Warning)))
		}
	}
}
