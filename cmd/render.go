package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/scourlabs/scour/internal/engine"
)

// ─── Color tokens ────────────────────────────────────────────────────────────

var (
	clrPrimary = lipgloss.Color("81")  // cyan
	clrOK      = lipgloss.Color("42")  // green
	clrWarn    = lipgloss.Color("214") // amber
	clrFail    = lipgloss.Color("203") // red
	clrMuted   = lipgloss.Color("245") // gray
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(clrPrimary)
	stylePlan  = lipgloss.NewStyle().Foreground(clrPrimary)
	styleOK    = lipgloss.NewStyle().Foreground(clrOK)
	styleWarn  = lipgloss.NewStyle().Foreground(clrWarn)
	styleFail  = lipgloss.NewStyle().Foreground(clrFail)
	styleMuted = lipgloss.NewStyle().Foreground(clrMuted)
)

// colorEnabled gates styled output: plain text for pipes and NO_COLOR.
var colorEnabled = os.Getenv("NO_COLOR") == "" &&
	(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))

func paint(st lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return st.Render(s)
}

// ─── Result lines ────────────────────────────────────────────────────────────

// outcomeMark maps an outcome to its one-column glyph and style.
func outcomeMark(o engine.Outcome) (string, lipgloss.Style) {
	switch o {
	case engine.OutcomeCleaned:
		return "+", styleOK
	case engine.OutcomePreview:
		return ">", stylePlan
	case engine.OutcomeNotFound:
		return "-", styleMuted
	case engine.OutcomeProtected, engine.OutcomeBusy, engine.OutcomeUnsupported:
		return "~", styleWarn
	default:
		return "x", styleFail
	}
}

// renderResult formats one action result as a single output line.
func renderResult(r engine.ActionResult) string {
	mark, st := outcomeMark(r.Outcome)

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(paint(st, mark))
	b.WriteString(" ")
	b.WriteString(paint(styleMuted, r.Cleaner+"."+r.Option))
	b.WriteString("  ")
	b.WriteString(r.Target)

	switch {
	case r.Outcome == engine.OutcomeCleaned && r.Bytes > 0:
		b.WriteString(paint(styleOK, "  ("+humanize.IBytes(uint64(r.Bytes))+")"))
	case r.Outcome == engine.OutcomePreview && r.Bytes > 0:
		b.WriteString(paint(styleMuted, "  ("+humanize.IBytes(uint64(r.Bytes))+")"))
	case r.Outcome != engine.OutcomeCleaned && r.Outcome != engine.OutcomePreview:
		label := string(r.Outcome)
		if r.Detail != "" {
			label += ": " + r.Detail
		}
		b.WriteString(paint(st, "  ["+label+"]"))
	}
	return b.String()
}

// quietOutcome reports whether a result line is noise outside debug
// mode. Targets that were already gone say nothing useful.
func quietOutcome(o engine.Outcome) bool {
	return o == engine.OutcomeNotFound
}

// ─── Summary ─────────────────────────────────────────────────────────────────

// renderSummary formats the end-of-run totals block.
func renderSummary(rep *engine.Report, dryRun bool) string {
	var b strings.Builder

	b.WriteString("\n")
	if dryRun {
		b.WriteString(paint(styleTitle, "  Preview complete"))
		b.WriteString(fmt.Sprintf("  would free %s in %d entries\n",
			humanize.IBytes(uint64(rep.BytesPlanned)), rep.ItemsPlanned))
	} else {
		b.WriteString(paint(styleTitle, "  Cleanup complete"))
		b.WriteString(fmt.Sprintf("  freed %s in %d entries\n",
			humanize.IBytes(uint64(rep.BytesFreed)), rep.ItemsFreed))
	}

	// Outcome counts, stable order.
	outcomes := make([]string, 0, len(rep.Counts))
	for o := range rep.Counts {
		outcomes = append(outcomes, string(o))
	}
	sort.Strings(outcomes)
	parts := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		parts = append(parts, fmt.Sprintf("%s %d", o, rep.Counts[engine.Outcome(o)]))
	}
	if len(parts) > 0 {
		b.WriteString(paint(styleMuted, "  "+strings.Join(parts, ", ")+"\n"))
	}

	b.WriteString(paint(styleMuted, fmt.Sprintf("  run %s took %s\n", rep.RunID, rep.Elapsed.Round(time.Millisecond))))

	if n := rep.Failures(); n > 0 {
		b.WriteString(paint(styleFail, fmt.Sprintf("  %d actions failed, see the audit log for details\n", n)))
	}
	return b.String()
}
