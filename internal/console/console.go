// Package console renders run progress and result tables for the
// operator terminal.
package console

import (
	"fmt"
	"io"
	"os"

	service "github.com/okian/rankdesk/internal/app"
	"github.com/okian/rankdesk/internal/domain/member"
	"github.com/okian/rankdesk/internal/domain/upset"
)

// Printer writes human-readable run output. The zero value is unusable;
// use New.
type Printer struct {
	out io.Writer
}

// Option applies a configuration option to the Printer.
type Option func(*Printer)

// WithWriter redirects output, used by tests.
func WithWriter(w io.Writer) Option {
	return func(p *Printer) {
		if w != nil {
			p.out = w
		}
	}
}

// New creates a Printer writing to stdout by default.
func New(opts ...Option) *Printer {
	p := &Printer{out: os.Stdout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Progress returns a callback suitable for the service's progress hook.
func (p *Printer) Progress() service.ProgressFunc {
	return func(current, total int, label string) {
		fmt.Fprintf(p.out, "[%d/%d] %s\n", current, total, label)
	}
}

// ImportSummary prints the end-of-run tally for an import.
func (p *Printer) ImportSummary(sum *service.Summary) {
	if sum.DryRun {
		fmt.Fprintln(p.out, "dry run, nothing written")
	}
	fmt.Fprintln(p.out, sum.String())
	if len(sum.Upsets) > 0 {
		p.Upsets(sum.Upsets)
	}
}

// Upsets prints the giant-killing preview table.
func (p *Printer) Upsets(upsets []upset.Upset) {
	fmt.Fprintf(p.out, "\ngiant killings (%d):\n", len(upsets))
	fmt.Fprintf(p.out, "  %-24s %-8s %-24s %-8s %s\n", "WINNER", "SCORE", "GIANT", "SCORE", "BONUS")
	for _, u := range upsets {
		fmt.Fprintf(p.out, "  %-24s %-8d %-24s %-8d +%d\n",
			u.Winner.Name, u.Winner.Score, u.Loser.Name, u.Loser.Score, u.Bonus)
	}
}

// RecomputeSummary prints the end-of-run tally for a recompute.
func (p *Printer) RecomputeSummary(sum *service.RecomputeSummary) {
	fmt.Fprintf(p.out, "run %s: members=%d patched=%d failed=%d\n",
		sum.RunID, sum.Members, sum.Patched, sum.Failed)
}

// Roster prints the member directory ordered as fetched.
func (p *Printer) Roster(members []member.Member) {
	fmt.Fprintf(p.out, "roster (%d members):\n", len(members))
	fmt.Fprintf(p.out, "  %-32s %s\n", "NAME", "SCORE")
	for _, m := range members {
		fmt.Fprintf(p.out, "  %-32s %d\n", m.Name, m.Score)
	}
}
