package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/okian/rankdesk/internal/domain/upset"
)

// Summary is the tally of one import run. Per-item failures never abort
// the batch; they end up here and in the run log.
type Summary struct {
	RunID             string
	Source            string // "sheet" or "bracket"
	Event             string
	Attempted         int
	Written           int
	SkippedDuplicate  int
	SkippedUnresolved int
	Failed            int
	DryRun            bool

	// Upsets holds the detected giant killings of a bracket run so the
	// console can show the preview before (or instead of) the commit.
	Upsets []upset.Upset
}

func newSummary(source, event string, dryRun bool) *Summary {
	return &Summary{
		RunID:  uuid.NewString(),
		Source: source,
		Event:  event,
		DryRun: dryRun,
	}
}

// String renders the one-line tally shown at the end of a run.
func (s *Summary) String() string {
	return fmt.Sprintf("run %s (%s, %q): attempted=%d written=%d duplicate=%d unresolved=%d failed=%d",
		s.RunID, s.Source, s.Event, s.Attempted, s.Written, s.SkippedDuplicate, s.SkippedUnresolved, s.Failed)
}

// RecomputeSummary is the tally of one recompute run.
type RecomputeSummary struct {
	RunID   string
	Members int
	Patched int
	Failed  int
}
