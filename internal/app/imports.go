package service

import (
	"context"
	"fmt"

	"github.com/okian/rankdesk/internal/adapters/challonge"
	"github.com/okian/rankdesk/internal/adapters/spreadsheet"
	"github.com/okian/rankdesk/internal/domain/ledger"
	"github.com/okian/rankdesk/internal/domain/member"
	"github.com/okian/rankdesk/internal/domain/resolve"
	"github.com/okian/rankdesk/internal/domain/scoring"
	"github.com/okian/rankdesk/pkg/logger"
	"github.com/okian/rankdesk/pkg/metrics"
)

// Skip reasons used in tallies and metrics labels.
const (
	skipDuplicate  = "duplicate"
	skipUnresolved = "unresolved"
)

// ImportSheet awards placement points for a parsed standings workbook.
// The event is looked up once by the sheet's first cell; every data row
// is then resolved, scored by position and reconciled against the
// ledger. With dryRun the resolution and scoring run but nothing is
// written.
//
// Only batch setup can fail: a missing or ambiguous event, or a roster
// that cannot be fetched, aborts before any write. A single unresolved
// name or failed write is tallied and the batch continues.
func (s *Service) ImportSheet(ctx context.Context, st *spreadsheet.Standings, dryRun bool) (*Summary, error) {
	sum := newSummary("sheet", st.EventName, dryRun)
	log := s.logger.Named("import.sheet")

	event, roster, err := s.setup(ctx, st.EventName)
	if err != nil {
		metrics.RecordImportRun(sum.Source, "setup_failed")
		return nil, err
	}

	log.Info(ctx, "starting sheet import",
		logger.String("run_id", sum.RunID),
		logger.String("event", event.Name),
		logger.Any("minor", event.Minor),
		logger.Int("rows", len(st.Entries)),
	)

	for i, entry := range st.Entries {
		s.step(i+1, len(st.Entries), entry.RawName)
		sum.Attempted++

		m, ok := resolve.Resolve(entry.RawName, roster)
		if !ok {
			sum.SkippedUnresolved++
			metrics.RecordResolverMiss()
			metrics.RecordLedgerSkip(skipUnresolved)
			log.Warn(ctx, "no roster match for row",
				logger.String("run_id", sum.RunID),
				logger.String("raw_name", entry.RawName),
				logger.Int("position", entry.Position),
			)
			continue
		}

		points := scoring.Points(entry.Position, event.Minor)
		if dryRun {
			log.Info(ctx, "dry run: would award placement",
				logger.String("member", m.Name),
				logger.Int("position", entry.Position),
				logger.Int("points", points),
			)
			continue
		}

		s.award(ctx, sum, log, ledger.Record{
			Key: ledger.Key{
				MemberID: m.ID,
				EventID:  event.ID,
				Kind:     ledger.KindPlacement,
			},
			Title:  event.Name,
			Points: points,
		}, m.Name)
	}

	metrics.RecordImportRun(sum.Source, "ok")
	log.Info(ctx, "sheet import finished", logger.String("summary", sum.String()))
	s.rememberImport(sum)
	return sum, nil
}

// BracketOptions tune a bracket import run.
type BracketOptions struct {
	// DryRun stops after the placement/upset preview; nothing is written.
	DryRun bool
	// SkipBonus suppresses bonus records while still awarding placements.
	SkipBonus bool
	// SkipPlacements suppresses placement records, bonus-only run.
	SkipPlacements bool
}

// ImportBracket awards placement points from the bracket's final
// standings and giant-killing bonuses from its completed matches.
// Entrants without a final rank (unfinished bracket) simply earn no
// placement. Matches where either side is unknown to the roster are
// skipped, not errors.
func (s *Service) ImportBracket(ctx context.Context, tournament, eventName string, opts BracketOptions) (*Summary, error) {
	sum := newSummary("bracket", eventName, opts.DryRun)
	log := s.logger.Named("import.bracket")

	event, roster, err := s.setup(ctx, eventName)
	if err != nil {
		metrics.RecordImportRun(sum.Source, "setup_failed")
		return nil, err
	}

	participants, err := s.bracket.Participants(ctx, tournament)
	if err != nil {
		metrics.RecordImportRun(sum.Source, "setup_failed")
		return nil, fmt.Errorf("bracket import: %w", err)
	}
	matches, err := s.bracket.Matches(ctx, tournament)
	if err != nil {
		metrics.RecordImportRun(sum.Source, "setup_failed")
		return nil, fmt.Errorf("bracket import: %w", err)
	}

	log.Info(ctx, "starting bracket import",
		logger.String("run_id", sum.RunID),
		logger.String("tournament", tournament),
		logger.String("event", event.Name),
		logger.Any("minor", event.Minor),
		logger.Int("participants", len(participants)),
		logger.Int("matches", len(matches)),
	)

	if !opts.SkipPlacements {
		s.awardPlacements(ctx, sum, log, event, roster, participants, opts.DryRun)
	}

	results := matchResults(participants, matches)
	sum.Upsets = s.detector.Detect(results, roster, event.Minor)
	for range sum.Upsets {
		metrics.RecordUpsetDetected()
	}

	if !opts.SkipBonus && !opts.DryRun {
		for i, u := range sum.Upsets {
			s.step(i+1, len(sum.Upsets), u.Winner.Name)
			sum.Attempted++
			s.award(ctx, sum, log, ledger.Record{
				Key: ledger.Key{
					MemberID:  u.Winner.ID,
					EventID:   event.ID,
					Kind:      ledger.KindBonus,
					Qualifier: u.Loser.Name,
				},
				Title:  fmt.Sprintf("Bonus: Giant Killing (def. %s)", u.Loser.Name),
				Points: u.Bonus,
			}, u.Winner.Name)
		}
	}

	metrics.RecordImportRun(sum.Source, "ok")
	log.Info(ctx, "bracket import finished", logger.String("summary", sum.String()))
	s.rememberImport(sum)
	return sum, nil
}

// setup performs the whole-batch preconditions: event lookup and roster
// fetch. Any failure here aborts before a single write.
func (s *Service) setup(ctx context.Context, eventName string) (member.Event, []member.Member, error) {
	event, err := s.events.FindByName(ctx, eventName)
	if err != nil {
		return member.Event{}, nil, fmt.Errorf("import setup: %w", err)
	}
	roster, err := s.roster.Load(ctx, false)
	if err != nil {
		return member.Event{}, nil, fmt.Errorf("import setup: %w", err)
	}
	return event, roster, nil
}

// awardPlacements scores the finalized standings of a bracket. Order
// follows the entrant list as returned by the API.
func (s *Service) awardPlacements(ctx context.Context, sum *Summary, log logger.Logger, event member.Event, roster []member.Member, participants []challonge.Participant, dryRun bool) {
	for i, p := range participants {
		if p.FinalRank < 1 {
			continue
		}
		s.step(i+1, len(participants), p.Name)
		sum.Attempted++

		m, ok := resolve.Resolve(p.Name, roster)
		if !ok {
			sum.SkippedUnresolved++
			metrics.RecordResolverMiss()
			metrics.RecordLedgerSkip(skipUnresolved)
			log.Warn(ctx, "no roster match for entrant",
				logger.String("run_id", sum.RunID),
				logger.String("raw_name", p.Name),
			)
			continue
		}

		points := scoring.Points(p.FinalRank, event.Minor)
		if dryRun {
			log.Info(ctx, "dry run: would award placement",
				logger.String("member", m.Name),
				logger.Int("position", p.FinalRank),
				logger.Int("points", points),
			)
			continue
		}

		s.award(ctx, sum, log, ledger.Record{
			Key: ledger.Key{
				MemberID: m.ID,
				EventID:  event.ID,
				Kind:     ledger.KindPlacement,
			},
			Title:  event.Name,
			Points: points,
		}, m.Name)
	}
}

// matchResults joins the match list with the entrant names. Matches
// referencing unknown participant ids are dropped here; the detector
// handles names unknown to the roster.
func matchResults(participants []challonge.Participant, matches []challonge.Match) []member.MatchResult {
	names := make(map[int64]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}

	var out []member.MatchResult
	for _, m := range matches {
		winner, okW := names[m.WinnerID]
		loser, okL := names[m.LoserID]
		if !okW || !okL {
			continue
		}
		out = append(out, member.MatchResult{WinnerRawName: winner, LoserRawName: loser})
	}
	return out
}

// award reconciles one record against the ledger and tallies the
// outcome. Write failures are tolerated per item.
func (s *Service) award(ctx context.Context, sum *Summary, log logger.Logger, rec ledger.Record, memberName string) {
	written, err := s.recorder.RecordIfAbsent(ctx, rec)
	if err != nil {
		sum.Failed++
		metrics.RecordItemFailure()
		log.Error(ctx, "ledger write failed",
			logger.String("run_id", sum.RunID),
			logger.String("member", memberName),
			logger.String("kind", string(rec.Key.Kind)),
			logger.Error(err),
		)
		return
	}
	if !written {
		sum.SkippedDuplicate++
		metrics.RecordLedgerSkip(skipDuplicate)
		log.Info(ctx, "duplicate suppressed",
			logger.String("run_id", sum.RunID),
			logger.String("member", memberName),
			logger.String("kind", string(rec.Key.Kind)),
		)
		return
	}
	sum.Written++
	metrics.RecordLedgerWrite(string(rec.Key.Kind))
	log.Info(ctx, "record written",
		logger.String("run_id", sum.RunID),
		logger.String("member", memberName),
		logger.String("kind", string(rec.Key.Kind)),
		logger.Int("points", rec.Points),
	)
}
