package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/okian/rankdesk/internal/domain/ledger"
	"github.com/okian/rankdesk/internal/domain/member"
	"github.com/okian/rankdesk/pkg/logger"
	"github.com/okian/rankdesk/pkg/metrics"
)

// Recompute rebuilds every member's total score, attendance and rank
// position from the full history ledger and patches the results back
// onto the member pages. Members whose score property is backend
// computed (rollup or formula) keep their score untouched and only
// receive attendance and rank.
//
// Per-member patch failures are tolerated; the run continues and the
// failures are tallied. The roster cache is invalidated afterwards
// since the stored scores have changed.
func (s *Service) Recompute(ctx context.Context) (*RecomputeSummary, error) {
	sum := &RecomputeSummary{RunID: uuid.NewString()}
	log := s.logger.Named("recompute")

	details, err := s.members.ListDetailed(ctx)
	if err != nil {
		return nil, fmt.Errorf("recompute: %w", err)
	}
	records, err := s.ledger.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("recompute: %w", err)
	}
	sum.Members = len(details)

	log.Info(ctx, "starting recompute",
		logger.String("run_id", sum.RunID),
		logger.Int("members", len(details)),
		logger.Int("ledger_records", len(records)),
	)

	totals := make(map[string]int, len(details))
	attended := make(map[string]map[string]struct{}, len(details))
	for _, rec := range records {
		if rec.MemberID == "" {
			continue
		}
		totals[rec.MemberID] += rec.Points
		if rec.Kind == string(ledger.KindPlacement) && rec.EventID != "" {
			if attended[rec.MemberID] == nil {
				attended[rec.MemberID] = make(map[string]struct{})
			}
			attended[rec.MemberID][rec.EventID] = struct{}{}
		}
	}

	// Rank by descending total; ties keep directory order.
	ranked := make([]string, len(details))
	for i, d := range details {
		ranked[i] = d.Member.ID
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return totals[ranked[i]] > totals[ranked[j]]
	})
	rankOf := make(map[string]int, len(ranked))
	for i, id := range ranked {
		rankOf[id] = i + 1
	}

	for i, d := range details {
		s.step(i+1, len(details), d.Member.Name)
		stats := member.Stats{
			Total:      totals[d.Member.ID],
			Attendance: len(attended[d.Member.ID]),
			Rank:       rankOf[d.Member.ID],
		}
		if err := s.members.UpdateStats(ctx, d.Member.ID, stats, d.ScoreWritable); err != nil {
			sum.Failed++
			metrics.RecordItemFailure()
			log.Error(ctx, "stats patch failed",
				logger.String("run_id", sum.RunID),
				logger.String("member", d.Member.Name),
				logger.Error(err),
			)
			continue
		}
		sum.Patched++
		metrics.RecordStatsRecomputed()
	}

	s.roster.Invalidate()
	log.Info(ctx, "recompute finished",
		logger.String("run_id", sum.RunID),
		logger.Int("patched", sum.Patched),
		logger.Int("failed", sum.Failed),
	)
	s.rememberRecompute(sum)
	return sum, nil
}
