package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/rankdesk/internal/adapters/notion"
	"github.com/okian/rankdesk/internal/domain/ledger"
	"github.com/okian/rankdesk/internal/domain/member"
)

// LedgerStore reads and appends the history ledger database. It
// implements ledger.Store.
type LedgerStore struct {
	api        backendAPI
	databaseID string
	schema     Schema
}

// NewLedgerStore creates a store over the history database.
func NewLedgerStore(api backendAPI, databaseID string, schema Schema) *LedgerStore {
	return &LedgerStore{api: api, databaseID: databaseID, schema: schema}
}

// Exists reports whether an entry matching key is already present,
// using relation containment on the member and event references plus
// the kind select. Bonus keys additionally narrow by qualifier so two
// distinct upsets in one event stay distinguishable.
func (s *LedgerStore) Exists(ctx context.Context, key ledger.Key) (bool, error) {
	filters := []notion.Filter{
		{Property: s.schema.HistoryMember, Relation: &notion.RelationCondition{Contains: key.MemberID}},
		{Property: s.schema.HistoryEvent, Relation: &notion.RelationCondition{Contains: key.EventID}},
		{Property: s.schema.HistoryKind, Select: &notion.SelectCondition{Equals: string(key.Kind)}},
	}
	if key.Qualifier != "" {
		filters = append(filters, notion.Filter{
			Property: s.schema.HistoryTitle,
			Title:    &notion.TextCondition{Contains: key.Qualifier},
		})
	}

	res, err := s.api.QueryDatabase(ctx, s.databaseID, notion.Query{
		Filter:   notion.And(filters...),
		PageSize: 1,
	})
	if err != nil {
		return false, fmt.Errorf("ledger exists: %w", err)
	}
	return len(res.Results) > 0, nil
}

// Create appends a new ledger entry.
func (s *LedgerStore) Create(ctx context.Context, rec ledger.Record) error {
	props := map[string]notion.Property{
		s.schema.HistoryTitle:  notion.NewTitle(rec.Title),
		s.schema.HistoryMember: notion.NewRelation(rec.Key.MemberID),
		s.schema.HistoryEvent:  notion.NewRelation(rec.Key.EventID),
		s.schema.HistoryPoints: notion.NewNumber(float64(rec.Points)),
		s.schema.HistoryKind:   notion.NewSelect(string(rec.Key.Kind)),
	}
	if err := s.api.CreatePage(ctx, s.databaseID, props); err != nil {
		return fmt.Errorf("ledger create: %w", err)
	}
	return nil
}

// ListAll fetches the entire ledger, draining pagination. Used by the
// recompute flow to rebuild totals and attendance.
func (s *LedgerStore) ListAll(ctx context.Context) ([]member.HistoryRecord, error) {
	pages, err := s.api.QueryDatabaseAll(ctx, s.databaseID, nil)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}

	records := make([]member.HistoryRecord, 0, len(pages))
	for _, page := range pages {
		points, _ := page.Properties[s.schema.HistoryPoints].NumberValue()
		records = append(records, member.HistoryRecord{
			ID:       page.ID,
			Title:    strings.TrimSpace(page.Properties[s.schema.HistoryTitle].PlainText()),
			MemberID: page.Properties[s.schema.HistoryMember].FirstRelation(),
			EventID:  page.Properties[s.schema.HistoryEvent].FirstRelation(),
			Points:   int(points),
			Kind:     page.Properties[s.schema.HistoryKind].SelectName(),
		})
	}
	return records, nil
}
