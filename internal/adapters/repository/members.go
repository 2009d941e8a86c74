package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/rankdesk/internal/adapters/notion"
	"github.com/okian/rankdesk/internal/domain/member"
	"github.com/okian/rankdesk/pkg/metrics"
)

// MemberStore reads and patches the member directory database.
type MemberStore struct {
	api        backendAPI
	databaseID string
	schema     Schema
}

// NewMemberStore creates a store over the member database.
func NewMemberStore(api backendAPI, databaseID string, schema Schema) *MemberStore {
	return &MemberStore{api: api, databaseID: databaseID, schema: schema}
}

// Detail pairs a roster member with write metadata from its page.
type Detail struct {
	Member member.Member
	// ScoreWritable is false when the score property is a rollup or
	// formula that only the backend recomputes; such members never
	// receive a score patch.
	ScoreWritable bool
}

// ListMembers fetches the full roster, draining pagination. Any page
// failure fails the whole fetch. Implements roster.Lister.
func (s *MemberStore) ListMembers(ctx context.Context) ([]member.Member, error) {
	details, err := s.ListDetailed(ctx)
	if err != nil {
		return nil, err
	}
	members := make([]member.Member, len(details))
	for i, d := range details {
		members[i] = d.Member
	}
	return members, nil
}

// ListDetailed fetches the full roster with per-page write metadata.
func (s *MemberStore) ListDetailed(ctx context.Context) ([]Detail, error) {
	pages, err := s.api.QueryDatabaseAll(ctx, s.databaseID, nil)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	metrics.RecordRosterRefresh()

	details := make([]Detail, 0, len(pages))
	for _, page := range pages {
		name := strings.TrimSpace(page.Properties[s.schema.MemberName].PlainText())
		if name == "" {
			// Untitled rows are placeholders, not members.
			continue
		}
		scoreProp := page.Properties[s.schema.MemberScore]
		score, _ := scoreProp.NumberValue()
		details = append(details, Detail{
			Member:        member.Member{ID: page.ID, Name: name, Score: int(score)},
			ScoreWritable: scoreProp.IsDirectNumber(),
		})
	}
	return details, nil
}

// UpdateStats patches the recomputed summary onto a member page. The
// score is only included when includeScore is set; attendance and rank
// are always written.
func (s *MemberStore) UpdateStats(ctx context.Context, memberID string, stats member.Stats, includeScore bool) error {
	props := map[string]notion.Property{
		s.schema.MemberAttendance: notion.NewNumber(float64(stats.Attendance)),
		s.schema.MemberRank:       notion.NewNumber(float64(stats.Rank)),
	}
	if includeScore {
		props[s.schema.MemberScore] = notion.NewNumber(float64(stats.Total))
	}
	if err := s.api.PatchPage(ctx, memberID, props); err != nil {
		return fmt.Errorf("update member stats: %w", err)
	}
	return nil
}
