package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/rankdesk/internal/adapters/challonge"
	"github.com/okian/rankdesk/internal/adapters/repository"
	"github.com/okian/rankdesk/internal/adapters/spreadsheet"
	service "github.com/okian/rankdesk/internal/app"
	"github.com/okian/rankdesk/internal/domain/ledger"
	"github.com/okian/rankdesk/internal/domain/member"
	"github.com/okian/rankdesk/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fakeRoster serves a fixed roster and counts invalidations.
type fakeRoster struct {
	members      []member.Member
	err          error
	invalidated  int
	loads        int
}

func (f *fakeRoster) Load(ctx context.Context, force bool) ([]member.Member, error) {
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	return f.members, nil
}

func (f *fakeRoster) Invalidate() { f.invalidated++ }

// fakeEvents serves one event by name.
type fakeEvents struct {
	event member.Event
	err   error
}

func (f *fakeEvents) FindByName(ctx context.Context, name string) (member.Event, error) {
	if f.err != nil {
		return member.Event{}, f.err
	}
	return f.event, nil
}

// memLedger is an in-memory ledger.Store shared across runs.
type memLedger struct {
	entries map[ledger.Key]ledger.Record
}

func newMemLedger() *memLedger {
	return &memLedger{entries: make(map[ledger.Key]ledger.Record)}
}

func (s *memLedger) Exists(ctx context.Context, key ledger.Key) (bool, error) {
	_, ok := s.entries[key]
	return ok, nil
}

func (s *memLedger) Create(ctx context.Context, rec ledger.Record) error {
	s.entries[rec.Key] = rec
	return nil
}

func (s *memLedger) pointsFor(memberID string) int {
	total := 0
	for _, rec := range s.entries {
		if rec.Key.MemberID == memberID {
			total += rec.Points
		}
	}
	return total
}

// fakeBracket serves fixed participants and matches.
type fakeBracket struct {
	participants []challonge.Participant
	matches      []challonge.Match
	err          error
}

func (f *fakeBracket) Participants(ctx context.Context, tournament string) ([]challonge.Participant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.participants, nil
}

func (f *fakeBracket) Matches(ctx context.Context, tournament string) ([]challonge.Match, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

// fakeMembers records stat patches.
type fakeMembers struct {
	details []repository.Detail
	patches map[string]member.Stats
	scored  map[string]bool
	failFor string
}

func (f *fakeMembers) ListDetailed(ctx context.Context) ([]repository.Detail, error) {
	return f.details, nil
}

func (f *fakeMembers) UpdateStats(ctx context.Context, memberID string, stats member.Stats, includeScore bool) error {
	if memberID == f.failFor {
		return errors.New("patch rejected")
	}
	if f.patches == nil {
		f.patches = make(map[string]member.Stats)
		f.scored = make(map[string]bool)
	}
	f.patches[memberID] = stats
	f.scored[memberID] = includeScore
	return nil
}

// fakeHistory serves fixed ledger records to recompute.
type fakeHistory struct {
	records []member.HistoryRecord
}

func (f *fakeHistory) ListAll(ctx context.Context) ([]member.HistoryRecord, error) {
	return f.records, nil
}

func seventeenRoster() []member.Member {
	out := make([]member.Member, 17)
	for i := range out {
		out[i] = member.Member{
			ID:    fmt.Sprintf("m%02d", i+1),
			Name:  fmt.Sprintf("Player%02d", i+1),
			Score: 50,
		}
	}
	return out
}

func seventeenStandings() *spreadsheet.Standings {
	st := &spreadsheet.Standings{EventName: "Spring Open"}
	for i := 0; i < 17; i++ {
		st.Entries = append(st.Entries, spreadsheet.Entry{
			Position: i + 1,
			RawName:  fmt.Sprintf("TAG %s [1]", fmt.Sprintf("Player%02d", i+1)),
		})
	}
	return st
}

func TestImportSheet(t *testing.T) {
	Convey("Given a seventeen-row standings sheet for a major event", t, func() {
		store := newMemLedger()
		roster := &fakeRoster{members: seventeenRoster()}
		svc := service.New(
			service.WithRoster(roster),
			service.WithEvents(&fakeEvents{event: member.Event{ID: "e1", Name: "Spring Open", Minor: false}}),
			service.WithRecorder(ledger.NewReconciler(store)),
		)
		ctx := context.Background()

		Convey("When the sheet is imported", func() {
			sum, err := svc.ImportSheet(ctx, seventeenStandings(), false)

			Convey("Then every row is written once", func() {
				So(err, ShouldBeNil)
				So(sum.Attempted, ShouldEqual, 17)
				So(sum.Written, ShouldEqual, 17)
				So(sum.SkippedDuplicate, ShouldEqual, 0)
				So(sum.SkippedUnresolved, ShouldEqual, 0)
				So(sum.Failed, ShouldEqual, 0)
			})

			Convey("And the score table pays each band", func() {
				So(err, ShouldBeNil)
				want := []int{25, 20, 16, 16, 10, 10, 10, 10, 5, 5, 5, 5, 5, 5, 5, 5, 2}
				for i, points := range want {
					So(store.pointsFor(fmt.Sprintf("m%02d", i+1)), ShouldEqual, points)
				}
			})

			Convey("And re-running the same sheet writes nothing", func() {
				So(err, ShouldBeNil)
				again, err := svc.ImportSheet(ctx, seventeenStandings(), false)
				So(err, ShouldBeNil)
				So(again.Written, ShouldEqual, 0)
				So(again.SkippedDuplicate, ShouldEqual, 17)
				So(len(store.entries), ShouldEqual, 17)
			})
		})

		Convey("When the sheet is imported as a dry run", func() {
			sum, err := svc.ImportSheet(ctx, seventeenStandings(), true)

			Convey("Then resolution and scoring run but nothing is written", func() {
				So(err, ShouldBeNil)
				So(sum.DryRun, ShouldBeTrue)
				So(sum.Written, ShouldEqual, 0)
				So(len(store.entries), ShouldEqual, 0)
			})
		})

		Convey("When a row cannot be resolved", func() {
			st := seventeenStandings()
			st.Entries[4].RawName = "Mystery Guest"
			sum, err := svc.ImportSheet(ctx, st, false)

			Convey("Then the row is skipped and the batch continues", func() {
				So(err, ShouldBeNil)
				So(sum.SkippedUnresolved, ShouldEqual, 1)
				So(sum.Written, ShouldEqual, 16)
			})
		})

		Convey("When the event lookup fails", func() {
			svc := service.New(
				service.WithRoster(roster),
				service.WithEvents(&fakeEvents{err: repository.ErrAmbiguousEvent}),
				service.WithRecorder(ledger.NewReconciler(store)),
			)
			_, err := svc.ImportSheet(ctx, seventeenStandings(), false)

			Convey("Then the whole batch aborts before any write", func() {
				So(errors.Is(err, repository.ErrAmbiguousEvent), ShouldBeTrue)
				So(len(store.entries), ShouldEqual, 0)
			})
		})

		Convey("When the roster cannot be fetched", func() {
			roster.err = errors.New("page 2 unavailable")
			_, err := svc.ImportSheet(ctx, seventeenStandings(), false)

			So(err, ShouldNotBeNil)
			So(len(store.entries), ShouldEqual, 0)
		})
	})

	Convey("Given the same standings at a minor event", t, func() {
		store := newMemLedger()
		svc := service.New(
			service.WithRoster(&fakeRoster{members: seventeenRoster()}),
			service.WithEvents(&fakeEvents{event: member.Event{ID: "e2", Name: "Weekly #12", Minor: true}}),
			service.WithRecorder(ledger.NewReconciler(store)),
		)

		Convey("When the sheet is imported", func() {
			_, err := svc.ImportSheet(context.Background(), seventeenStandings(), false)

			Convey("Then every award is halved rounding up", func() {
				So(err, ShouldBeNil)
				So(store.pointsFor("m01"), ShouldEqual, 13)
				So(store.pointsFor("m02"), ShouldEqual, 10)
				So(store.pointsFor("m03"), ShouldEqual, 8)
				So(store.pointsFor("m05"), ShouldEqual, 5)
				So(store.pointsFor("m09"), ShouldEqual, 3)
				So(store.pointsFor("m17"), ShouldEqual, 1)
			})
		})
	})
}

func TestImportBracket(t *testing.T) {
	roster := []member.Member{
		{ID: "m1", Name: "Challenger", Score: 50},
		{ID: "m2", Name: "Giant", Score: 120},
		{ID: "m3", Name: "Third", Score: 80},
	}
	participants := []challonge.Participant{
		{ID: 11, Name: "TAG Challenger [1]", FinalRank: 1},
		{ID: 12, Name: "Giant", FinalRank: 2},
		{ID: 13, Name: "Third", FinalRank: 3},
		{ID: 14, Name: "Dropout", FinalRank: 0},
	}
	matches := []challonge.Match{
		{WinnerID: 11, LoserID: 12}, // challenger kills the giant
		{WinnerID: 12, LoserID: 13},
		{WinnerID: 99, LoserID: 12}, // unknown participant id
	}

	Convey("Given a finalized bracket with one giant killing", t, func() {
		store := newMemLedger()
		svc := service.New(
			service.WithRoster(&fakeRoster{members: roster}),
			service.WithEvents(&fakeEvents{event: member.Event{ID: "e1", Name: "Spring Open", Minor: false}}),
			service.WithRecorder(ledger.NewReconciler(store)),
			service.WithBracket(&fakeBracket{participants: participants, matches: matches}),
		)
		ctx := context.Background()

		Convey("When the bracket is imported", func() {
			sum, err := svc.ImportBracket(ctx, "spring-open", "Spring Open", service.BracketOptions{})

			Convey("Then placements and the bonus are written", func() {
				So(err, ShouldBeNil)
				So(sum.Upsets, ShouldHaveLength, 1)
				So(sum.Upsets[0].Winner.ID, ShouldEqual, "m1")
				So(sum.Upsets[0].Loser.ID, ShouldEqual, "m2")
				// 3 placements + 1 bonus; the unranked entrant earns nothing.
				So(sum.Written, ShouldEqual, 4)
				So(store.pointsFor("m1"), ShouldEqual, 30) // 25 + 5 bonus
				So(store.pointsFor("m2"), ShouldEqual, 20)
				So(store.pointsFor("m3"), ShouldEqual, 16)
			})

			Convey("And the bonus is keyed by the beaten giant", func() {
				So(err, ShouldBeNil)
				bonus, ok := store.entries[ledger.Key{
					MemberID:  "m1",
					EventID:   "e1",
					Kind:      ledger.KindBonus,
					Qualifier: "Giant",
				}]
				So(ok, ShouldBeTrue)
				So(bonus.Points, ShouldEqual, 5)
				So(bonus.Title, ShouldContainSubstring, "Giant Killing")
			})

			Convey("And re-running the bracket writes nothing", func() {
				So(err, ShouldBeNil)
				again, err := svc.ImportBracket(ctx, "spring-open", "Spring Open", service.BracketOptions{})
				So(err, ShouldBeNil)
				So(again.Written, ShouldEqual, 0)
				So(again.SkippedDuplicate, ShouldEqual, 4)
			})
		})

		Convey("When bonuses are skipped", func() {
			sum, err := svc.ImportBracket(ctx, "spring-open", "Spring Open", service.BracketOptions{SkipBonus: true})

			Convey("Then the upset is still previewed but not paid", func() {
				So(err, ShouldBeNil)
				So(sum.Upsets, ShouldHaveLength, 1)
				So(sum.Written, ShouldEqual, 3)
				So(store.pointsFor("m1"), ShouldEqual, 25)
			})
		})

		Convey("When placements are skipped", func() {
			sum, err := svc.ImportBracket(ctx, "spring-open", "Spring Open", service.BracketOptions{SkipPlacements: true})

			So(err, ShouldBeNil)
			So(sum.Written, ShouldEqual, 1)
			So(store.pointsFor("m1"), ShouldEqual, 5)
		})

		Convey("When the run is a dry run", func() {
			sum, err := svc.ImportBracket(ctx, "spring-open", "Spring Open", service.BracketOptions{DryRun: true})

			Convey("Then the upset preview is produced without writes", func() {
				So(err, ShouldBeNil)
				So(sum.Upsets, ShouldHaveLength, 1)
				So(sum.Written, ShouldEqual, 0)
				So(len(store.entries), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a bracket API that fails", t, func() {
		store := newMemLedger()
		svc := service.New(
			service.WithRoster(&fakeRoster{members: roster}),
			service.WithEvents(&fakeEvents{event: member.Event{ID: "e1", Name: "Spring Open"}}),
			service.WithRecorder(ledger.NewReconciler(store)),
			service.WithBracket(&fakeBracket{err: challonge.ErrAuth}),
		)

		Convey("When the import is attempted", func() {
			_, err := svc.ImportBracket(context.Background(), "spring-open", "Spring Open", service.BracketOptions{})

			Convey("Then it aborts before any write", func() {
				So(errors.Is(err, challonge.ErrAuth), ShouldBeTrue)
				So(len(store.entries), ShouldEqual, 0)
			})
		})
	})
}

func TestRecompute(t *testing.T) {
	Convey("Given a ledger with placements and a bonus", t, func() {
		roster := &fakeRoster{}
		members := &fakeMembers{details: []repository.Detail{
			{Member: member.Member{ID: "m1", Name: "Challenger"}, ScoreWritable: true},
			{Member: member.Member{ID: "m2", Name: "Giant"}, ScoreWritable: false},
			{Member: member.Member{ID: "m3", Name: "Idle"}, ScoreWritable: true},
		}}
		history := &fakeHistory{records: []member.HistoryRecord{
			{MemberID: "m1", EventID: "e1", Points: 25, Kind: "placement"},
			{MemberID: "m1", EventID: "e1", Points: 5, Kind: "bonus"},
			{MemberID: "m1", EventID: "e2", Points: 10, Kind: "placement"},
			{MemberID: "m2", EventID: "e1", Points: 20, Kind: "placement"},
			{MemberID: "", EventID: "e1", Points: 99, Kind: "placement"}, // orphaned row
		}}
		svc := service.New(
			service.WithRoster(roster),
			service.WithMembers(members),
			service.WithLedgerReader(history),
		)
		ctx := context.Background()

		Convey("When the recompute runs", func() {
			sum, err := svc.Recompute(ctx)

			Convey("Then totals sum every record and attendance counts distinct placement events", func() {
				So(err, ShouldBeNil)
				So(sum.Patched, ShouldEqual, 3)
				So(members.patches["m1"], ShouldResemble, member.Stats{Total: 40, Attendance: 2, Rank: 1})
				So(members.patches["m2"], ShouldResemble, member.Stats{Total: 20, Attendance: 1, Rank: 2})
				So(members.patches["m3"], ShouldResemble, member.Stats{Total: 0, Attendance: 0, Rank: 3})
			})

			Convey("And computed scores stay untouched", func() {
				So(err, ShouldBeNil)
				So(members.scored["m1"], ShouldBeTrue)
				So(members.scored["m2"], ShouldBeFalse)
			})

			Convey("And the roster cache is invalidated", func() {
				So(err, ShouldBeNil)
				So(roster.invalidated, ShouldEqual, 1)
			})
		})

		Convey("When one member's patch fails", func() {
			members.failFor = "m2"
			sum, err := svc.Recompute(ctx)

			Convey("Then the run continues and tallies the failure", func() {
				So(err, ShouldBeNil)
				So(sum.Patched, ShouldEqual, 2)
				So(sum.Failed, ShouldEqual, 1)
				So(members.patches, ShouldContainKey, "m3")
			})
		})
	})
}
