// Package service wires the domain components into the operator flows:
// spreadsheet import, bracket import and the rank/attendance recompute.
package service

import (
	"context"
	"sync"

	"github.com/okian/rankdesk/internal/adapters/challonge"
	"github.com/okian/rankdesk/internal/adapters/repository"
	"github.com/okian/rankdesk/internal/domain/ledger"
	"github.com/okian/rankdesk/internal/domain/member"
	"github.com/okian/rankdesk/internal/domain/upset"
	"github.com/okian/rankdesk/pkg/logger"
)

// RosterSource is the member directory cache surface the flows use.
type RosterSource interface {
	Load(ctx context.Context, force bool) ([]member.Member, error)
	Invalidate()
}

// EventFinder resolves an event name to its catalog entry.
type EventFinder interface {
	FindByName(ctx context.Context, name string) (member.Event, error)
}

// Recorder guards ledger writes with duplicate suppression.
type Recorder interface {
	RecordIfAbsent(ctx context.Context, rec ledger.Record) (bool, error)
}

// Bracket reads entrants and completed matches from the bracket API.
type Bracket interface {
	Participants(ctx context.Context, tournament string) ([]challonge.Participant, error)
	Matches(ctx context.Context, tournament string) ([]challonge.Match, error)
}

// MemberWriter patches recomputed summaries onto member pages.
type MemberWriter interface {
	ListDetailed(ctx context.Context) ([]repository.Detail, error)
	UpdateStats(ctx context.Context, memberID string, stats member.Stats, includeScore bool) error
}

// LedgerReader reads the whole history ledger for recompute.
type LedgerReader interface {
	ListAll(ctx context.Context) ([]member.HistoryRecord, error)
}

// ProgressFunc reports batch progress to the console surface. label is
// the item being processed.
type ProgressFunc func(current, total int, label string)

// Service implements the operator flows over injected collaborators.
// Every batch is processed strictly sequentially in input order; there
// is exactly one writer, which is what makes the reconciler's
// check-then-write guard sound.
type Service struct {
	roster   RosterSource
	events   EventFinder
	recorder Recorder
	detector *upset.Detector
	bracket  Bracket
	members  MemberWriter
	ledger   LedgerReader
	progress ProgressFunc
	logger   logger.Logger

	// Most recent runs, exposed by the status endpoint.
	mu            sync.RWMutex
	lastImport    *Summary
	lastRecompute *RecomputeSummary
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRoster sets the member directory cache.
func WithRoster(r RosterSource) Option {
	return func(s *Service) { s.roster = r }
}

// WithEvents sets the event catalog lookup.
func WithEvents(e EventFinder) Option {
	return func(s *Service) { s.events = e }
}

// WithRecorder sets the ledger reconciler.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithDetector sets the giant-killing detector.
func WithDetector(d *upset.Detector) Option {
	return func(s *Service) { s.detector = d }
}

// WithBracket sets the bracket API client.
func WithBracket(b Bracket) Option {
	return func(s *Service) { s.bracket = b }
}

// WithMembers sets the member page writer used by recompute.
func WithMembers(m MemberWriter) Option {
	return func(s *Service) { s.members = m }
}

// WithLedgerReader sets the full-ledger reader used by recompute.
func WithLedgerReader(l LedgerReader) Option {
	return func(s *Service) { s.ledger = l }
}

// WithProgress sets the per-item progress callback.
func WithProgress(p ProgressFunc) Option {
	return func(s *Service) { s.progress = p }
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service from options.
func New(opts ...Option) *Service {
	s := &Service{
		detector: upset.New(),
		progress: func(int, int, string) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

func (s *Service) step(current, total int, label string) {
	if s.progress != nil {
		s.progress(current, total, label)
	}
}
