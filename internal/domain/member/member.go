// Package member contains domain models passed between layers.
package member

// Member is a read-only snapshot of a roster entry held by the backend.
// Name is the sole matching key for free-text resolution; Score is the
// current rank score for the running season.
type Member struct {
	ID    string // opaque backend page identifier
	Name  string // display name, unique within the roster
	Score int    // current rank score
}

// Event identifies a competition looked up once per import run.
type Event struct {
	ID    string // opaque backend page identifier
	Name  string // event title as stored in the backend
	Type  string // category label, e.g. select option name
	Minor bool   // derived: Type contains the minor-event marker
}

// HistoryRecord is the unit of truth in the append-only score ledger.
// Records are created by the import orchestrators and never updated or
// deleted by this system.
type HistoryRecord struct {
	ID       string
	Title    string
	MemberID string
	EventID  string
	Points   int
	Kind     string // "placement" or "bonus"
}

// MatchResult is an ephemeral pairing sourced from the bracket API. Raw
// names are resolved against the roster before upset evaluation.
type MatchResult struct {
	WinnerRawName string
	LoserRawName  string
}

// Stats holds the recomputed per-member summary written back to the
// backend by the recompute flow.
type Stats struct {
	Total      int // sum of ledger points
	Attendance int // distinct events with a placement record
	Rank       int // 1-based position by descending total
}
