package ledger

import "errors"

// Sentinel kinds for ledger errors.
var (
	ErrIncompleteKey = errors.New("ledger key missing member or event id")
)
