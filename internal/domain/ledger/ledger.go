// Package ledger reconciles score awards against the append-only history
// ledger so that repeated imports never double-award points.
//
// The check-then-write here is not atomic: two operators running the
// console against the same event at once can both observe "absent" and
// write twice. The console is a single-writer tool, so the pre-check
// query is the accepted guard; a hardened deployment would enforce the
// (member, event, kind) key on the backend side instead.
package ledger

import (
	"context"
	"fmt"
)

// Kind distinguishes the two record families in the ledger. Bonus
// records are keyed separately from placement records, so an upset
// bonus never suppresses a placement award or vice versa.
type Kind string

const (
	KindPlacement Kind = "placement"
	KindBonus     Kind = "bonus"
)

// Key identifies a ledger entry for duplicate suppression. Qualifier
// narrows bonus records to a specific upset (the beaten giant), letting
// two distinct upsets by the same member in one event both pay out.
type Key struct {
	MemberID  string
	EventID   string
	Kind      Kind
	Qualifier string
}

// Record is a pending ledger entry. Points for placements are scaled by
// the score policy; bonus points are fixed-value.
type Record struct {
	Key    Key
	Title  string
	Points int
}

// Store is the narrow ledger backend surface the reconciler needs.
type Store interface {
	// Exists reports whether an entry matching key is already present.
	// A query failure is an error, never a silent "absent".
	Exists(ctx context.Context, key Key) (bool, error)

	// Create appends a new entry. The ledger is never updated in place.
	Create(ctx context.Context, rec Record) error
}

// Reconciler guards ledger writes with a per-key existence check.
type Reconciler struct {
	store Store
}

// NewReconciler creates a Reconciler over the given store.
func NewReconciler(store Store) *Reconciler {
	return &Reconciler{store: store}
}

// RecordIfAbsent creates rec unless an entry with the same key already
// exists. It returns true when a new entry was written and false when
// the write was suppressed as a duplicate. Re-running a whole import is
// therefore safe: every suppressed row is reported, none is re-awarded.
func (r *Reconciler) RecordIfAbsent(ctx context.Context, rec Record) (bool, error) {
	if rec.Key.MemberID == "" || rec.Key.EventID == "" {
		return false, ErrIncompleteKey
	}

	exists, err := r.store.Exists(ctx, rec.Key)
	if err != nil {
		return false, fmt.Errorf("ledger lookup: %w", err)
	}
	if exists {
		return false, nil
	}

	if err := r.store.Create(ctx, rec); err != nil {
		return false, fmt.Errorf("ledger create: %w", err)
	}
	return true, nil
}
