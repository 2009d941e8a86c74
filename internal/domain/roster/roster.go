// Package roster caches the member directory fetched from the backend.
//
// The directory is read by every resolution call within an import run
// and must be fetched once per run, not once per row. Scores only change
// through writes this same console performs, so a short time-bounded
// cache across console interactions is safe.
package roster

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/rankdesk/internal/domain/member"
)

// Default cache validity window.
const defaultTTL = 5 * time.Minute

// Lister fetches the complete roster from the backend, draining any
// pagination internally. A page failure must fail the whole fetch so
// callers can tell an empty roster from a truncated one.
type Lister interface {
	ListMembers(ctx context.Context) ([]member.Member, error)
}

// Directory is a TTL-bounded snapshot of the roster. Ordering of the
// returned slice is not meaningful; callers must not rely on position.
type Directory struct {
	mu        sync.Mutex
	lister    Lister
	ttl       time.Duration
	now       func() time.Time
	snapshot  []member.Member
	fetchedAt time.Time
}

// NewDirectory creates a Directory over the given lister.
func NewDirectory(lister Lister, opts ...Option) *Directory {
	d := &Directory{
		lister: lister,
		ttl:    defaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Load returns the cached roster, refetching when the snapshot is
// missing, expired, or force is set. A fetch error is returned as-is;
// the stale snapshot is not silently substituted.
func (d *Directory) Load(ctx context.Context, force bool) ([]member.Member, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !force && d.snapshot != nil && d.now().Sub(d.fetchedAt) < d.ttl {
		return d.snapshot, nil
	}

	members, err := d.lister.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	d.snapshot = members
	d.fetchedAt = d.now()
	return d.snapshot, nil
}

// Invalidate drops the cached snapshot so the next Load refetches.
func (d *Directory) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.snapshot = nil
	d.fetchedAt = time.Time{}
}
