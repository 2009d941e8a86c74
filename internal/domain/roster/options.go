// Package roster caches the member directory fetched from the backend.
package roster

import "time"

// Option applies a configuration option to the Directory.
type Option func(*Directory)

// WithTTL sets the cache validity window.
func WithTTL(ttl time.Duration) Option {
	return func(d *Directory) {
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

// WithClock overrides the time source. Used by tests to step the TTL.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) {
		if now != nil {
			d.now = now
		}
	}
}
