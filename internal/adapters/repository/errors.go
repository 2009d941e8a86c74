package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrEventNotFound  = errors.New("event not found")
	ErrAmbiguousEvent = errors.New("ambiguous event name")
)
