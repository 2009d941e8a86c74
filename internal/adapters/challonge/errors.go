package challonge

import "errors"

// Sentinel kinds for bracket API errors. ErrAuth is fatal for the
// current operation and carries the upstream status and body.
var (
	ErrAuth        = errors.New("bracket api auth")
	ErrStatus      = errors.New("bracket api status")
	ErrUnavailable = errors.New("bracket api unavailable")
)
