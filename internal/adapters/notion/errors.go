package notion

import "errors"

// Sentinel kinds for backend errors. ErrStatus covers non-2xx replies
// and carries the upstream status and body; ErrUnavailable covers
// transport failures before any reply arrived.
var (
	ErrStatus      = errors.New("backend status")
	ErrUnavailable = errors.New("backend unavailable")
)
