package spreadsheet

import "errors"

// Sentinel kinds for standings parsing errors.
var (
	ErrNoSheet     = errors.New("workbook has no sheets")
	ErrNoEventName = errors.New("first cell must name the event")
)
