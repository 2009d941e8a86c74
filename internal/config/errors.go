package config

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMissingToken       = errors.New("notion_token is not set")
	ErrMissingDatabase    = errors.New("backend database ids are not set")
	ErrMissingBracketAuth = errors.New("challonge_username and challonge_api_key are not set")
)
