// Package config defines console configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - Secrets are never defaulted in source; they come from the
//   environment (or a .env file loaded at process start).
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile mirrors console output into a rotated audit log.
	// Empty disables the file sink.
	LogFile string `koanf:"log_file"`

	// StatusAddr is the optional status/metrics listen address for the
	// serve command, e.g. ":9465".
	StatusAddr string `koanf:"status_addr"`

	// NotionToken authenticates against the document-store backend.
	// Secret; environment only.
	NotionToken string `koanf:"notion_token"`

	// NotionBaseURL and NotionVersion pin the backend endpoint.
	NotionBaseURL string `koanf:"notion_base_url"`
	NotionVersion string `koanf:"notion_version"`

	// Database identifiers of the member roster, history ledger and
	// event catalog.
	MemberDatabaseID  string `koanf:"member_database_id"`
	HistoryDatabaseID string `koanf:"history_database_id"`
	EventDatabaseID   string `koanf:"event_database_id"`

	// Bracket API credentials. The username is the account login; the
	// key is secret and environment only.
	ChallongeBaseURL  string `koanf:"challonge_base_url"`
	ChallongeUsername string `koanf:"challonge_username"`
	ChallongeAPIKey   string `koanf:"challonge_api_key"`

	// HTTPTimeoutSeconds bounds every outbound request.
	HTTPTimeoutSeconds int `koanf:"http_timeout_seconds"`

	// RosterTTLSeconds bounds the member directory cache validity.
	RosterTTLSeconds int `koanf:"roster_ttl_seconds"`

	// MinorMarker is the event-type substring flagging half-point
	// events.
	MinorMarker string `koanf:"minor_marker"`

	// Giant-killing season bands and bonus.
	ChallengerMax int `koanf:"challenger_max"`
	GiantMin      int `koanf:"giant_min"`
	UpsetBonus    int `koanf:"upset_bonus"`

	// Backend property names. Defaults match the production workspace.
	MemberNameProperty       string `koanf:"member_name_property"`
	MemberScoreProperty      string `koanf:"member_score_property"`
	MemberAttendanceProperty string `koanf:"member_attendance_property"`
	MemberRankProperty       string `koanf:"member_rank_property"`
	EventNameProperty        string `koanf:"event_name_property"`
	EventTypeProperty        string `koanf:"event_type_property"`
	HistoryTitleProperty     string `koanf:"history_title_property"`
	HistoryMemberProperty    string `koanf:"history_member_property"`
	HistoryEventProperty     string `koanf:"history_event_property"`
	HistoryPointsProperty    string `koanf:"history_points_property"`
	HistoryKindProperty      string `koanf:"history_kind_property"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use
// and currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFile:            "",
		StatusAddr:         ":9465",
		NotionBaseURL:      "https://api.notion.com/v1",
		NotionVersion:      "2022-06-28",
		MemberDatabaseID:   "271e6d24b97d80289175eef889a90a09",
		HistoryDatabaseID:  "2b1e6d24b97d803786c2ec7011c995ef",
		EventDatabaseID:    "26fe6d24b97d80e1bdb3c2452a31694c",
		ChallongeBaseURL:   "https://api.challonge.com/v1",
		HTTPTimeoutSeconds: 20,
		RosterTTLSeconds:   300,
		MinorMarker:        "งานย่อย",
		ChallengerMax:      99,
		GiantMin:           100,
		UpsetBonus:         5,

		MemberNameProperty:       "ชื่อ",
		MemberScoreProperty:      "คะแนน Rank SS2",
		MemberAttendanceProperty: "จำนวนงาน",
		MemberRankProperty:       "อันดับ",
		EventNameProperty:        "ชื่อกิจกรรม",
		EventTypeProperty:        "ประเภทงาน",
		HistoryTitleProperty:     "Name",
		HistoryMemberProperty:    "สมาชิกแรงค์",
		HistoryEventProperty:     "ชื่องานแข่ง",
		HistoryPointsProperty:    "คะแนนที่บวก",
		HistoryKindProperty:      "ประเภทรายการ",
	}
}

// RequireBackend verifies the settings every backend-touching command
// needs.
func (c *Config) RequireBackend() error {
	if c.NotionToken == "" {
		return ErrMissingToken
	}
	if c.MemberDatabaseID == "" || c.HistoryDatabaseID == "" || c.EventDatabaseID == "" {
		return ErrMissingDatabase
	}
	return nil
}

// RequireBracket verifies the bracket API credentials needed by bracket
// imports.
func (c *Config) RequireBracket() error {
	if c.ChallongeUsername == "" || c.ChallongeAPIKey == "" {
		return ErrMissingBracketAuth
	}
	return nil
}
