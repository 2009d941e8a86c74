package config

import (
	"context"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/rankdesk/internal/adapters/repository"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if RANKDESK_CONFIG is set
//  3. env (prefix RANKDESK_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("RANKDESK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: RANKDESK_NOTION_TOKEN, RANKDESK_LOG_LEVEL, ...
	// Map env keys like RANKDESK_ROSTER_TTL_SECONDS -> roster_ttl_seconds.
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("RANKDESK_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "rankdesk_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Schema assembles the backend property schema from the loaded names.
func (c *Config) Schema() repository.Schema {
	return repository.Schema{
		MemberName:       c.MemberNameProperty,
		MemberScore:      c.MemberScoreProperty,
		MemberAttendance: c.MemberAttendanceProperty,
		MemberRank:       c.MemberRankProperty,
		EventName:        c.EventNameProperty,
		EventType:        c.EventTypeProperty,
		HistoryTitle:     c.HistoryTitleProperty,
		HistoryMember:    c.HistoryMemberProperty,
		HistoryEvent:     c.HistoryEventProperty,
		HistoryPoints:    c.HistoryPointsProperty,
		HistoryKind:      c.HistoryKindProperty,
	}
}
