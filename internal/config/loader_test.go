package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	config "github.com/okian/rankdesk/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		for _, key := range []string{
			"RANKDESK_CONFIG",
			"RANKDESK_NOTION_TOKEN",
			"RANKDESK_LOG_LEVEL",
			"RANKDESK_ROSTER_TTL_SECONDS",
			"RANKDESK_MEMBER_SCORE_PROPERTY",
			"RANKDESK_UPSET_BONUS",
		} {
			So(os.Unsetenv(key), ShouldBeNil)
		}
		ctx := context.Background()

		Convey("When nothing overrides the defaults", func() {
			cfg, err := config.Load(ctx)

			Convey("Then the defaults apply", func() {
				So(err, ShouldBeNil)
				So(cfg.LogLevel, ShouldEqual, "info")
				So(cfg.StatusAddr, ShouldEqual, ":9465")
				So(cfg.RosterTTLSeconds, ShouldEqual, 300)
				So(cfg.ChallengerMax, ShouldEqual, 99)
				So(cfg.GiantMin, ShouldEqual, 100)
				So(cfg.UpsetBonus, ShouldEqual, 5)
				So(cfg.MinorMarker, ShouldEqual, "งานย่อย")
			})

			Convey("And no secret is ever defaulted", func() {
				So(err, ShouldBeNil)
				So(cfg.NotionToken, ShouldBeEmpty)
				So(cfg.ChallongeAPIKey, ShouldBeEmpty)
			})
		})

		Convey("When environment variables override", func() {
			So(os.Setenv("RANKDESK_NOTION_TOKEN", "secret_abc"), ShouldBeNil)
			So(os.Setenv("RANKDESK_LOG_LEVEL", "debug"), ShouldBeNil)
			So(os.Setenv("RANKDESK_ROSTER_TTL_SECONDS", "60"), ShouldBeNil)
			So(os.Setenv("RANKDESK_MEMBER_SCORE_PROPERTY", "Season Score"), ShouldBeNil)
			defer func() {
				_ = os.Unsetenv("RANKDESK_NOTION_TOKEN")
				_ = os.Unsetenv("RANKDESK_LOG_LEVEL")
				_ = os.Unsetenv("RANKDESK_ROSTER_TTL_SECONDS")
				_ = os.Unsetenv("RANKDESK_MEMBER_SCORE_PROPERTY")
			}()

			cfg, err := config.Load(ctx)

			Convey("Then env wins over the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.NotionToken, ShouldEqual, "secret_abc")
				So(cfg.LogLevel, ShouldEqual, "debug")
				So(cfg.RosterTTLSeconds, ShouldEqual, 60)
				So(cfg.MemberScoreProperty, ShouldEqual, "Season Score")
				So(cfg.StatusAddr, ShouldEqual, ":9465")
			})

			Convey("And the schema mapper carries the override", func() {
				So(err, ShouldBeNil)
				So(cfg.Schema().MemberScore, ShouldEqual, "Season Score")
			})
		})

		Convey("When a YAML file sits under an env override", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "rankdesk.yaml")
			body := "log_level: warn\nupset_bonus: 7\n"
			So(os.WriteFile(path, []byte(body), 0o600), ShouldBeNil)
			So(os.Setenv("RANKDESK_CONFIG", path), ShouldBeNil)
			So(os.Setenv("RANKDESK_LOG_LEVEL", "error"), ShouldBeNil)
			defer func() {
				_ = os.Unsetenv("RANKDESK_CONFIG")
				_ = os.Unsetenv("RANKDESK_LOG_LEVEL")
			}()

			cfg, err := config.Load(ctx)

			Convey("Then env beats file beats defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.LogLevel, ShouldEqual, "error")
				So(cfg.UpsetBonus, ShouldEqual, 7)
				So(cfg.GiantMin, ShouldEqual, 100)
			})
		})

		Convey("When the config file is missing", func() {
			So(os.Setenv("RANKDESK_CONFIG", filepath.Join(t.TempDir(), "absent.yaml")), ShouldBeNil)
			defer func() { _ = os.Unsetenv("RANKDESK_CONFIG") }()

			_, err := config.Load(ctx)

			So(err, ShouldNotBeNil)
		})
	})
}

func TestRequirements(t *testing.T) {
	Convey("Given a default configuration", t, func() {
		cfg := config.New(context.Background())

		Convey("When no token is set", func() {
			So(errors.Is(cfg.RequireBackend(), config.ErrMissingToken), ShouldBeTrue)
		})

		Convey("When the token is set but a database id is blanked", func() {
			cfg.NotionToken = "secret_abc"
			cfg.HistoryDatabaseID = ""
			So(errors.Is(cfg.RequireBackend(), config.ErrMissingDatabase), ShouldBeTrue)
		})

		Convey("When the backend settings are complete", func() {
			cfg.NotionToken = "secret_abc"
			So(cfg.RequireBackend(), ShouldBeNil)
		})

		Convey("When bracket credentials are missing", func() {
			So(errors.Is(cfg.RequireBracket(), config.ErrMissingBracketAuth), ShouldBeTrue)
		})

		Convey("When bracket credentials are present", func() {
			cfg.ChallongeUsername = "operator"
			cfg.ChallongeAPIKey = "api-key"
			So(cfg.RequireBracket(), ShouldBeNil)
		})
	})
}
