// Command rankdesk is the operator console for the community ranking
// program: it imports tournament results from standings workbooks and
// the bracket API, reconciles them into the history ledger and
// recomputes member rank and attendance.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/okian/rankdesk/internal/adapters/challonge"
	"github.com/okian/rankdesk/internal/adapters/http/api"
	"github.com/okian/rankdesk/internal/adapters/notion"
	"github.com/okian/rankdesk/internal/adapters/repository"
	"github.com/okian/rankdesk/internal/adapters/spreadsheet"
	service "github.com/okian/rankdesk/internal/app"
	"github.com/okian/rankdesk/internal/config"
	"github.com/okian/rankdesk/internal/console"
	"github.com/okian/rankdesk/internal/domain/ledger"
	"github.com/okian/rankdesk/internal/domain/roster"
	"github.com/okian/rankdesk/internal/domain/upset"
	"github.com/okian/rankdesk/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// runtime carries the loaded configuration and shared surfaces across
// subcommand actions.
type runtime struct {
	cfg     *config.Config
	printer *console.Printer
}

func newApp() *cli.App {
	rt := &runtime{printer: console.New()}

	return &cli.App{
		Name:  "rankdesk",
		Usage: "operator console for the community ranking program",
		Before: func(c *cli.Context) error {
			// Local overrides from .env; absence is not an error.
			_ = godotenv.Load()

			cfg, err := config.Load(c.Context)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			rt.cfg = cfg

			var logOpts []logger.Option
			if cfg.LogFile != "" {
				logOpts = append(logOpts, logger.WithFile(cfg.LogFile))
			}
			if err := logger.Init(logOpts...); err != nil {
				return fmt.Errorf("init logging: %w", err)
			}
			if err := logger.SetLevelString(cfg.LogLevel); err != nil {
				_ = logger.SetLevelString("info")
			}
			return nil
		},
		Commands: []*cli.Command{
			importCommand(rt),
			recomputeCommand(rt),
			rosterCommand(rt),
			serveCommand(rt),
		},
	}
}

func importCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "award points for one tournament",
		Subcommands: []*cli.Command{
			{
				Name:  "sheet",
				Usage: "import placements from a standings workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "path to the .xlsx standings workbook", Required: true},
					&cli.BoolFlag{Name: "dry-run", Usage: "resolve and score without writing"},
				},
				Action: func(c *cli.Context) error {
					st, err := spreadsheet.ReadFile(c.String("file"))
					if err != nil {
						return fmt.Errorf("read workbook: %w", err)
					}
					svc, err := rt.backendService()
					if err != nil {
						return err
					}
					sum, err := svc.ImportSheet(c.Context, st, c.Bool("dry-run"))
					if err != nil {
						return err
					}
					rt.printer.ImportSummary(sum)
					return nil
				},
			},
			{
				Name:  "bracket",
				Usage: "import placements and giant-killing bonuses from a bracket",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tournament", Usage: "bracket URL or slug", Required: true},
					&cli.StringFlag{Name: "event", Usage: "event name in the catalog", Required: true},
					&cli.BoolFlag{Name: "dry-run", Usage: "preview placements and upsets without writing"},
					&cli.BoolFlag{Name: "skip-bonus", Usage: "award placements only"},
					&cli.BoolFlag{Name: "bonus-only", Usage: "award giant-killing bonuses only"},
				},
				Action: func(c *cli.Context) error {
					if err := rt.cfg.RequireBracket(); err != nil {
						return err
					}
					svc, err := rt.backendService()
					if err != nil {
						return err
					}
					sum, err := svc.ImportBracket(c.Context,
						challonge.TournamentSlug(c.String("tournament")),
						c.String("event"),
						service.BracketOptions{
							DryRun:         c.Bool("dry-run"),
							SkipBonus:      c.Bool("skip-bonus"),
							SkipPlacements: c.Bool("bonus-only"),
						})
					if err != nil {
						return err
					}
					rt.printer.ImportSummary(sum)
					return nil
				},
			},
		},
	}
}

func recomputeCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "recompute",
		Usage: "rebuild every member's score, attendance and rank from the ledger",
		Action: func(c *cli.Context) error {
			svc, err := rt.backendService()
			if err != nil {
				return err
			}
			sum, err := svc.Recompute(c.Context)
			if err != nil {
				return err
			}
			rt.printer.RecomputeSummary(sum)
			return nil
		},
	}
}

func rosterCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "roster",
		Usage: "show the member directory",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "refresh", Usage: "bypass the directory cache"},
		},
		Action: func(c *cli.Context) error {
			if err := rt.cfg.RequireBackend(); err != nil {
				return err
			}
			dir := rt.newRoster()
			members, err := dir.Load(c.Context, c.Bool("refresh"))
			if err != nil {
				return err
			}
			rt.printer.Roster(members)
			return nil
		},
	}
}

func serveCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the status server (metrics, health, last-run stats)",
		Action: func(c *cli.Context) error {
			svc, err := rt.backendService()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			mux := http.NewServeMux()
			api.NewServer(svc).Register(ctx, mux)

			srv := &http.Server{
				Addr:              rt.cfg.StatusAddr,
				Handler:           mux,
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
				ReadHeaderTimeout: readHeaderTimeout,
			}

			log := logger.Get()
			errCh := make(chan error, 1)
			go func() {
				log.Info(ctx, "starting status server", logger.String("addr", rt.cfg.StatusAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("status server: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("status server shutdown: %w", err)
			}
			log.Info(ctx, "status server stopped")
			return nil
		},
	}
}

// backendService wires the full service graph from configuration. The
// bracket client is always attached; commands that need it check the
// credentials first via RequireBracket.
func (rt *runtime) backendService() (*service.Service, error) {
	cfg := rt.cfg
	if err := cfg.RequireBackend(); err != nil {
		return nil, err
	}

	backend := rt.newBackend()
	schema := cfg.Schema()
	members := repository.NewMemberStore(backend, cfg.MemberDatabaseID, schema)
	events := repository.NewEventStore(backend, cfg.EventDatabaseID, schema, cfg.MinorMarker)
	history := repository.NewLedgerStore(backend, cfg.HistoryDatabaseID, schema)

	dir := roster.NewDirectory(members,
		roster.WithTTL(time.Duration(cfg.RosterTTLSeconds)*time.Second),
	)
	detector := upset.New(
		upset.WithChallengerMax(cfg.ChallengerMax),
		upset.WithGiantMin(cfg.GiantMin),
		upset.WithBonus(cfg.UpsetBonus),
	)
	bracket := challonge.New(cfg.ChallongeUsername, cfg.ChallongeAPIKey,
		challonge.WithBaseURL(cfg.ChallongeBaseURL),
		challonge.WithTimeout(time.Duration(cfg.HTTPTimeoutSeconds)*time.Second),
	)

	return service.New(
		service.WithRoster(dir),
		service.WithEvents(events),
		service.WithRecorder(ledger.NewReconciler(history)),
		service.WithDetector(detector),
		service.WithBracket(bracket),
		service.WithMembers(members),
		service.WithLedgerReader(history),
		service.WithProgress(rt.printer.Progress()),
	), nil
}

func (rt *runtime) newBackend() *notion.Client {
	cfg := rt.cfg
	return notion.New(cfg.NotionToken,
		notion.WithBaseURL(cfg.NotionBaseURL),
		notion.WithAPIVersion(cfg.NotionVersion),
		notion.WithTimeout(time.Duration(cfg.HTTPTimeoutSeconds)*time.Second),
	)
}

func (rt *runtime) newRoster() *roster.Directory {
	members := repository.NewMemberStore(rt.newBackend(), rt.cfg.MemberDatabaseID, rt.cfg.Schema())
	return roster.NewDirectory(members,
		roster.WithTTL(time.Duration(rt.cfg.RosterTTLSeconds)*time.Second),
	)
}
