package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/repositories"
	"github.com/desertthunder/bookmedia/internal/services"
	"github.com/desertthunder/bookmedia/internal/shared"
	"github.com/desertthunder/bookmedia/internal/stats"
	"github.com/desertthunder/bookmedia/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The store is opened on first use so commands that never touch the library (setup, help) do not create a
// database file.
type Runner struct {
	config     *shared.Config
	configPath string
	store      repositories.Store
	db         *sql.DB
	clock      services.Clock
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	library   *services.Library
	profile   *services.Profile
	planner   *services.Planner
	dashboard *services.Dashboard
	exporter  *tasks.ExportEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Store      repositories.Store // opened from Config.Database when nil
	Clock      services.Clock
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		store:      opts.Store,
		clock:      opts.Clock,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// defaultConfigPath is read when --config is not given.
const defaultConfigPath = "config.toml"

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "bookmedia",
		Usage:   "Track your books, reading sessions and goals",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
		},
		Before:   r.loadConfig,
		Commands: r.register(),
	}
}

// loadConfig replaces the configuration when --config is given. A missing file means defaults, so
// `setup database` can create it.
func (r *Runner) loadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if !cmd.IsSet("config") {
		return ctx, nil
	}

	path := cmd.String("config")
	config, err := shared.LoadOrDefault(path)
	if err != nil {
		return ctx, err
	}

	r.config, r.configPath = config, path
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(config.Log.Level))
	r.logger.Debug("loaded config", "path", path)
	return ctx, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, userCommand, bookCommand, sessionCommand, statsCommand, achievementsCommand,
		exportCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger, e.g. to keep log lines out of the TUI. Services built afterwards use it.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// open connects the store and builds the services once.
func (r *Runner) open(ctx context.Context) error {
	if r.library != nil {
		return nil
	}

	if r.store == nil {
		db, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
		if err := shared.RunMigrationsContext(ctx, db); err != nil {
			db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		r.db = db
		r.store = repositories.NewSQLiteStore(db)
	}

	books := repositories.NewBookRepository(r.store)
	sessions := repositories.NewSessionRepository(r.store)
	users := repositories.NewUserRepository(r.store)

	opts := services.Options{
		Clock:  r.clock,
		Logger: r.logger,
		Goals:  models.Goals{DailyMinutes: r.config.Goals.DailyMinutes, YearlyBooks: r.config.Goals.YearlyBooks},
		Stats:  stats.Options{MonthWindow: r.config.Stats.MonthWindow, AverageWindowDays: r.config.Stats.AverageWindowDays},
	}

	r.library = services.NewLibrary(books, opts)
	r.profile = services.NewProfile(users, opts)
	r.planner = services.NewPlanner(sessions, r.profile, opts)
	r.dashboard = services.NewDashboard(books, sessions, users, opts)
	r.exporter = tasks.NewExportEngine(books, sessions, users, opts, r.httpClient)
	return nil
}

// Close releases the database, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
