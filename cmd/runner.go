package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songsheet/internal/cache"
	"github.com/desertthunder/songsheet/internal/services"
	"github.com/desertthunder/songsheet/internal/shared"
	"github.com/desertthunder/songsheet/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The song service is opened lazily on first use: a remote [services.APIClient] when --remote is set,
// otherwise a [services.Library] on the configured database.
type Runner struct {
	config     *shared.Config
	configPath string
	songs      services.SongService
	db         *sql.DB
	cache      cache.Cache
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.ExportEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Songs      services.SongService
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

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		songs:      opts.Songs,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, artistsCommand, songsCommand, chordsCommand, lyricsCommand,
		apiCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by the runner and by services it opens afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// loadConfig reloads the configuration when --config was given explicitly.
func (r *Runner) loadConfig(cmd *cli.Command) error {
	if !cmd.IsSet("config") {
		return nil
	}

	path := cmd.String("config")
	if path == r.configPath {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := shared.LoadEnv(config); err != nil {
		return err
	}

	r.config = config
	r.configPath = path
	shared.SetLogLevel(r.logger, config.Level())
	return nil
}

// service returns the song service, opening it on first use.
func (r *Runner) service(ctx context.Context, cmd *cli.Command) (services.SongService, error) {
	if r.songs != nil {
		return r.songs, nil
	}
	if err := r.loadConfig(cmd); err != nil {
		return nil, err
	}

	if remote := cmd.String("remote"); remote != "" {
		r.logger.Debug("using remote songsheet API", "url", remote)
		r.songs = services.NewAPIClient(remote, r.httpClient)
		return r.songs, nil
	}

	db, err := r.openDatabase(ctx)
	if err != nil {
		return nil, err
	}
	r.db = db
	r.cache = r.openCache(ctx)
	r.songs = services.NewLibrary(db, r.cache, r.logger)
	return r.songs, nil
}

// exportEngine returns the bulk export engine over the song service.
func (r *Runner) exportEngine(ctx context.Context, cmd *cli.Command) (*tasks.ExportEngine, error) {
	if r.engine != nil {
		return r.engine, nil
	}
	svc, err := r.service(ctx, cmd)
	if err != nil {
		return nil, err
	}
	r.engine = tasks.NewExportEngine(svc, r.logger)
	return r.engine, nil
}

// openDatabase connects with the configured driver and applies pending migrations.
func (r *Runner) openDatabase(ctx context.Context) (*sql.DB, error) {
	r.logger.Debug("opening database", "driver", r.config.Database.Driver)

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := shared.RunMigrationsContext(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// openCache connects to Redis when configured and falls back to process memory.
func (r *Runner) openCache(ctx context.Context) cache.Cache {
	ttl := r.config.Cache.TTL()
	if url := r.config.Cache.RedisURL; url != "" {
		c, err := cache.NewRedisCache(ctx, url, ttl)
		if err == nil {
			return c
		}
		r.logger.Warn("redis unavailable, using in-memory cache", "error", err)
	}
	return cache.NewMemoryCache(ttl)
}

// Close releases the database and cache connections opened by the runner.
func (r *Runner) Close() error {
	if c, ok := r.cache.(io.Closer); ok {
		if err := c.Close(); err != nil {
			r.logger.Warn("failed to close cache", "error", err)
		}
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
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
