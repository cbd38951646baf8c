package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scx/internal/formatter"
	"github.com/desertthunder/scx/internal/models"
	"github.com/desertthunder/scx/internal/repositories"
	"github.com/desertthunder/scx/internal/services"
	"github.com/desertthunder/scx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database and service are opened on first use so commands like "setup database" work without credentials.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer

	mu      sync.Mutex
	db      *sql.DB
	prefs   services.Preferences
	liked   *repositories.LikedTrackRepository
	service *services.SoundCloudService
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer

	// Service skips opening the database when set. Preferences and Liked, if also set,
	// persist cursors and likes.
	Service     *services.SoundCloudService
	Preferences services.Preferences
	Liked       *repositories.LikedTrackRepository
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

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		service:    opts.Service,
		prefs:      opts.Preferences,
		liked:      opts.Liked,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand,
		streamCommand, likesCommand, searchCommand, meCommand, playlistCommand, userCommand,
		followersCommand, followingsCommand,
		likeCommand, trackCommand, streamURLCommand, downloadURLCommand,
		exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by commands created after the call.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// connect opens the database, runs migrations and builds the service on first use.
func (r *Runner) connect() (*services.SoundCloudService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.service != nil {
		return r.service, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	prefs := repositories.NewPreferenceRepository(db)
	liked := repositories.NewLikedTrackRepository(db)
	seed, err := liked.List()
	if err != nil {
		r.logger.Warn("could not load liked tracks", "error", err)
	}

	svc, err := services.NewSoundCloudService(services.Options{
		Credentials: r.config.Credentials.SoundCloud,
		API:         r.config.API,
		Preferences: prefs,
		Liked:       seed,
		Logger:      r.logger,
	})
	if err != nil {
		db.Close()
		if errors.Is(err, shared.ErrMissingCredentials) {
			return nil, fmt.Errorf("%w (set credentials.soundcloud in %s or %s)", err, r.configFile(), shared.EnvClientID)
		}
		return nil, err
	}

	r.db, r.prefs, r.liked, r.service = db, prefs, liked, svc
	return svc, nil
}

// Close persists the liked-track set and closes the database.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	if r.liked != nil && r.service != nil {
		if err := r.liked.Replace(r.service.Liked().IDs()); err != nil {
			errs = append(errs, fmt.Errorf("failed to save liked tracks: %w", err))
		}
	}
	if r.db != nil {
		errs = append(errs, r.db.Close())
		r.db = nil
	}
	return errors.Join(errs...)
}

func (r *Runner) configFile() string {
	if r.configPath == "" {
		return "config.toml"
	}
	return r.configPath
}

// withService adapts an action that needs the service into a [cli.ActionFunc].
func (r *Runner) withService(action func(context.Context, *cli.Command, *services.SoundCloudService) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Bool("verbose") {
			shared.SetLogLevel(r.logger, log.DebugLevel)
		}

		svc, err := r.connect()
		if err != nil {
			return err
		}
		return action(ctx, cmd, svc)
	}
}

// withRefresh runs fn and, when it fails with an expired token, refreshes once and retries.
func (r *Runner) withRefresh(ctx context.Context, svc *services.SoundCloudService, fn func() error) error {
	err := fn()
	if !errors.Is(err, shared.ErrTokenExpired) {
		return err
	}

	r.logger.Info("access token expired, refreshing")
	if refreshErr := svc.Refresh(ctx); refreshErr != nil {
		return fmt.Errorf("%w (refresh failed: %v)", err, refreshErr)
	}
	return fn()
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
	return r.writePlain(format+"\n", args...)
}

// writeItems prints a page as JSON (--json) or one line per item.
func (r *Runner) writeItems(cmd *cli.Command, items []models.Item, more bool) error {
	if cmd.Bool("json") {
		if items == nil {
			items = []models.Item{}
		}
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	if len(items) == 0 {
		return r.writePlainln("No items.")
	}
	if _, err := r.output.Write(formatter.ToText(items)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if more {
		return r.writePlainln("\n→ More available; run the command again for the next page (--reset starts over).")
	}
	return nil
}

func isExpired(err error) bool {
	return errors.Is(err, shared.ErrTokenExpired)
}
