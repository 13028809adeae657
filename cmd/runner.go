package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"github.com/desertthunder/interlude/internal/repositories"
	"github.com/desertthunder/interlude/internal/services"
	"github.com/desertthunder/interlude/internal/session"
	"github.com/desertthunder/interlude/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	spotify    *services.SpotifyService
	catalog    services.Catalog
	store      repositories.Store
	prompter   session.Prompter
	logger     *log.Logger
	input      io.Reader
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Catalog, Store and Prompter are built from the loaded config when left nil.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	Store      repositories.Store
	Prompter   session.Prompter
	Logger     *log.Logger
	Input      io.Reader
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
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		store:      opts.Store,
		prompter:   opts.Prompter,
		logger:     opts.Logger,
		input:      opts.Input,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, discoverCommand, usersCommand, exportCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger, e.g. while a full-screen program owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Load reads the config file named by --config and applies --users, the --env file and the environment.
//
// A missing file falls back to the embedded defaults; a file that cannot be parsed is an error.
func (r *Runner) Load(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	}

	if err := shared.LoadEnvFile(cmd.String("env")); err != nil {
		return ctx, err
	}
	r.config.ApplyEnv()
	if users := cmd.String("users"); users != "" {
		r.config.Storage.Path = users
	}

	shared.SetLogLevel(r.logger, shared.ParseLogLevel(r.config.Log.Level))

	if r.catalog == nil {
		r.connect()
	}
	return ctx, nil
}

// connect builds the Spotify catalog when credentials are configured.
func (r *Runner) connect() {
	creds := r.config.Credentials.Spotify
	if !creds.HasCredentials() {
		r.logger.Debug("spotify credentials not configured")
		return
	}

	svc, err := services.NewSpotifyService(creds, services.SpotifyOptions{
		RequestsPerSecond: r.config.Catalog.RequestsPerSecond,
		Burst:             r.config.Catalog.Burst,
		Market:            r.config.Catalog.Market,
	})
	if err != nil {
		r.logger.Warn("failed to create spotify service", "error", err)
		return
	}

	svc.SetTokenRefreshCallback(func(token *oauth2.Token) {
		if err := r.saveTokens(token); err != nil {
			r.logger.Warn("failed to persist refreshed token", "error", err)
		}
	})

	r.spotify = svc
	r.catalog = svc
}

// openStore returns the injected store or opens the configured one.
func (r *Runner) openStore() (repositories.Store, error) {
	if r.store != nil {
		return r.store, nil
	}
	store, err := repositories.NewStore(r.config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open user store: %w", err)
	}
	return store, nil
}

// loadRegistry reads the registry, treating a missing or empty store as no users.
func (r *Runner) loadRegistry(ctx context.Context) (*repositories.Registry, error) {
	store, err := r.openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	registry, err := store.Load(ctx)
	if err != nil && !errors.Is(err, shared.ErrNoUserData) {
		return nil, err
	}
	return registry, nil
}

// requireCatalog reports a configuration error when no catalog could be built.
func (r *Runner) requireCatalog() error {
	if r.catalog == nil {
		return fmt.Errorf("%w: set credentials.spotify in %s or SPOTIFY_ID/SPOTIFY_SECRET", shared.ErrMissingCredentials, r.configPath)
	}
	return nil
}

// saveTokens stores token in the config and writes it to the config file, when one is known.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	if r.config == nil {
		return fmt.Errorf("%w: config is nil", shared.ErrMissingConfig)
	}

	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if r.configPath == "" {
		return nil
	}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	r.logger.Debug("tokens saved", "path", r.configPath)
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
