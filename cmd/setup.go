package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/interlude/internal/shared"
)

// Setup writes config.toml from the embedded template when missing and initializes the user store.
//
// With the sqlite backend this creates the database and runs its migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	if _, err := os.Stat(r.configPath); err == nil {
		r.logger.Info("config file already exists", "path", r.configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", r.configPath)
		if err := shared.CreateConfigFile(r.configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}

		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return fmt.Errorf("failed to load created config: %w", err)
		}
		config.ApplyEnv()
		if users := cmd.String("users"); users != "" {
			config.Storage.Path = users
		}
		r.config = config
	}

	storage := r.config.Storage
	r.logger.Info("initializing user store", "backend", storage.Backend, "path", storage.Path)

	store, err := r.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	r.writePlain("✓ Config file: %s\n", r.configPath)
	r.writePlain("✓ User store: %s (%s)\n", storage.Path, storage.Backend)

	r.writePlainln("Next steps:")
	if !r.config.Credentials.Spotify.HasCredentials() {
		r.writePlain("1. Set client_id and client_secret under [credentials.spotify] in %s\n", r.configPath)
	} else {
		r.writePlain("1. Spotify credentials are configured\n")
	}
	r.writePlain("2. Run 'interlude auth' to enable your top tracks\n")
	r.writePlain("3. Run 'interlude' to start rating your favourites\n")

	return nil
}
