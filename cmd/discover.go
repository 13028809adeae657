package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/interlude/internal/session"
	"github.com/desertthunder/interlude/internal/shared"
	"github.com/desertthunder/interlude/internal/ui"
)

// Discover prints the latest releases as a table or JSON, or opens the release browser.
func (r *Runner) Discover(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireCatalog(); err != nil {
		return err
	}

	if cmd.Bool("tui") {
		return r.browse(ctx)
	}

	r.logger.Debug("fetching new releases")
	releases, err := r.catalog.NewReleases(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch new releases: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(releases, true)
	}

	if len(releases) == 0 {
		return r.writePlain("No new releases found.\n")
	}

	if err := r.writePlain("New Releases:\n\n"); err != nil {
		return err
	}
	session.RenderReleases(r.output, releases)
	return nil
}

// browse runs the release browser with logs redirected to a file.
func (r *Runner) browse(ctx context.Context) error {
	logPath := filepath.Join(os.TempDir(), "interlude", "tui.log")
	fileLogger, closeLog, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer closeLog()

	prev := r.logger
	fileLogger.SetLevel(prev.GetLevel())
	r.SetLogger(fileLogger)
	defer r.SetLogger(prev)

	return ui.Run(ctx, r.catalog)
}
