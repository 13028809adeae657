package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/interlude/internal/formatter"
	"github.com/desertthunder/interlude/internal/models"
	"github.com/desertthunder/interlude/internal/shared"
	"github.com/desertthunder/interlude/internal/tasks"
)

// Export writes one user's favorites, or every user's with --all, in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("user")
	all := cmd.Bool("all")

	switch {
	case username == "" && !all:
		return fmt.Errorf("%w: --user or --all", shared.ErrMissingArgument)
	case username != "" && all:
		return fmt.Errorf("%w: --user and --all are mutually exclusive", shared.ErrInvalidArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	registry, err := r.loadRegistry(ctx)
	if err != nil {
		return err
	}

	if all {
		return r.exportAll(ctx, registry.Users(), format, cmd.String("dir"), cmd.Int("workers"))
	}

	user, ok := registry.Get(username)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, username)
	}

	path, err := formatter.WriteExport(user, format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("favorites exported", "user", username, "format", format, "path", path)
	return r.writePlain("✓ Exported %s's favorites to %s\n", username, path)
}

func (r *Runner) exportAll(ctx context.Context, users []*models.User, format formatter.Format, dir string, workers int) error {
	if len(users) == 0 {
		return r.writePlainln("No users found.")
	}

	if err := r.writePlain("Exporting favorites for %d users...\n\n", len(users)); err != nil {
		return err
	}

	prog := make(chan tasks.ProgressUpdate, len(users)+1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range prog {
			_ = r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := tasks.BulkExport(ctx, prog, users, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  dir,
		NumWorkers: workers,
	})
	close(prog)
	wg.Wait()

	if err != nil {
		return err
	}

	r.logger.Info("bulk export finished",
		"users", result.TotalUsers, "ok", result.Successful, "failed", result.Failed, "dir", result.OutputDirectory)

	return r.writePlain("\n✓ Exported %d of %d users to %s\n", result.Successful, result.TotalUsers, result.OutputDirectory)
}
