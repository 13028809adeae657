package main

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/interlude/internal/session"
)

// Session runs the interactive favorites session against the configured store.
func (r *Runner) Session(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	controller := session.New(session.Config{
		Store:    store,
		Catalog:  r.catalog,
		Prompter: r.newPrompter(),
		Out:      r.output,
		Logger:   r.logger,
	})
	return controller.Run(ctx)
}

// newPrompter uses huh forms on a terminal and plain line reads otherwise.
func (r *Runner) newPrompter() session.Prompter {
	if r.prompter != nil {
		return r.prompter
	}
	if f, ok := r.input.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return session.NewHuhPrompter()
	}
	return session.NewLinePrompter(r.input, r.output)
}
