package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"critable/internal/config"
	"critable/internal/store"
	"critable/internal/workflow"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "watch [DIR]",
		Short: "Process detector files as they arrive in the inbox",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				dir := cfg.Paths.InboxDir
				if len(args) == 1 {
					if dir, err = config.ExpandPath(args[0]); err != nil {
						return err
					}
				}
				if dir == "" {
					return errors.New("no inbox directory configured")
				}
				mgr, err := workflow.NewManager(cfg, st, logger, workflow.WithWorkers(workers))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", dir)
				return mgr.Watch(cmd.Context(), dir, func(batch *workflow.Batch) {
					for _, outcome := range batch.Outcomes {
						if outcome.Path == "" {
							continue
						}
						message := outcome.Document
						if outcome.Err != nil {
							message += ": " + outcome.Err.Error()
						}
						fmt.Fprintln(out, renderStatusLine(filepath.Base(outcome.Path), documentStatusKind(outcome.Status), message, colorize))
					}
				})
			})
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of documents processed in parallel (default from config)")
	return cmd
}
