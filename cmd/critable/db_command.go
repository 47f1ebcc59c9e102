package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"critable/internal/config"
	"critable/internal/store"
)

func newDBCommand(ctx *commandContext) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}
	dbCmd.AddCommand(newDBClearCommand(ctx))
	dbCmd.AddCommand(newDBRemoveCommand(ctx))
	return dbCmd
}

func newDBClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every document and its results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear the database without --yes")
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				count, err := st.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d documents\n", count)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm removal")
	return cmd
}

func newDBRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME|ID...",
		Short: "Remove documents and their results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				out := cmd.OutOrStdout()
				for _, ref := range args {
					doc, err := st.Lookup(cmd.Context(), ref)
					if err != nil {
						return err
					}
					if doc == nil {
						fmt.Fprintf(out, "Document %s not found\n", ref)
						continue
					}
					if _, err := st.Remove(cmd.Context(), doc.ID); err != nil {
						return err
					}
					fmt.Fprintf(out, "Removed %s\n", doc.Name)
				}
				return nil
			})
		},
	}
}
