package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"critable/internal/config"
	"critable/internal/store"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var statusFlags []string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List processed documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := make([]store.Status, 0, len(statusFlags))
			for _, value := range statusFlags {
				status, err := store.ParseStatus(value)
				if err != nil {
					return err
				}
				statuses = append(statuses, status)
			}
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				docs, err := st.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(docs) == 0 {
					fmt.Fprintln(out, "No documents")
					return nil
				}
				rows := make([][]string, 0, len(docs))
				for _, doc := range docs {
					rows = append(rows, []string{
						strconv.FormatInt(doc.ID, 10),
						doc.Name,
						string(doc.Status),
						formatPages(doc.SelectedPages),
						strconv.Itoa(doc.MergedRows),
						doc.PublishMonth,
						doc.UpdatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Document", "Status", "Pages", "Rows", "Published", "Updated"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&statusFlags, "status", "s", nil, "Only list documents with these statuses (repeatable)")
	return cmd
}
