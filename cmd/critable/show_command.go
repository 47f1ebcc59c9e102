package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"critable/internal/config"
	"critable/internal/store"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var assembledOnly bool

	cmd := &cobra.Command{
		Use:   "show NAME|ID",
		Short: "Show a document's assembled and classified tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				doc, err := st.Lookup(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if doc == nil {
					return fmt.Errorf("document %q not found", args[0])
				}
				out := cmd.OutOrStdout()
				printDocumentSummary(out, doc)

				if doc.Assembled.Width() > 0 {
					fmt.Fprintln(out)
					title := fmt.Sprintf("Assembled table (pages %d-%d)", doc.StartPage, doc.EndPage)
					fmt.Fprintln(out, renderTitledTable(title, doc.Assembled.Header, doc.Assembled.Rows, nil))
				}
				if assembledOnly {
					return nil
				}
				classified, err := st.ClassifiedRows(cmd.Context(), doc.ID)
				if err != nil {
					return err
				}
				if classified != nil {
					fmt.Fprintln(out)
					fmt.Fprintln(out, renderTitledTable("Classified rows", classified.Header, classified.Rows, nil))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&assembledOnly, "assembled", false, "Only print the assembled table")
	return cmd
}

func printDocumentSummary(w io.Writer, doc *store.Document) {
	colorize := shouldColorize(w)
	writeLines(w, renderSectionHeader(doc.Name, colorize)...)
	writeLines(w,
		renderStatusLine("Status", documentStatusKind(doc.Status), string(doc.Status), colorize),
		renderStatusLine("ID", statusInfo, strconv.FormatInt(doc.ID, 10), false),
	)
	if doc.SourcePath != "" {
		fmt.Fprintln(w, renderStatusLine("Source", statusInfo, doc.SourcePath, false))
	}
	if doc.PageCount > 0 {
		fmt.Fprintln(w, renderStatusLine("Page count", statusInfo, strconv.Itoa(doc.PageCount), false))
	}
	if doc.PublishMonth != "" {
		fmt.Fprintln(w, renderStatusLine("Published", statusInfo, doc.PublishMonth, false))
	}
	writeLines(w,
		renderStatusLine("Candidates", statusInfo, fmt.Sprintf("%d detected, %d kept", doc.CandidateCount, doc.KeptCount), false),
		renderStatusLine("Selected pages", statusInfo, formatPages(doc.SelectedPages), false),
		renderStatusLine("Merged", statusInfo, fmt.Sprintf("%d tables, %d rows", doc.MergedTables, doc.MergedRows), false),
	)
	if doc.ErrorMessage != "" {
		fmt.Fprintln(w, renderStatusLine("Error", documentStatusKind(doc.Status), doc.ErrorMessage, colorize))
	}
}
