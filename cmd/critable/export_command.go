package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"critable/internal/config"
	"critable/internal/export"
	"critable/internal/store"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var outPath string
	var documentRef string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export classified rows to CSV or XLSX",
		Long: `Export the classified rows of every completed document. XLSX output adds
a Stats sheet with one row of processing metadata per document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				var (
					report *export.Report
					base   = "criteria"
				)
				if strings.TrimSpace(documentRef) != "" {
					report, base, err = documentReport(cmd, st, documentRef)
				} else {
					report, err = export.Collect(cmd.Context(), st)
				}
				if err != nil {
					return err
				}

				target := strings.TrimSpace(outPath)
				if target == "" {
					target = filepath.Join(cfg.Paths.ExportDir, export.FileName(base, format))
				} else if target, err = config.ExpandPath(target); err != nil {
					return err
				}
				if err := report.WriteFile(target, format); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", len(report.Criteria.Rows), target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", string(export.FormatXLSX), "Output format (csv or xlsx)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default <export_dir>/criteria.<format>)")
	cmd.Flags().StringVarP(&documentRef, "document", "d", "", "Export a single document by name or ID")
	return cmd
}

func documentReport(cmd *cobra.Command, st *store.Store, ref string) (*export.Report, string, error) {
	doc, err := st.Lookup(cmd.Context(), ref)
	if err != nil {
		return nil, "", err
	}
	if doc == nil {
		return nil, "", fmt.Errorf("document %q not found", ref)
	}
	classified, err := st.ClassifiedRows(cmd.Context(), doc.ID)
	if err != nil {
		return nil, "", err
	}
	var tables []store.ClassifiedTable
	if classified != nil {
		tables = append(tables, *classified)
	}
	return &export.Report{
		Criteria: export.Criteria(tables),
		Stats:    export.Stats([]*store.Document{doc}),
	}, doc.Name, nil
}
