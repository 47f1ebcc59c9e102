package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"critable/internal/config"
	"critable/internal/store"
	"critable/internal/workflow"
)

var errDocumentsNeedAttention = errors.New("some documents need attention")

func newRunCommand(ctx *commandContext) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "run FILE|DIR...",
		Short: "Process detector output files",
		Long: `Ingest detector output JSON files, consolidate each document's criterion
table, and store the classified rows. Directories are expanded to the
.json files they contain.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandInputs(args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return errors.New("no detector files found")
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				mgr, err := workflow.NewManager(cfg, st, logger, workflow.WithWorkers(workers))
				if err != nil {
					return err
				}
				batch, err := mgr.ProcessFiles(cmd.Context(), paths)
				if batch != nil {
					printBatch(cmd.OutOrStdout(), batch)
				}
				if err != nil {
					return err
				}
				if batch.Failed() {
					return errDocumentsNeedAttention
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of documents processed in parallel (default from config)")
	return cmd
}

// expandInputs resolves files and directories to absolute detector file
// paths, keeping argument order and dropping duplicates.
func expandInputs(args []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			out = append(out, path)
		}
	}
	for _, arg := range args {
		path, err := config.ExpandPath(arg)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(path, "*.json"))
		if err != nil {
			return nil, err
		}
		slices.Sort(matches)
		for _, match := range matches {
			add(match)
		}
	}
	return out, nil
}

func printBatch(w io.Writer, batch *workflow.Batch) {
	if len(batch.Outcomes) == 0 {
		return
	}
	rows := make([][]string, 0, len(batch.Outcomes))
	for _, out := range batch.Outcomes {
		if out.Path == "" {
			continue
		}
		message := ""
		if out.Err != nil {
			message = out.Err.Error()
		}
		rows = append(rows, []string{
			filepath.Base(out.Path),
			out.Document,
			string(out.Status),
			formatPages(out.Pages),
			strconv.Itoa(out.Rows),
			strconv.Itoa(out.Matched),
			message,
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"File", "Document", "Status", "Pages", "Rows", "Matched", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))

	counts := batch.Counts()
	parts := make([]string, 0, len(counts))
	for _, status := range store.AllStatuses() {
		if n := counts[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, status))
		}
	}
	fmt.Fprintf(w, "Processed %d files: %s\n", len(rows), strings.Join(parts, ", "))
}

func formatPages(pages []int) string {
	switch len(pages) {
	case 0:
		return "-"
	case 1:
		return strconv.Itoa(pages[0])
	default:
		return fmt.Sprintf("%d-%d", pages[0], pages[len(pages)-1])
	}
}
