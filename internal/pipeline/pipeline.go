package pipeline

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"critable/internal/assemble"
	"critable/internal/classify"
	"critable/internal/config"
	"critable/internal/logging"
	"critable/internal/reconcile"
	"critable/internal/selection"
	"critable/internal/tables"
)

// Stage names used in wrapped errors and log lines.
const (
	StageFilter    = "filter"
	StageSelect    = "select"
	StageReconcile = "reconcile"
	StageAssemble  = "assemble"
	StageClassify  = "classify"
)

// Options configures a Pipeline.
type Options struct {
	MarkerTerms []string
	Policy      reconcile.Policy
	Taxonomy    classify.Taxonomy
	Logger      *slog.Logger
}

// OptionsFromConfig builds Options from the filter, reconcile, and
// classifier sections of cfg.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) (Options, error) {
	if cfg == nil {
		return Options{}, Wrap(ErrConfiguration, "pipeline", "options", "config is nil", nil)
	}
	policy, err := cfg.ReconcilePolicy()
	if err != nil {
		return Options{}, Wrap(ErrConfiguration, "pipeline", "options", "", err)
	}
	taxonomy, err := cfg.Taxonomy()
	if err != nil {
		return Options{}, Wrap(ErrConfiguration, "pipeline", "options", "", err)
	}
	return Options{
		MarkerTerms: slices.Clone(cfg.Filter.MarkerTerms),
		Policy:      policy,
		Taxonomy:    taxonomy,
		Logger:      logger,
	}, nil
}

// DefaultOptions uses the default marker terms, policy, and taxonomy.
func DefaultOptions() Options {
	return Options{
		MarkerTerms: slices.Clone(selection.DefaultMarkerTerms),
		Policy:      reconcile.DefaultPolicy(),
		Taxonomy:    classify.DefaultTaxonomy(),
	}
}

// Pipeline runs the five table stages for one document at a time.
type Pipeline struct {
	markers    []string
	reconciler *reconcile.Reconciler
	classifier *classify.Classifier
	logger     *slog.Logger
}

// New returns a Pipeline for opts. A zero Policy falls back to the default.
func New(opts Options) *Pipeline {
	policy := opts.Policy
	if policy.Placeholder == nil {
		policy = reconcile.DefaultPolicy()
	}
	markers := opts.MarkerTerms
	if len(markers) == 0 {
		markers = selection.DefaultMarkerTerms
	}
	return &Pipeline{
		markers:    slices.Clone(markers),
		reconciler: reconcile.New(policy),
		classifier: classify.New(opts.Taxonomy),
		logger:     logging.NewComponentLogger(opts.Logger, "pipeline"),
	}
}

// Run processes the candidates of one document. A document without a
// qualifying table yields a Result whose Assembled table is empty and a nil
// error. Merge ambiguities and header mismatches are returned wrapped with
// ErrValidation; the typed cause stays reachable through errors.As.
func (p *Pipeline) Run(ctx context.Context, document string, candidates []tables.Candidate) (*Result, error) {
	logger := logging.WithContext(ctx, p.logger)
	if document != "" {
		logger = logger.With(slog.String(logging.FieldDocument, document))
	}

	result := &Result{Document: document, CandidateCount: len(candidates)}

	kept := selection.Filter(candidates, p.markers)
	slices.SortStableFunc(kept, func(a, b tables.Candidate) int { return cmp.Compare(a.Page, b.Page) })
	result.KeptCount = len(kept)
	result.KeptIDs = candidateIDs(kept)
	logger.Debug("candidates filtered",
		slog.String(logging.FieldStage, StageFilter),
		slog.Int("candidates", len(candidates)),
		slog.Int("kept", len(kept)),
	)

	pages := make([]int, len(kept))
	for i, c := range kept {
		pages[i] = c.Page
	}
	positions := selection.SelectRun(pages)
	if len(positions) == 0 {
		logger.Info("no criterion table found", slog.Int("candidates", len(candidates)))
		return result, nil
	}
	run := make([]tables.Candidate, len(positions))
	for i, pos := range positions {
		run[i] = kept[pos]
		result.SelectedPages = append(result.SelectedPages, kept[pos].Page)
	}
	result.SelectedIDs = candidateIDs(run)
	logger.Debug("page run selected",
		slog.String(logging.FieldStage, StageSelect),
		slog.Any(logging.FieldPages, result.SelectedPages),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reconciled := make([]tables.Table, 0, len(run))
	for _, c := range run {
		t, err := p.reconciler.Reconcile(c)
		if err != nil {
			return nil, Wrap(ErrValidation, StageReconcile, fmt.Sprintf("page %d", c.Page), "auxiliary column cannot be merged", err)
		}
		logger.Debug("page reconciled",
			slog.String(logging.FieldStage, StageReconcile),
			slog.Int("page", c.Page),
			slog.Int("columns_in", len(c.Header)),
			slog.Int("columns_out", t.Width()),
			slog.Int(logging.FieldRows, t.Len()),
		)
		reconciled = append(reconciled, t)
	}

	assembled, err := assemble.Assemble(reconciled)
	if err != nil {
		return nil, Wrap(ErrValidation, StageAssemble, "concatenate", "reconciled headers differ", err)
	}
	result.Assembled = assembled
	result.MergedTables = len(reconciled)
	result.MergedRows = assembled.Len()

	result.Header = classify.Header(assembled.Header)
	result.Rows = p.classifier.Classify(assembled.Table)

	logger.Info("criterion table assembled",
		slog.Any(logging.FieldPages, result.SelectedPages),
		slog.Int(logging.FieldRows, result.MergedRows),
		slog.Int("matched", result.MatchedRows()),
	)
	return result, nil
}

func candidateIDs(cs []tables.Candidate) []string {
	ids := make([]string, 0, len(cs))
	for _, c := range cs {
		if c.ID != "" {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
