package workflow

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"critable/internal/ingest"
	"critable/internal/logging"
	"critable/internal/pipeline"
	"critable/internal/store"
)

const stageIngest = "ingest"

// Outcome is the processing result of one detector file.
type Outcome struct {
	Path       string
	Document   string
	DocumentID int64
	Status     store.Status
	Pages      []int
	Rows       int
	Matched    int
	Err        error
}

// Batch collects the outcomes of one ProcessFiles call in input order.
type Batch struct {
	RunID    string
	Outcomes []Outcome
}

// Counts tallies outcomes by status.
func (b *Batch) Counts() map[store.Status]int {
	counts := make(map[store.Status]int)
	for _, out := range b.Outcomes {
		counts[out.Status]++
	}
	return counts
}

// Failed reports whether any document ended in review or failed.
func (b *Batch) Failed() bool {
	for _, out := range b.Outcomes {
		if out.Status == store.StatusReview || out.Status == store.StatusFailed {
			return true
		}
	}
	return false
}

// ProcessFiles processes every file under the data directory lock.
// Per-document failures are reported in the batch; the returned error is
// non-nil only when the lock cannot be taken or ctx ends the batch.
func (m *Manager) ProcessFiles(ctx context.Context, paths []string) (*Batch, error) {
	release, err := m.acquire()
	if err != nil {
		return nil, err
	}
	defer release()
	return m.processBatch(ctx, paths)
}

func (m *Manager) processBatch(ctx context.Context, paths []string) (*Batch, error) {
	batch := &Batch{RunID: uuid.NewString(), Outcomes: make([]Outcome, len(paths))}
	ctx = logging.WithRunID(ctx, batch.RunID)
	logger := logging.WithContext(ctx, m.logger)
	logger.Info("batch started", slog.Int("files", len(paths)), slog.Int("workers", m.workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			out := m.processFile(gctx, path)
			batch.Outcomes[i] = out
			if errors.Is(out.Err, context.Canceled) || errors.Is(out.Err, context.DeadlineExceeded) {
				return out.Err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn("batch interrupted", logging.Error(err))
		return batch, err
	}
	if err := ctx.Err(); err != nil {
		return batch, err
	}

	attrs := []any{slog.Int("files", len(paths))}
	for status, n := range batch.Counts() {
		attrs = append(attrs, slog.Int(string(status), n))
	}
	logger.Info("batch finished", attrs...)
	return batch, nil
}

// processFile takes one detector file from ingest to a persisted result.
func (m *Manager) processFile(ctx context.Context, path string) Outcome {
	out := Outcome{Path: path, Document: filepath.Base(path)}
	logger := logging.WithContext(ctx, m.logger).With(slog.String("file", path))

	doc, err := ingest.ReadFile(path)
	if err != nil {
		marker := pipeline.ErrNotFound
		if errors.Is(err, ingest.ErrInvalidInput) {
			marker = pipeline.ErrValidation
		}
		out.Err = pipeline.Wrap(marker, stageIngest, out.Document, "read detector output", err)
		out.Status = store.FailureStatus(out.Err)
		logger.Error("ingest failed", logging.Error(out.Err))
		return out
	}
	out.Document = doc.Name
	ctx = logging.WithDocument(ctx, doc.Name)
	logger = logging.WithContext(ctx, m.logger)

	rec, err := m.store.UpsertDocument(ctx, store.DocumentInput{
		Name:         doc.Name,
		SourcePath:   doc.SourcePath,
		PageCount:    doc.PageCount,
		PublishMonth: doc.PublishMonth,
	})
	if err != nil {
		return m.storageFailure(logger, out, "register document", err)
	}
	out.DocumentID = rec.ID

	if err := m.store.SaveCandidates(ctx, rec.ID, doc.Candidates); err != nil {
		return m.fail(ctx, logger, out, pipeline.Wrap(pipeline.ErrStorage, stageIngest, "save candidates", "", err))
	}

	result, err := m.pipeline.Run(ctx, doc.Name, doc.Candidates)
	if err != nil {
		if ctx.Err() != nil {
			out.Status = store.StatusPending
			out.Err = ctx.Err()
			return out
		}
		return m.fail(ctx, logger, out, err)
	}

	status, err := m.store.SaveResult(ctx, rec.ID, result)
	if err != nil {
		return m.fail(ctx, logger, out, pipeline.Wrap(pipeline.ErrStorage, "", "save result", "", err))
	}
	out.Status = status
	out.Pages = result.SelectedPages
	out.Rows = result.MergedRows
	out.Matched = result.MatchedRows()
	logger.Info("document processed",
		slog.String(logging.FieldStatus, string(status)),
		slog.Any(logging.FieldPages, out.Pages),
		slog.Int(logging.FieldRows, out.Rows),
	)
	return out
}

// fail records cause against the stored document.
func (m *Manager) fail(ctx context.Context, logger *slog.Logger, out Outcome, cause error) Outcome {
	out.Err = cause
	status, err := m.store.MarkFailed(ctx, out.DocumentID, cause)
	if err != nil {
		logger.Error("failed to persist document failure", logging.Error(err))
		status = store.FailureStatus(cause)
	}
	out.Status = status
	logger.Warn("document not completed",
		slog.String(logging.FieldStatus, string(status)),
		logging.Error(cause),
	)
	return out
}

func (m *Manager) storageFailure(logger *slog.Logger, out Outcome, operation string, err error) Outcome {
	out.Err = pipeline.Wrap(pipeline.ErrStorage, "", operation, "", err)
	out.Status = store.StatusFailed
	logger.Error("storage failure", logging.Error(out.Err))
	return out
}
