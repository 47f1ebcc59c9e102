package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"critable/internal/tables"
)

const documentColumns = "id, name, source_path, page_count, publish_month, status, error_message, candidate_count, kept_count, selected_pages_json, merged_tables, merged_rows, start_page, end_page, assembled_json, classified_header_json, created_at, updated_at, processed_at"

func scanDocument(scanner interface{ Scan(dest ...any) error }) (*Document, error) {
	var (
		doc              Document
		sourcePath       sql.NullString
		publishMonth     sql.NullString
		status           string
		errorMessage     sql.NullString
		selectedPages    sql.NullString
		assembled        sql.NullString
		classifiedHeader sql.NullString
		createdRaw       string
		updatedRaw       string
		processedRaw     sql.NullString
	)
	if err := scanner.Scan(
		&doc.ID,
		&doc.Name,
		&sourcePath,
		&doc.PageCount,
		&publishMonth,
		&status,
		&errorMessage,
		&doc.CandidateCount,
		&doc.KeptCount,
		&selectedPages,
		&doc.MergedTables,
		&doc.MergedRows,
		&doc.StartPage,
		&doc.EndPage,
		&assembled,
		&classifiedHeader,
		&createdRaw,
		&updatedRaw,
		&processedRaw,
	); err != nil {
		return nil, err
	}

	doc.SourcePath = sourcePath.String
	doc.PublishMonth = publishMonth.String
	doc.Status = Status(status)
	doc.ErrorMessage = errorMessage.String

	if err := decodeJSON(selectedPages, &doc.SelectedPages); err != nil {
		return nil, fmt.Errorf("document %d selected pages: %w", doc.ID, err)
	}
	var grid [][]string
	if err := decodeJSON(assembled, &grid); err != nil {
		return nil, fmt.Errorf("document %d assembled table: %w", doc.ID, err)
	}
	doc.Assembled = tables.FromGrid(grid)
	doc.Assembled.Page = doc.StartPage
	if err := decodeJSON(classifiedHeader, &doc.ClassifiedHeader); err != nil {
		return nil, fmt.Errorf("document %d classified header: %w", doc.ID, err)
	}

	if created, err := parseTimeString(createdRaw); err == nil {
		doc.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		doc.UpdatedAt = updated
	}
	if processedRaw.Valid {
		if processed, err := parseTimeString(processedRaw.String); err == nil {
			doc.ProcessedAt = &processed
		}
	}
	return &doc, nil
}

// UpsertDocument registers a document for processing. An existing document
// with the same name is reset to pending and its previous candidates,
// result, and rows are discarded.
func (s *Store) UpsertDocument(ctx context.Context, in DocumentInput) (*Document, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.New("document name is required")
	}
	now := timestamp(time.Now())

	var id int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO documents (name, source_path, page_count, publish_month, status, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?, ?)
             ON CONFLICT(name) DO UPDATE SET
                 source_path = excluded.source_path,
                 page_count = excluded.page_count,
                 publish_month = excluded.publish_month,
                 status = excluded.status,
                 error_message = NULL,
                 candidate_count = 0,
                 kept_count = 0,
                 selected_pages_json = NULL,
                 merged_tables = 0,
                 merged_rows = 0,
                 start_page = 0,
                 end_page = 0,
                 assembled_json = NULL,
                 classified_header_json = NULL,
                 processed_at = NULL,
                 updated_at = excluded.updated_at
             RETURNING id`,
			name,
			nullableString(in.SourcePath),
			in.PageCount,
			nullableString(in.PublishMonth),
			StatusPending,
			now,
			now,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("upsert document: %w", err)
		}
		return clearDocumentChildren(ctx, tx, id)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func clearDocumentChildren(ctx context.Context, tx *sql.Tx, id int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM candidates WHERE document_id = ?`, id); err != nil {
		return fmt.Errorf("clear candidates: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM classified_rows WHERE document_id = ?`, id); err != nil {
		return fmt.Errorf("clear classified rows: %w", err)
	}
	return nil
}

// GetByID fetches a document by identifier. It returns nil when absent.
func (s *Store) GetByID(ctx context.Context, id int64) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// GetByName fetches a document by its unique name. It returns nil when absent.
func (s *Store) GetByName(ctx context.Context, name string) (*Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE name = ?`, strings.TrimSpace(name))
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document by name: %w", err)
	}
	return doc, nil
}

// Lookup resolves a numeric ID or a document name.
func (s *Store) Lookup(ctx context.Context, ref string) (*Document, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		doc, err := s.GetByID(ctx, id)
		if err != nil || doc != nil {
			return doc, err
		}
	}
	return s.GetByName(ctx, ref)
}

// List returns documents filtered by status set (or all documents when no
// status is provided), ordered by name.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// MarkFailed records a processing error. The stored status is derived from
// the error with FailureStatus and returned.
func (s *Store) MarkFailed(ctx context.Context, id int64, cause error) (Status, error) {
	status := FailureStatus(cause)
	message := "unknown error"
	if cause != nil {
		message = cause.Error()
	}
	now := timestamp(time.Now())
	res, err := s.execWithRetry(ctx,
		`UPDATE documents SET status = ?, error_message = ?, updated_at = ?, processed_at = ? WHERE id = ?`,
		status, message, now, now, id,
	)
	if err != nil {
		return "", fmt.Errorf("mark failed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return "", fmt.Errorf("mark failed: document %d not found", id)
	}
	return status, nil
}

// Stats returns a count of documents grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM documents GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("document stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health checks the connection and schema version and aggregates document
// counts for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	if err := s.db.PingContext(ctx); err != nil {
		return HealthSummary{}, fmt.Errorf("ping database: %w", err)
	}
	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	if version != schemaVersion {
		return HealthSummary{}, fmt.Errorf("%w: database has version %d, expected %d", ErrSchemaMismatch, version, schemaVersion)
	}
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusPending:
			health.Pending += count
		case StatusCompleted:
			health.Completed += count
		case StatusEmpty:
			health.Empty += count
		case StatusReview:
			health.Review += count
		case StatusFailed:
			health.Failed += count
		}
	}
	return health, nil
}

// Remove deletes one document and everything recorded for it.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := clearDocumentChildren(ctx, tx, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("remove document: %w", err)
		}
		n, _ := res.RowsAffected()
		removed = n > 0
		return nil
	})
	return removed, err
}

// Clear removes every document and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	var count int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"classified_rows", "candidates"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM documents`)
		if err != nil {
			return fmt.Errorf("clear documents: %w", err)
		}
		count, _ = res.RowsAffected()
		return nil
	})
	return count, err
}
