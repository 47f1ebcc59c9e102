package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"critable/internal/pipeline"
	"critable/internal/tables"
)

// SaveCandidates replaces the candidates recorded for a document. Every
// candidate must carry an ID; positions follow slice order.
func (s *Store) SaveCandidates(ctx context.Context, documentID int64, candidates []tables.Candidate) error {
	for i, c := range candidates {
		if c.ID == "" {
			return fmt.Errorf("candidate %d on page %d has no id", i, c.Page)
		}
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM candidates WHERE document_id = ?`, documentID); err != nil {
			return fmt.Errorf("clear candidates: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO candidates (id, document_id, position, page, header_json, rows_json, bbox_json)
             VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare candidate insert: %w", err)
		}
		defer stmt.Close()

		for i, c := range candidates {
			header, err := encodeJSON(nonNil(c.Header))
			if err != nil {
				return err
			}
			rows, err := encodeJSON(nonNil(c.Rows))
			if err != nil {
				return err
			}
			var bbox any
			if len(c.BBox) > 0 {
				encoded, err := encodeJSON(c.BBox)
				if err != nil {
					return err
				}
				bbox = encoded
			}
			if _, err := stmt.ExecContext(ctx, c.ID, documentID, i, c.Page, header, rows, bbox); err != nil {
				return fmt.Errorf("insert candidate %s: %w", c.ID, err)
			}
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE documents SET candidate_count = ?, updated_at = ? WHERE id = ?`,
			len(candidates), timestamp(time.Now()), documentID)
		if err != nil {
			return fmt.Errorf("update candidate count: %w", err)
		}
		return nil
	})
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

// Candidates returns a document's candidates in their original order.
func (s *Store) Candidates(ctx context.Context, documentID int64) ([]CandidateRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, position, page, header_json, rows_json, bbox_json, kept, selected
         FROM candidates WHERE document_id = ? ORDER BY position`, documentID)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var out []CandidateRecord
	for rows.Next() {
		rec := CandidateRecord{DocumentID: documentID}
		var header, cells, bbox sql.NullString
		var kept, selected int
		if err := rows.Scan(&rec.ID, &rec.Position, &rec.Page, &header, &cells, &bbox, &kept, &selected); err != nil {
			return nil, err
		}
		if err := decodeJSON(header, &rec.Header); err != nil {
			return nil, err
		}
		if err := decodeJSON(cells, &rec.Rows); err != nil {
			return nil, err
		}
		if err := decodeJSON(bbox, &rec.BBox); err != nil {
			return nil, err
		}
		rec.Kept = kept != 0
		rec.Selected = selected != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveResult stores a pipeline result: the document moves to completed, or
// to empty when no table was found, and its classified rows are replaced.
func (s *Store) SaveResult(ctx context.Context, documentID int64, result *pipeline.Result) (Status, error) {
	if result == nil {
		return "", errors.New("result is nil")
	}
	status := StatusCompleted
	if result.Empty() {
		status = StatusEmpty
	}

	pages, err := encodeJSON(nonNil(result.SelectedPages))
	if err != nil {
		return "", err
	}
	var assembled, header any
	if !result.Empty() {
		if assembled, err = encodeJSON(result.Assembled.Grid()); err != nil {
			return "", err
		}
		if header, err = encodeJSON(result.Header); err != nil {
			return "", err
		}
	}

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		now := timestamp(time.Now())
		res, err := tx.ExecContext(ctx,
			`UPDATE documents
             SET status = ?, error_message = NULL, candidate_count = ?, kept_count = ?,
                 selected_pages_json = ?, merged_tables = ?, merged_rows = ?,
                 start_page = ?, end_page = ?, assembled_json = ?, classified_header_json = ?,
                 updated_at = ?, processed_at = ?
             WHERE id = ?`,
			status,
			result.CandidateCount,
			result.KeptCount,
			pages,
			result.MergedTables,
			result.MergedRows,
			result.StartPage(),
			result.EndPage(),
			assembled,
			header,
			now,
			now,
			documentID,
		)
		if err != nil {
			return fmt.Errorf("update document result: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("save result: document %d not found", documentID)
		}

		if err := markCandidates(ctx, tx, documentID, result.KeptIDs, result.SelectedIDs); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM classified_rows WHERE document_id = ?`, documentID); err != nil {
			return fmt.Errorf("clear classified rows: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO classified_rows (document_id, position, top_level, sub_level, values_json) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare row insert: %w", err)
		}
		defer stmt.Close()
		for i, row := range result.Rows {
			values, err := encodeJSON(nonNil(row.Values))
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, documentID, i, row.TopLevel, row.SubLevel, values); err != nil {
				return fmt.Errorf("insert classified row %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

func markCandidates(ctx context.Context, tx *sql.Tx, documentID int64, kept, selected []string) error {
	if _, err := tx.ExecContext(ctx, `UPDATE candidates SET kept = 0, selected = 0 WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("reset candidate flags: %w", err)
	}
	for _, set := range []struct {
		column string
		ids    []string
	}{{"kept", kept}, {"selected", selected}} {
		if len(set.ids) == 0 {
			continue
		}
		args := make([]any, 0, len(set.ids)+1)
		args = append(args, documentID)
		for _, id := range set.ids {
			args = append(args, id)
		}
		query := `UPDATE candidates SET ` + set.column + ` = 1 WHERE document_id = ? AND id IN (` + makePlaceholders(len(set.ids)) + `)`
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("mark %s candidates: %w", set.column, err)
		}
	}
	return nil
}

// ClassifiedRows returns a document's classified rows. It returns nil when
// the document has no classified table.
func (s *Store) ClassifiedRows(ctx context.Context, documentID int64) (*ClassifiedTable, error) {
	doc, err := s.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil || len(doc.ClassifiedHeader) == 0 {
		return nil, nil
	}
	return s.classifiedTable(ctx, doc)
}

// AllClassifiedRows returns the classified tables of every completed
// document, ordered by document name.
func (s *Store) AllClassifiedRows(ctx context.Context) ([]ClassifiedTable, error) {
	docs, err := s.List(ctx, StatusCompleted)
	if err != nil {
		return nil, err
	}
	out := make([]ClassifiedTable, 0, len(docs))
	for _, doc := range docs {
		table, err := s.classifiedTable(ctx, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *table)
	}
	return out, nil
}

func (s *Store) classifiedTable(ctx context.Context, doc *Document) (*ClassifiedTable, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT top_level, sub_level, values_json FROM classified_rows WHERE document_id = ? ORDER BY position`, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("query classified rows: %w", err)
	}
	defer rows.Close()

	table := &ClassifiedTable{
		DocumentID: doc.ID,
		Document:   doc.Name,
		Header:     slices.Clone(doc.ClassifiedHeader),
	}
	for rows.Next() {
		var top, sub string
		var raw sql.NullString
		if err := rows.Scan(&top, &sub, &raw); err != nil {
			return nil, err
		}
		var values []string
		if err := decodeJSON(raw, &values); err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, append([]string{top, sub}, values...))
	}
	return table, rows.Err()
}
