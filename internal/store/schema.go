package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion changes whenever schema.sql does.
const schemaVersion = 1

// ErrSchemaMismatch is returned by Open for a database from another schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// initSchema creates the schema on an empty database and refuses to open
// one written by a different schema version.
func (s *Store) initSchema(ctx context.Context) error {
	var present bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'schema_version')",
	).Scan(&present)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if !present {
		return s.createSchema(ctx)
	}

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: %s is at version %d, this build expects %d (run 'critable db clear' or delete the file)",
			ErrSchemaMismatch, s.path, version, schemaVersion)
	}
	return nil
}

// SchemaVersion reports the version recorded in the database.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func (s *Store) createSchema(ctx context.Context) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	})
}
