package matchcache

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// cacheLayout is stored in PRAGMA user_version. Bump it whenever schema.sql
// changes shape; older cache files are then rejected instead of misread.
const cacheLayout = 1

// ErrSchemaMismatch reports a cache file written by an incompatible build.
var ErrSchemaMismatch = errors.New("search cache layout mismatch")

// migrate creates the tables on a fresh file and verifies the layout of an existing one.
func (s *Store) migrate(ctx context.Context) error {
	var layout int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&layout); err != nil {
		return fmt.Errorf("read cache layout: %w", err)
	}
	switch layout {
	case cacheLayout:
		return nil
	case 0:
		return s.applySchema(ctx)
	default:
		return fmt.Errorf("%w: %s has layout %d, this build expects %d (delete the file to rebuild it)",
			ErrSchemaMismatch, s.path, layout, cacheLayout)
	}
}

func (s *Store) applySchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create cache tables: %w", err)
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", cacheLayout)); err != nil {
		return fmt.Errorf("stamp cache layout: %w", err)
	}
	return tx.Commit()
}
