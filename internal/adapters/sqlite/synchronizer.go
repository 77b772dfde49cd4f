package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/prodline/internal/core/schema"
	"github.com/example/prodline/internal/ports/secondary"
)

// Synchronizer implements secondary.StorageSynchronizer with SQLite. It
// owns the dynamic per-part tables: it creates them and adds columns, and
// never drops or renames anything, so configuration edits stay
// backward-compatible with existing records.
type Synchronizer struct {
	db *sql.DB
}

// NewSynchronizer creates a new SQLite storage synchronizer.
func NewSynchronizer(db *sql.DB) *Synchronizer {
	return &Synchronizer{db: db}
}

// Reconcile ensures the schema's backing table exists with exactly the
// schema's columns, adding any missing ones with type-appropriate
// defaults. Column-add failures are collected per field; one failing
// column does not abort the rest.
func (s *Synchronizer) Reconcile(ctx context.Context, ps *schema.PartSchema) error {
	if !schema.ValidIdent(ps.TableName) {
		return &secondary.StorageSyncError{
			Table: ps.TableName,
			Failures: []secondary.ColumnFailure{
				{Column: ps.TableName, Err: fmt.Errorf("invalid table name")},
			},
		}
	}

	exists, err := s.tableExists(ctx, ps.TableName)
	if err != nil {
		return &secondary.StorageSyncError{
			Table:    ps.TableName,
			Failures: []secondary.ColumnFailure{{Column: ps.TableName, Err: err}},
		}
	}

	if !exists {
		if _, err := s.db.ExecContext(ctx, createTableSQL(ps)); err != nil {
			return &secondary.StorageSyncError{
				Table:    ps.TableName,
				Failures: []secondary.ColumnFailure{{Column: ps.TableName, Err: err}},
			}
		}
		return nil
	}

	existing, err := s.tableColumns(ctx, ps.TableName)
	if err != nil {
		return &secondary.StorageSyncError{
			Table:    ps.TableName,
			Failures: []secondary.ColumnFailure{{Column: ps.TableName, Err: err}},
		}
	}

	var failures []secondary.ColumnFailure
	for _, f := range ps.Fields {
		if existing[f.QualifiedName] {
			continue
		}
		stmt := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`,
			quoteIdent(ps.TableName), quoteIdent(f.QualifiedName), columnType(f.Kind))
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			failures = append(failures, secondary.ColumnFailure{Column: f.QualifiedName, Err: err})
		}
	}
	if ps.Timestamps {
		// ADD COLUMN cannot carry CURRENT_TIMESTAMP; old rows keep NULL.
		for _, ts := range []string{"created_at", "updated_at"} {
			if existing[ts] {
				continue
			}
			stmt := fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s DATETIME`,
				quoteIdent(ps.TableName), quoteIdent(ts))
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				failures = append(failures, secondary.ColumnFailure{Column: ts, Err: err})
			}
		}
	}

	if len(failures) > 0 {
		return &secondary.StorageSyncError{Table: ps.TableName, Failures: failures}
	}
	return nil
}

func (s *Synchronizer) tableExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return count > 0, nil
}

func (s *Synchronizer) tableColumns(ctx context.Context, name string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM pragma_table_info(?)", name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s: %w", name, err)
	}
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", name, err)
		}
		cols[col] = true
	}
	return cols, rows.Err()
}

func createTableSQL(ps *schema.PartSchema) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", quoteIdent(ps.TableName))
	b.WriteString("\tid INTEGER PRIMARY KEY AUTOINCREMENT")
	for _, f := range ps.Fields {
		fmt.Fprintf(&b, ",\n\t%s %s", quoteIdent(f.QualifiedName), columnType(f.Kind))
	}
	if ps.Timestamps {
		b.WriteString(",\n\tcreated_at DATETIME DEFAULT CURRENT_TIMESTAMP")
		b.WriteString(",\n\tupdated_at DATETIME DEFAULT CURRENT_TIMESTAMP")
	}
	b.WriteString("\n)")
	return b.String()
}

func columnType(kind schema.FieldKind) string {
	if kind == schema.KindBoolean {
		return "INTEGER NOT NULL DEFAULT 0"
	}
	return "TEXT NOT NULL DEFAULT ''"
}

// quoteIdent quotes a physical identifier. Identifiers were validated
// against schema.ValidIdent when the schema was built; quoting is a second
// fence, not the first.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Ensure Synchronizer implements the interface
var _ secondary.StorageSynchronizer = (*Synchronizer)(nil)
