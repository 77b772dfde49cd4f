// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/prodline/internal/core/schema"
	"github.com/example/prodline/internal/ports/secondary"
)

// ProcedureRepository implements secondary.ProcedureRepository with SQLite.
type ProcedureRepository struct {
	db *sql.DB
}

// NewProcedureRepository creates a new SQLite procedure repository.
func NewProcedureRepository(db *sql.DB) *ProcedureRepository {
	return &ProcedureRepository{db: db}
}

// Save replaces a part's stage configuration in one transaction. The
// previous configuration rows are dropped; dynamic tables are left to the
// synchronizer, which only ever adds columns.
func (r *ProcedureRepository) Save(ctx context.Context, partNumber string, stages []schema.StageDefinition) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin procedure save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO parts (part_number) VALUES (?) ON CONFLICT(part_number) DO UPDATE SET updated_at = CURRENT_TIMESTAMP",
		partNumber,
	); err != nil {
		return fmt.Errorf("failed to upsert part: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM procedure_stages WHERE part_number = ?", partNumber,
	); err != nil {
		return fmt.Errorf("failed to clear previous configuration: %w", err)
	}

	for _, st := range stages {
		enabled := 0
		if st.Enabled {
			enabled = 1
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO procedure_stages (part_number, name, enabled, position) VALUES (?, ?, ?, ?)",
			partNumber, st.Name, enabled, st.Position,
		)
		if err != nil {
			return fmt.Errorf("failed to save stage %s: %w", st.Name, err)
		}
		stageID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to save stage %s: %w", st.Name, err)
		}
		for i, f := range st.Fields {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO procedure_fields (stage_id, name, kind, label, ord) VALUES (?, ?, ?, ?, ?)",
				stageID, f.Name, string(f.Kind), f.Label, i,
			); err != nil {
				return fmt.Errorf("failed to save field %s.%s: %w", st.Name, f.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit procedure save: %w", err)
	}
	return nil
}

// Get retrieves a part's stage configuration in saved order.
func (r *ProcedureRepository) Get(ctx context.Context, partNumber string) ([]schema.StageDefinition, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, enabled, position FROM procedure_stages WHERE part_number = ? ORDER BY position",
		partNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load stages: %w", err)
	}
	defer rows.Close()

	var stages []schema.StageDefinition
	var stageIDs []int64
	for rows.Next() {
		var (
			id      int64
			st      schema.StageDefinition
			enabled int
		)
		if err := rows.Scan(&id, &st.Name, &enabled, &st.Position); err != nil {
			return nil, fmt.Errorf("failed to scan stage: %w", err)
		}
		st.Enabled = enabled != 0
		stages = append(stages, st)
		stageIDs = append(stageIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load stages: %w", err)
	}

	for i, stageID := range stageIDs {
		fields, err := r.stageFields(ctx, stageID)
		if err != nil {
			return nil, err
		}
		stages[i].Fields = fields
	}
	return stages, nil
}

func (r *ProcedureRepository) stageFields(ctx context.Context, stageID int64) ([]schema.FieldDef, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT name, kind, label FROM procedure_fields WHERE stage_id = ? ORDER BY ord, name",
		stageID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load fields: %w", err)
	}
	defer rows.Close()

	var fields []schema.FieldDef
	for rows.Next() {
		var (
			f    schema.FieldDef
			kind string
		)
		if err := rows.Scan(&f.Name, &kind, &f.Label); err != nil {
			return nil, fmt.Errorf("failed to scan field: %w", err)
		}
		f.Kind = schema.FieldKind(kind)
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

// ListParts returns all configured part numbers.
func (r *ProcedureRepository) ListParts(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT part_number FROM parts ORDER BY part_number")
	if err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}
	defer rows.Close()

	var parts []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan part: %w", err)
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

// Ensure ProcedureRepository implements the interface
var _ secondary.ProcedureRepository = (*ProcedureRepository)(nil)
