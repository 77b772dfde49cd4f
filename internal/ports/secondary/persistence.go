// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the application
// drives external systems.
package secondary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/prodline/internal/core/pipeline"
	"github.com/example/prodline/internal/core/schema"
)

// ProcedureRepository defines the secondary port for procedure
// configuration persistence.
type ProcedureRepository interface {
	// Save replaces a part's stage configuration in one transaction.
	Save(ctx context.Context, partNumber string, stages []schema.StageDefinition) error

	// Get retrieves a part's stage configuration in saved order.
	Get(ctx context.Context, partNumber string) ([]schema.StageDefinition, error)

	// ListParts returns all configured part numbers.
	ListParts(ctx context.Context) ([]string, error)
}

// StorageSynchronizer keeps a schema's backing table aligned with the
// schema definition.
type StorageSynchronizer interface {
	// Reconcile creates the backing table when absent, or adds any missing
	// columns with type-appropriate defaults. Existing columns and data are
	// never touched. Partial failures are reported as *StorageSyncError.
	Reconcile(ctx context.Context, s *schema.PartSchema) error
}

// StoredRecord is one row of a dynamic per-part table. Values holds the
// schema fields keyed by qualified name, booleans encoded "1"/"0".
type StoredRecord struct {
	ID        int64
	Values    map[string]string
	CreatedAt string
	UpdatedAt string
}

// RecordStore defines generic CRUD over the dynamic per-part tables,
// addressed by schema.
type RecordStore interface {
	// Create inserts a record and returns its internal identifier.
	Create(ctx context.Context, s *schema.PartSchema, values map[string]string) (int64, error)

	// Get retrieves a record by internal identifier.
	Get(ctx context.Context, s *schema.PartSchema, id int64) (*StoredRecord, error)

	// Update writes the given field values and bumps updated_at.
	Update(ctx context.Context, s *schema.PartSchema, id int64, values map[string]string) error

	// FindByField retrieves all records whose field equals value.
	FindByField(ctx context.Context, s *schema.PartSchema, field, value string) ([]*StoredRecord, error)

	// ApplyForward applies a forward plan as a single guarded write. The
	// write is rejected with ErrWriteConflict when the guard field no
	// longer holds the value the plan was computed from.
	ApplyForward(ctx context.Context, s *schema.PartSchema, id int64, plan pipeline.ForwardPlan) error
}

// CounterRepository defines the secondary port for USID counters.
type CounterRepository interface {
	// NextCounter atomically increments and returns the counter for
	// (partNumber, day), creating it on first use. No two concurrent
	// callers ever observe the same value.
	NextCounter(ctx context.Context, partNumber, day string) (int, error)
}

// ErrWriteConflict rejects a guarded write that lost a race with a
// concurrent mutation of the same record.
var ErrWriteConflict = errors.New("conflicting concurrent write detected")

// ColumnFailure is one failed column addition during reconciliation.
type ColumnFailure struct {
	Column string
	Err    error
}

// StorageSyncError aggregates the column-level failures of one reconcile.
// A single failing column does not abort the rest; everything that could
// be repaired was.
type StorageSyncError struct {
	Table    string
	Failures []ColumnFailure
}

func (e *StorageSyncError) Error() string {
	cols := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		cols[i] = fmt.Sprintf("%s (%v)", f.Column, f.Err)
	}
	return fmt.Sprintf("storage sync for table %s failed on %d column(s): %s",
		e.Table, len(e.Failures), strings.Join(cols, "; "))
}

// CounterUnavailableError signals that the counter store could not be
// reached. Issuance failed; the caller may retry.
type CounterUnavailableError struct {
	PartNumber string
	Err        error
}

func (e *CounterUnavailableError) Error() string {
	return fmt.Sprintf("usid counter unavailable for part %s: %v", e.PartNumber, e.Err)
}

func (e *CounterUnavailableError) Unwrap() error {
	return e.Err
}
