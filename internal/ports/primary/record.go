package primary

import (
	"context"

	"github.com/example/prodline/internal/core/schema"
)

// RecordService defines the primary port for record CRUD over the dynamic
// per-part tables.
type RecordService interface {
	// CreateRecord inserts a record and returns its internal identifier.
	CreateRecord(ctx context.Context, req CreateRecordRequest) (*Record, error)

	// GetRecord retrieves a record by internal identifier.
	GetRecord(ctx context.Context, partNumber string, which schema.Which, id int64) (*Record, error)

	// UpdateRecord writes the given field values on a record.
	UpdateRecord(ctx context.Context, req UpdateRecordRequest) error

	// FindBySecondaryKey retrieves records by a logical field name,
	// tolerating naming-convention drift in the field name.
	FindBySecondaryKey(ctx context.Context, req FindRecordsRequest) ([]*Record, error)
}

// Record represents a stored record at the port boundary.
type Record struct {
	ID        int64
	Values    map[string]string
	CreatedAt string
	UpdatedAt string
}

// CreateRecordRequest contains parameters for creating a record. Values
// are keyed by logical field name and resolved against the schema.
type CreateRecordRequest struct {
	PartNumber string
	Which      schema.Which
	Values     map[string]string
}

// UpdateRecordRequest contains parameters for updating a record.
type UpdateRecordRequest struct {
	PartNumber string
	Which      schema.Which
	ID         int64
	Values     map[string]string
}

// FindRecordsRequest contains parameters for a secondary-key lookup.
// Candidates is a prioritized list of plausible field names, e.g.
// ["kit_no", "kit_kit_no"].
type FindRecordsRequest struct {
	PartNumber string
	Which      schema.Which
	Candidates []string
	Value      string
}
