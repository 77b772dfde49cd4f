// Package primary defines the primary ports (driving adapters) for the
// application. These are the interfaces through which the outside world
// drives the application.
package primary

import (
	"context"

	"github.com/example/prodline/internal/core/schema"
)

// ProcedureService defines the primary port for procedure configuration
// and schema queries.
type ProcedureService interface {
	// SaveProcedure validates a stage configuration, derives the schema
	// pair, reconciles physical storage and publishes the pair to the
	// registry.
	SaveProcedure(ctx context.Context, req SaveProcedureRequest) (*SaveProcedureResponse, error)

	// GetSchema returns the requested schema for a part, or nil when the
	// part has no configuration.
	GetSchema(ctx context.Context, partNumber string, which schema.Which) (*schema.PartSchema, error)

	// ListParts returns all configured part numbers.
	ListParts(ctx context.Context) ([]string, error)
}

// SaveProcedureRequest is the configuration input from the (excluded)
// UI/API layer. Fields carry explicit kinds; CustomFields and
// CustomCheckboxes are free-form extras that default to text and boolean.
type SaveProcedureRequest struct {
	PartNumber string
	Stages     []StageInput
}

// StageInput is one stage of the configuration input.
type StageInput struct {
	Name             string
	Enabled          bool
	Fields           []FieldInput
	CustomFields     []string
	CustomCheckboxes []string
}

// FieldInput is one declared field of the configuration input.
type FieldInput struct {
	Name  string
	Kind  string
	Label string
}

// SaveProcedureResponse reports the derived schema pair and any
// non-fatal storage synchronization warnings.
type SaveProcedureResponse struct {
	InProcess  *schema.PartSchema
	Completion *schema.PartSchema
	// SyncWarnings lists reconcile failures that were tolerated
	// (fail-open policy): the registry was still updated.
	SyncWarnings []string
}
