package primary

import (
	"context"

	"github.com/example/prodline/internal/core/schema"
)

// PipelineService defines the primary port for the stage state machine:
// gating, stage completion and conserved quantity forwarding.
type PipelineService interface {
	// CanEnter reports whether work on a stage may begin for a record.
	// A nil error means entry is allowed.
	CanEnter(ctx context.Context, req StageRequest) error

	// MarkStageDone gates on predecessors, then sets the stage's done flag
	// and records the acting operator.
	MarkStageDone(ctx context.Context, req StageRequest) error

	// Forward moves a quantity of units from one stage's quantity field to
	// the next stage's, conserving the total, and marks the originating
	// stage done.
	Forward(ctx context.Context, req ForwardRequest) (*ForwardResponse, error)
}

// StageRequest addresses one stage of one record.
type StageRequest struct {
	PartNumber string
	Which      schema.Which
	RecordID   int64
	Stage      string
}

// ForwardRequest contains parameters for a quantity forward between two
// consecutive stages of the same record. The quantity fields are logical
// names and are resolved against the schema.
type ForwardRequest struct {
	PartNumber        string
	Which             schema.Which
	RecordID          int64
	From              string
	FromQuantityField string
	To                string
	ToQuantityField   string
	Amount            int
}

// ForwardResponse reports the quantities after the transfer.
type ForwardResponse struct {
	FromField     string
	FromRemaining int
	ToField       string
	ToAvailable   int
}
