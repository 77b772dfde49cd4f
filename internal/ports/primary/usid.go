package primary

import "context"

// USIDService defines the primary port for unique serial identifier
// issuance.
type USIDService interface {
	// GenerateUSID issues the next USID for a part, one per physical unit
	// per day.
	GenerateUSID(ctx context.Context, partNumber string) (string, error)
}
