package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/prodline/internal/ports/secondary"
)

// CounterRepository implements secondary.CounterRepository with SQLite.
type CounterRepository struct {
	db *sql.DB
}

// NewCounterRepository creates a new SQLite counter repository.
func NewCounterRepository(db *sql.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// NextCounter atomically increments and returns the daily counter for a
// part. The upsert-and-return runs as a single statement under SQLite's
// write lock, so concurrent callers always observe distinct values.
func (r *CounterRepository) NextCounter(ctx context.Context, partNumber, day string) (int, error) {
	var counter int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO usid_counters (part_number, day, counter) VALUES (?, ?, 1)
		ON CONFLICT(part_number, day) DO UPDATE SET counter = counter + 1
		RETURNING counter`,
		partNumber, day,
	).Scan(&counter)
	if err != nil {
		return 0, &secondary.CounterUnavailableError{PartNumber: partNumber, Err: err}
	}
	return counter, nil
}

// Ensure CounterRepository implements the interface
var _ secondary.CounterRepository = (*CounterRepository)(nil)
