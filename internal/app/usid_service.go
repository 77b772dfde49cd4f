package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/prodline/internal/core/usid"
	"github.com/example/prodline/internal/ports/primary"
	"github.com/example/prodline/internal/ports/secondary"
)

// USIDServiceImpl implements the USIDService interface.
type USIDServiceImpl struct {
	counterRepo secondary.CounterRepository
	now         func() time.Time
}

// NewUSIDService creates a new USIDService with injected dependencies.
func NewUSIDService(counterRepo secondary.CounterRepository) *USIDServiceImpl {
	return &USIDServiceImpl{
		counterRepo: counterRepo,
		now:         time.Now,
	}
}

// NewUSIDServiceWithClock creates a USIDService with a fixed clock source,
// for tests and replay tooling.
func NewUSIDServiceWithClock(counterRepo secondary.CounterRepository, now func() time.Time) *USIDServiceImpl {
	return &USIDServiceImpl{
		counterRepo: counterRepo,
		now:         now,
	}
}

// GenerateUSID issues the next USID for a part. Counters are scoped per
// part per day, so the sequence restarts at one each morning.
func (s *USIDServiceImpl) GenerateUSID(ctx context.Context, partNumber string) (string, error) {
	if partNumber == "" {
		return "", fmt.Errorf("part number is required")
	}

	day := s.now()
	counter, err := s.counterRepo.NextCounter(ctx, partNumber, usid.Day(day))
	if err != nil {
		return "", err
	}
	return usid.Format(partNumber, day, counter), nil
}

// Ensure USIDServiceImpl implements the interface
var _ primary.USIDService = (*USIDServiceImpl)(nil)
