package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/example/prodline/internal/core/schema"
	"github.com/example/prodline/internal/ports/primary"
	"github.com/example/prodline/internal/ports/secondary"
)

// warnFuzzyResolution logs a field lookup that only the normalized fallback
// path could satisfy. The operation proceeds, but the drift between the
// caller's name and the derivation rule should be visible.
func warnFuzzyResolution(table, requested string, res schema.Resolution) {
	if res.Fuzzy {
		log.Printf("warning: field %q resolved to %s.%s via fallback matching", requested, table, res.Field.QualifiedName)
	}
}

// RecordServiceImpl implements the RecordService interface.
type RecordServiceImpl struct {
	store      secondary.RecordStore
	procedures primary.ProcedureService
}

// NewRecordService creates a new RecordService with injected dependencies.
func NewRecordService(store secondary.RecordStore, procedures primary.ProcedureService) *RecordServiceImpl {
	return &RecordServiceImpl{
		store:      store,
		procedures: procedures,
	}
}

// CreateRecord inserts a record. Value keys are logical field names and are
// resolved against the schema before the write.
func (s *RecordServiceImpl) CreateRecord(ctx context.Context, req primary.CreateRecordRequest) (*primary.Record, error) {
	ps, err := s.schemaFor(ctx, req.PartNumber, req.Which)
	if err != nil {
		return nil, err
	}

	values, err := resolveValues(ps, req.Values)
	if err != nil {
		return nil, err
	}

	id, err := s.store.Create(ctx, ps, values)
	if err != nil {
		return nil, fmt.Errorf("failed to create record for part %s: %w", req.PartNumber, err)
	}

	return s.GetRecord(ctx, req.PartNumber, req.Which, id)
}

// GetRecord retrieves a record by internal identifier.
func (s *RecordServiceImpl) GetRecord(ctx context.Context, partNumber string, which schema.Which, id int64) (*primary.Record, error) {
	ps, err := s.schemaFor(ctx, partNumber, which)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.Get(ctx, ps, id)
	if err != nil {
		return nil, err
	}
	return storedToRecord(stored), nil
}

// UpdateRecord writes the given field values on a record.
func (s *RecordServiceImpl) UpdateRecord(ctx context.Context, req primary.UpdateRecordRequest) error {
	ps, err := s.schemaFor(ctx, req.PartNumber, req.Which)
	if err != nil {
		return err
	}

	values, err := resolveValues(ps, req.Values)
	if err != nil {
		return err
	}

	return s.store.Update(ctx, ps, req.ID, values)
}

// FindBySecondaryKey retrieves records matching a logical field value. The
// candidates are tried in order, exact names first.
func (s *RecordServiceImpl) FindBySecondaryKey(ctx context.Context, req primary.FindRecordsRequest) ([]*primary.Record, error) {
	ps, err := s.schemaFor(ctx, req.PartNumber, req.Which)
	if err != nil {
		return nil, err
	}

	res, err := schema.ResolveField(ps, req.Candidates)
	if err != nil {
		return nil, err
	}
	warnFuzzyResolution(ps.TableName, strings.Join(req.Candidates, "/"), res)

	stored, err := s.store.FindByField(ctx, ps, res.Field.QualifiedName, req.Value)
	if err != nil {
		return nil, err
	}

	records := make([]*primary.Record, len(stored))
	for i, rec := range stored {
		records[i] = storedToRecord(rec)
	}
	return records, nil
}

func (s *RecordServiceImpl) schemaFor(ctx context.Context, partNumber string, which schema.Which) (*schema.PartSchema, error) {
	ps, err := s.procedures.GetSchema(ctx, partNumber, which)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		return nil, fmt.Errorf("no procedure configured for part %s", partNumber)
	}
	return ps, nil
}

// resolveValues maps logical field names to qualified column names. Two
// inputs resolving to the same column is a caller error.
func resolveValues(ps *schema.PartSchema, values map[string]string) (map[string]string, error) {
	resolved := make(map[string]string, len(values))
	origin := make(map[string]string, len(values))
	for name, value := range values {
		res, err := schema.ResolveField(ps, []string{name})
		if err != nil {
			return nil, err
		}
		warnFuzzyResolution(ps.TableName, name, res)
		q := res.Field.QualifiedName
		if prev, dup := origin[q]; dup {
			return nil, fmt.Errorf("fields %q and %q both resolve to column %s", prev, name, q)
		}
		origin[q] = name
		resolved[q] = value
	}
	return resolved, nil
}

func storedToRecord(stored *secondary.StoredRecord) *primary.Record {
	return &primary.Record{
		ID:        stored.ID,
		Values:    stored.Values,
		CreatedAt: stored.CreatedAt,
		UpdatedAt: stored.UpdatedAt,
	}
}

// Ensure RecordServiceImpl implements the interface
var _ primary.RecordService = (*RecordServiceImpl)(nil)
