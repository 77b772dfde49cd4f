package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/example/prodline/internal/core/pipeline"
	"github.com/example/prodline/internal/core/schema"
	"github.com/example/prodline/internal/ports/secondary"
)

// Ensure mocks implement the interfaces
var (
	_ secondary.ProcedureRepository = (*mockProcedureRepo)(nil)
	_ secondary.StorageSynchronizer = (*mockSynchronizer)(nil)
	_ secondary.RecordStore         = (*mockRecordStore)(nil)
	_ secondary.CounterRepository   = (*mockCounterRepo)(nil)
)

// mockProcedureRepo implements secondary.ProcedureRepository in memory.
type mockProcedureRepo struct {
	stages  map[string][]schema.StageDefinition
	saveErr error
	getErr  error
}

func newMockProcedureRepo() *mockProcedureRepo {
	return &mockProcedureRepo{stages: make(map[string][]schema.StageDefinition)}
}

func (m *mockProcedureRepo) Save(ctx context.Context, partNumber string, stages []schema.StageDefinition) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.stages[partNumber] = stages
	return nil
}

func (m *mockProcedureRepo) Get(ctx context.Context, partNumber string) ([]schema.StageDefinition, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.stages[partNumber], nil
}

func (m *mockProcedureRepo) ListParts(ctx context.Context) ([]string, error) {
	parts := make([]string, 0, len(m.stages))
	for p := range m.stages {
		parts = append(parts, p)
	}
	sort.Strings(parts)
	return parts, nil
}

// mockSynchronizer implements secondary.StorageSynchronizer, recording
// reconciled tables. errFor injects a per-table failure.
type mockSynchronizer struct {
	reconciled []string
	errFor     map[string]error
}

func newMockSynchronizer() *mockSynchronizer {
	return &mockSynchronizer{errFor: make(map[string]error)}
}

func (m *mockSynchronizer) Reconcile(ctx context.Context, s *schema.PartSchema) error {
	m.reconciled = append(m.reconciled, s.TableName)
	return m.errFor[s.TableName]
}

// mockRecordStore implements secondary.RecordStore in memory. Every schema
// field is materialized with its zero default on create, matching the
// column defaults of the real store.
type mockRecordStore struct {
	tables map[string]map[int64]*secondary.StoredRecord
	nextID int64
}

func newMockRecordStore() *mockRecordStore {
	return &mockRecordStore{tables: make(map[string]map[int64]*secondary.StoredRecord)}
}

func (m *mockRecordStore) table(name string) map[int64]*secondary.StoredRecord {
	if m.tables[name] == nil {
		m.tables[name] = make(map[int64]*secondary.StoredRecord)
	}
	return m.tables[name]
}

func (m *mockRecordStore) Create(ctx context.Context, s *schema.PartSchema, values map[string]string) (int64, error) {
	row := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		if f.Kind == schema.KindBoolean {
			row[f.QualifiedName] = "0"
		} else {
			row[f.QualifiedName] = ""
		}
	}
	for k, v := range values {
		if _, ok := s.Field(k); !ok {
			return 0, fmt.Errorf("unknown field %s", k)
		}
		row[k] = v
	}

	m.nextID++
	m.table(s.TableName)[m.nextID] = &secondary.StoredRecord{
		ID:        m.nextID,
		Values:    row,
		CreatedAt: "2024-12-20T09:00:00Z",
		UpdatedAt: "2024-12-20T09:00:00Z",
	}
	return m.nextID, nil
}

func (m *mockRecordStore) Get(ctx context.Context, s *schema.PartSchema, id int64) (*secondary.StoredRecord, error) {
	rec, ok := m.table(s.TableName)[id]
	if !ok {
		return nil, fmt.Errorf("record %d not found in %s", id, s.TableName)
	}
	values := make(map[string]string, len(rec.Values))
	for k, v := range rec.Values {
		values[k] = v
	}
	return &secondary.StoredRecord{ID: rec.ID, Values: values, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt}, nil
}

func (m *mockRecordStore) Update(ctx context.Context, s *schema.PartSchema, id int64, values map[string]string) error {
	rec, ok := m.table(s.TableName)[id]
	if !ok {
		return fmt.Errorf("record %d not found in %s", id, s.TableName)
	}
	for k, v := range values {
		if _, fieldOK := s.Field(k); !fieldOK {
			return fmt.Errorf("unknown field %s", k)
		}
		rec.Values[k] = v
	}
	return nil
}

func (m *mockRecordStore) FindByField(ctx context.Context, s *schema.PartSchema, field, value string) ([]*secondary.StoredRecord, error) {
	var out []*secondary.StoredRecord
	for id, rec := range m.table(s.TableName) {
		if rec.Values[field] == value {
			copied, _ := m.Get(ctx, s, id)
			out = append(out, copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockRecordStore) ApplyForward(ctx context.Context, s *schema.PartSchema, id int64, plan pipeline.ForwardPlan) error {
	rec, ok := m.table(s.TableName)[id]
	if !ok {
		return fmt.Errorf("record %d not found in %s", id, s.TableName)
	}
	if rec.Values[plan.GuardField] != plan.GuardValue {
		return fmt.Errorf("forward on record %d in %s: %w", id, s.TableName, secondary.ErrWriteConflict)
	}
	for k, v := range plan.Sets {
		rec.Values[k] = v
	}
	return nil
}

// mockCounterRepo implements secondary.CounterRepository in memory.
type mockCounterRepo struct {
	counters map[string]int
	err      error
}

func newMockCounterRepo() *mockCounterRepo {
	return &mockCounterRepo{counters: make(map[string]int)}
}

func (m *mockCounterRepo) NextCounter(ctx context.Context, partNumber, day string) (int, error) {
	if m.err != nil {
		return 0, &secondary.CounterUnavailableError{PartNumber: partNumber, Err: m.err}
	}
	key := partNumber + "|" + day
	m.counters[key]++
	return m.counters[key], nil
}
