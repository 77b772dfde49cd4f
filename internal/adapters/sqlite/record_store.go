package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/example/prodline/internal/core/pipeline"
	"github.com/example/prodline/internal/core/schema"
	"github.com/example/prodline/internal/ports/secondary"
)

// RecordStore implements secondary.RecordStore with SQLite. It is fully
// generic: the schema supplies the table and column names, so one store
// serves every part's tables.
type RecordStore struct {
	db *sql.DB
}

// NewRecordStore creates a new SQLite record store.
func NewRecordStore(db *sql.DB) *RecordStore {
	return &RecordStore{db: db}
}

// Create inserts a record and returns its internal identifier. Values are
// keyed by exact qualified field name; unknown names are rejected.
func (r *RecordStore) Create(ctx context.Context, s *schema.PartSchema, values map[string]string) (int64, error) {
	fields, err := orderedFields(s, values)
	if err != nil {
		return 0, err
	}

	if len(fields) == 0 {
		res, err := r.db.ExecContext(ctx,
			fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", quoteIdent(s.TableName)))
		if err != nil {
			return 0, fmt.Errorf("failed to create record in %s: %w", s.TableName, err)
		}
		return res.LastInsertId()
	}

	cols := make([]string, len(fields))
	marks := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		cols[i] = quoteIdent(f.QualifiedName)
		marks[i] = "?"
		args[i] = encodeValue(f.Kind, values[f.QualifiedName])
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(s.TableName), strings.Join(cols, ", "), strings.Join(marks, ", "))
	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to create record in %s: %w", s.TableName, err)
	}
	return res.LastInsertId()
}

// Get retrieves a record by internal identifier.
func (r *RecordStore) Get(ctx context.Context, s *schema.PartSchema, id int64) (*secondary.StoredRecord, error) {
	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", selectList(s), quoteIdent(s.TableName))

	row := r.db.QueryRowContext(ctx, stmt, id)
	record, err := scanRecord(row, s)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("record %d not found in %s", id, s.TableName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record %d from %s: %w", id, s.TableName, err)
	}
	return record, nil
}

// Update writes the given field values and bumps updated_at.
func (r *RecordStore) Update(ctx context.Context, s *schema.PartSchema, id int64, values map[string]string) error {
	fields, err := orderedFields(s, values)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}

	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	for _, f := range fields {
		sets = append(sets, quoteIdent(f.QualifiedName)+" = ?")
		args = append(args, encodeValue(f.Kind, values[f.QualifiedName]))
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?",
		quoteIdent(s.TableName), strings.Join(sets, ", "))
	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("failed to update record %d in %s: %w", id, s.TableName, err)
	}

	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("record %d not found in %s", id, s.TableName)
	}
	return nil
}

// FindByField retrieves all records whose field equals value. The field
// name must be an exact qualified name; tolerant resolution happens in the
// service layer.
func (r *RecordStore) FindByField(ctx context.Context, s *schema.PartSchema, field, value string) ([]*secondary.StoredRecord, error) {
	spec, ok := s.Field(field)
	if !ok {
		return nil, &schema.FieldNotFoundError{
			Candidates: []string{field},
			Available:  s.FieldNames(),
		}
	}

	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? ORDER BY id",
		selectList(s), quoteIdent(s.TableName), quoteIdent(spec.QualifiedName))
	rows, err := r.db.QueryContext(ctx, stmt, encodeValue(spec.Kind, value))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s by %s: %w", s.TableName, field, err)
	}
	defer rows.Close()

	var records []*secondary.StoredRecord
	for rows.Next() {
		record, err := scanRecord(rows, s)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record from %s: %w", s.TableName, err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// ApplyForward applies a forward plan as one guarded UPDATE: the write
// succeeds only while the originating quantity field still holds the value
// the plan was computed from, so racing operators cannot lose updates.
func (r *RecordStore) ApplyForward(ctx context.Context, s *schema.PartSchema, id int64, plan pipeline.ForwardPlan) error {
	guardSpec, ok := s.Field(plan.GuardField)
	if !ok {
		return &schema.FieldNotFoundError{
			Candidates: []string{plan.GuardField},
			Available:  s.FieldNames(),
		}
	}

	names := make([]string, 0, len(plan.Sets))
	for name := range plan.Sets {
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names)+1)
	args := make([]any, 0, len(names)+3)
	for _, name := range names {
		spec, ok := s.Field(name)
		if !ok {
			return &schema.FieldNotFoundError{
				Candidates: []string{name},
				Available:  s.FieldNames(),
			}
		}
		sets = append(sets, quoteIdent(name)+" = ?")
		args = append(args, encodeValue(spec.Kind, plan.Sets[name]))
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id, encodeValue(guardSpec.Kind, plan.GuardValue))

	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE id = ? AND %s = ?",
		quoteIdent(s.TableName), strings.Join(sets, ", "), quoteIdent(plan.GuardField))
	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("failed to apply forward on record %d in %s: %w", id, s.TableName, err)
	}

	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		if _, err := r.Get(ctx, s, id); err != nil {
			return fmt.Errorf("record %d not found in %s", id, s.TableName)
		}
		return fmt.Errorf("forward on record %d in %s: %w", id, s.TableName, secondary.ErrWriteConflict)
	}
	return nil
}

// orderedFields validates the keys of a values map against the schema and
// returns their specs in schema order, for deterministic SQL.
func orderedFields(s *schema.PartSchema, values map[string]string) ([]schema.FieldSpec, error) {
	var fields []schema.FieldSpec
	provided := map[string]bool{}
	for _, f := range s.Fields {
		if _, ok := values[f.QualifiedName]; ok {
			fields = append(fields, f)
			provided[f.QualifiedName] = true
		}
	}
	for name := range values {
		if !provided[name] {
			return nil, &schema.FieldNotFoundError{
				Candidates: []string{name},
				Available:  s.FieldNames(),
			}
		}
	}
	return fields, nil
}

func selectList(s *schema.PartSchema) string {
	cols := []string{"id"}
	for _, f := range s.Fields {
		cols = append(cols, quoteIdent(f.QualifiedName))
	}
	cols = append(cols, "created_at", "updated_at")
	return strings.Join(cols, ", ")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner, s *schema.PartSchema) (*secondary.StoredRecord, error) {
	n := len(s.Fields)
	record := &secondary.StoredRecord{Values: make(map[string]string, n)}

	raw := make([]any, n)
	dest := make([]any, 0, n+3)
	dest = append(dest, &record.ID)
	for i := range raw {
		dest = append(dest, &raw[i])
	}
	var createdAt, updatedAt sql.NullTime
	dest = append(dest, &createdAt, &updatedAt)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	for i, f := range s.Fields {
		record.Values[f.QualifiedName] = decodeValue(raw[i])
	}
	if createdAt.Valid {
		record.CreatedAt = createdAt.Time.Format(time.RFC3339)
	}
	if updatedAt.Valid {
		record.UpdatedAt = updatedAt.Time.Format(time.RFC3339)
	}
	return record, nil
}

// encodeValue converts a port-level string value to its storage
// representation: booleans become 0/1 integers, text passes through.
func encodeValue(kind schema.FieldKind, value string) any {
	if kind == schema.KindBoolean {
		if value == "1" || strings.EqualFold(value, "true") {
			return 1
		}
		return 0
	}
	return value
}

// decodeValue normalizes a scanned dynamic-column value to the "1"/"0" or
// text convention the rest of the system speaks.
func decodeValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Ensure RecordStore implements the interface
var _ secondary.RecordStore = (*RecordStore)(nil)
