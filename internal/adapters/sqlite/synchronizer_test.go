package sqlite_test

import (
	"context"
	"testing"

	sqliteadapter "github.com/example/prodline/internal/adapters/sqlite"
	"github.com/example/prodline/internal/core/schema"
	"github.com/example/prodline/internal/core/stage"
)

func TestSynchronizerCreatesTables(t *testing.T) {
	database := setupTestDB(t)
	pair := reconcileTestPair(t, database)

	cols := tableColumns(t, database, pair.InProcess.TableName)
	for _, want := range []string{"id", "created_at", "updated_at", "kit_sale_order_no", "kit_quantity", "kit_done", "kit_done_by", "smd_available_quantity"} {
		if !cols[want] {
			t.Errorf("in-process table missing column %s", want)
		}
	}

	compCols := tableColumns(t, database, pair.Completion.TableName)
	for _, want := range []string{"usid", "serial_number", "qc_available_quantity", "qc_done", "dispatch_courier", "dispatch_done_by"} {
		if !compCols[want] {
			t.Errorf("completion table missing column %s", want)
		}
	}
	if compCols["kit_quantity"] {
		t.Error("completion table should not contain pre-qc columns")
	}
}

func TestSynchronizerIsIdempotent(t *testing.T) {
	database := setupTestDB(t)
	pair := reconcileTestPair(t, database)

	sync := sqliteadapter.NewSynchronizer(database)
	if err := sync.Reconcile(context.Background(), pair.InProcess); err != nil {
		t.Fatalf("second reconcile failed: %v", err)
	}

	before := tableColumns(t, database, pair.InProcess.TableName)
	if err := sync.Reconcile(context.Background(), pair.InProcess); err != nil {
		t.Fatalf("third reconcile failed: %v", err)
	}
	after := tableColumns(t, database, pair.InProcess.TableName)
	if len(before) != len(after) {
		t.Errorf("column count changed on repeat reconcile: %d vs %d", len(before), len(after))
	}
}

// A procedure change that adds a field must extend the existing table in
// place: prior rows keep their values and the new column reads as its
// zero default.
func TestSynchronizerAddsColumnsPreservingData(t *testing.T) {
	database := setupTestDB(t)
	pair := reconcileTestPair(t, database)
	ctx := context.Background()

	store := sqliteadapter.NewRecordStore(database)
	id, err := store.Create(ctx, pair.InProcess, map[string]string{
		"kit_sale_order_no": "SO-9001",
		"kit_quantity":      "100",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Rebuild with an extra kit field and a new boolean on smd.
	stages := []schema.StageDefinition{
		{Name: stage.Kit, Enabled: true, Position: 0, Fields: []schema.FieldDef{
			{Name: "sale_order_no", Kind: schema.KindText},
			{Name: "quantity", Kind: schema.KindText},
			{Name: "batch_code", Kind: schema.KindText},
		}},
		{Name: stage.SMD, Enabled: true, Position: 1, Fields: []schema.FieldDef{
			{Name: "available_quantity", Kind: schema.KindText},
			{Name: "paste_inspected", Kind: schema.KindBoolean},
		}},
		{Name: stage.SMDQC, Enabled: true, Position: 2, Fields: []schema.FieldDef{
			{Name: "available_quantity", Kind: schema.KindText},
			{Name: "visual_check", Kind: schema.KindBoolean},
		}},
		{Name: stage.QC, Enabled: true, Position: 7, Fields: []schema.FieldDef{
			{Name: "available_quantity", Kind: schema.KindText},
		}},
		{Name: stage.Dispatch, Enabled: true, Position: 14, Fields: []schema.FieldDef{
			{Name: "courier", Kind: schema.KindText},
		}},
	}
	grown, err := schema.BuildSchemas("EICS145", stages)
	if err != nil {
		t.Fatalf("BuildSchemas failed: %v", err)
	}

	sync := sqliteadapter.NewSynchronizer(database)
	if err := sync.Reconcile(ctx, grown.InProcess); err != nil {
		t.Fatalf("reconcile after growth failed: %v", err)
	}

	record, err := store.Get(ctx, grown.InProcess, id)
	if err != nil {
		t.Fatalf("Get after growth failed: %v", err)
	}
	if record.Values["kit_sale_order_no"] != "SO-9001" {
		t.Errorf("existing value lost: kit_sale_order_no = %q", record.Values["kit_sale_order_no"])
	}
	if record.Values["kit_quantity"] != "100" {
		t.Errorf("existing value lost: kit_quantity = %q", record.Values["kit_quantity"])
	}
	if record.Values["kit_batch_code"] != "" {
		t.Errorf("new text column should default empty, got %q", record.Values["kit_batch_code"])
	}
	if record.Values["smd_paste_inspected"] != "0" {
		t.Errorf("new boolean column should default to 0, got %q", record.Values["smd_paste_inspected"])
	}
}

func TestSynchronizerRejectsInvalidTableName(t *testing.T) {
	database := setupTestDB(t)
	sync := sqliteadapter.NewSynchronizer(database)

	bad := &schema.PartSchema{
		PartNumber: "EICS145",
		Which:      schema.InProcess,
		TableName:  "evil; DROP TABLE parts",
	}
	if err := sync.Reconcile(context.Background(), bad); err == nil {
		t.Fatal("expected error for invalid table name")
	}
}
