// Package sqlite_test contains integration tests for SQLite adapters.
//
// All test setup goes through setupTestDB, which applies the authoritative
// static schema from db.GetSchemaSQL() so tests cannot drift from
// production. Dynamic per-part tables are created through the Synchronizer
// in each test, the same way production creates them.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	sqliteadapter "github.com/example/prodline/internal/adapters/sqlite"
	"github.com/example/prodline/internal/core/schema"
	"github.com/example/prodline/internal/core/stage"
	"github.com/example/prodline/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative static
// schema. This is the single shared test database setup function.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// buildTestPair derives the schema pair for the standard test part.
func buildTestPair(t *testing.T) schema.Pair {
	t.Helper()

	stages := []schema.StageDefinition{
		{Name: stage.Kit, Enabled: true, Position: 0, Fields: []schema.FieldDef{
			{Name: "sale_order_no", Kind: schema.KindText, Label: "Sale Order No"},
			{Name: "quantity", Kind: schema.KindText, Label: "Kit Quantity"},
		}},
		{Name: stage.SMD, Enabled: true, Position: 1, Fields: []schema.FieldDef{
			{Name: "available_quantity", Kind: schema.KindText},
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

	pair, err := schema.BuildSchemas("EICS145", stages)
	if err != nil {
		t.Fatalf("failed to build test schemas: %v", err)
	}
	return pair
}

// reconcileTestPair creates both dynamic tables for the test part.
func reconcileTestPair(t *testing.T, database *sql.DB) schema.Pair {
	t.Helper()

	pair := buildTestPair(t)
	sync := sqliteadapter.NewSynchronizer(database)
	if err := sync.Reconcile(context.Background(), pair.InProcess); err != nil {
		t.Fatalf("failed to reconcile in-process table: %v", err)
	}
	if err := sync.Reconcile(context.Background(), pair.Completion); err != nil {
		t.Fatalf("failed to reconcile completion table: %v", err)
	}
	return pair
}

// tableColumns returns the column names of a table.
func tableColumns(t *testing.T, database *sql.DB, table string) map[string]bool {
	t.Helper()

	rows, err := database.Query("SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		t.Fatalf("failed to inspect table %s: %v", table, err)
	}
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan column: %v", err)
		}
		cols[name] = true
	}
	return cols
}
