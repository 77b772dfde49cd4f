package db

import (
	"database/sql"
	"fmt"
)

// SeedFixtures populates the database with development fixtures: one part
// with a representative procedure configuration covering both schema
// groups. The dynamic tables themselves are created by the synchronizer on
// the first procedure save, not here.
func SeedFixtures(database *sql.DB) error {
	if _, err := database.Exec("INSERT INTO parts (part_number) VALUES (?)", "EICS145"); err != nil {
		return fmt.Errorf("seed parts: %w", err)
	}

	stages := []struct {
		name     string
		position int
		fields   []struct{ name, kind, label string }
	}{
		{"kit", 0, []struct{ name, kind, label string }{
			{"sale_order_no", "text", "Sale Order No"},
			{"quantity", "text", "Kit Quantity"},
		}},
		{"smd", 1, []struct{ name, kind, label string }{
			{"available_quantity", "text", "Available Quantity"},
		}},
		{"smd_qc", 2, []struct{ name, kind, label string }{
			{"available_quantity", "text", "Available Quantity"},
			{"visual_check", "boolean", "Visual Check"},
		}},
		{"qc", 7, []struct{ name, kind, label string }{
			{"available_quantity", "text", "Available Quantity"},
		}},
		{"testing", 9, nil},
		{"dispatch", 14, []struct{ name, kind, label string }{
			{"courier", "text", "Courier"},
		}},
	}

	for _, s := range stages {
		res, err := database.Exec(
			"INSERT INTO procedure_stages (part_number, name, enabled, position) VALUES (?, ?, 1, ?)",
			"EICS145", s.name, s.position,
		)
		if err != nil {
			return fmt.Errorf("seed stage %s: %w", s.name, err)
		}
		stageID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("seed stage %s: %w", s.name, err)
		}
		for i, f := range s.fields {
			if _, err := database.Exec(
				"INSERT INTO procedure_fields (stage_id, name, kind, label, ord) VALUES (?, ?, ?, ?, ?)",
				stageID, f.name, f.kind, f.label, i,
			); err != nil {
				return fmt.Errorf("seed field %s.%s: %w", s.name, f.name, err)
			}
		}
	}

	return nil
}
