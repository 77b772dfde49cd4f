package db

// SchemaSQL is the complete static schema for fresh installs.
//
// This is the SINGLE SOURCE OF TRUTH for the static tables. Tests use it
// via GetSchemaSQL() instead of hardcoding CREATE TABLE statements, so a
// repository referencing a missing column fails immediately with "no such
// column" at development time.
//
// The dynamic per-part tables (<part>_in_process / <part>_completion) are
// owned by the storage synchronizer and never appear here: their shape
// follows each part's procedure configuration, not a migration.
const SchemaSQL = `
-- Parts under procedure configuration
CREATE TABLE IF NOT EXISTS parts (
	part_number TEXT PRIMARY KEY,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Ordered stage list per part
CREATE TABLE IF NOT EXISTS procedure_stages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	part_number TEXT NOT NULL,
	name TEXT NOT NULL,
	enabled INTEGER NOT NULL DEFAULT 1,
	position INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (part_number) REFERENCES parts(part_number) ON DELETE CASCADE,
	UNIQUE(part_number, name)
);

-- Declared fields per stage
CREATE TABLE IF NOT EXISTS procedure_fields (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	stage_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	kind TEXT NOT NULL CHECK(kind IN ('text', 'boolean')),
	label TEXT NOT NULL DEFAULT '',
	ord INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (stage_id) REFERENCES procedure_stages(id) ON DELETE CASCADE,
	UNIQUE(stage_id, name)
);

-- Daily per-part USID counters; created on first request, never deleted
CREATE TABLE IF NOT EXISTS usid_counters (
	part_number TEXT NOT NULL,
	day TEXT NOT NULL,
	counter INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (part_number, day)
);

CREATE INDEX IF NOT EXISTS idx_procedure_stages_part ON procedure_stages(part_number);
CREATE INDEX IF NOT EXISTS idx_procedure_fields_stage ON procedure_fields(stage_id);
`

// InitSchema creates the database schema
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		// Fresh install - create the modern schema directly and mark all
		// migrations as applied so they never run against it.
		if _, err := db.Exec(SchemaSQL); err != nil {
			return err
		}
		_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`)
		if err != nil {
			return err
		}
		for _, m := range migrations {
			if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
				return err
			}
		}
		return nil
	}

	// schema_version table exists - run any pending migrations
	return RunMigrations()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
