package db

// SchemaSQL is the complete schema for fresh installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests
// load it via GetSchemaSQL() so repository code and tests can never drift:
// a query against a column missing here fails immediately with
// "no such column".
//
// When adding columns or tables:
//  1. Add a migration in internal/db/migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Users (accounts; characters belong to users)
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Characters (one garrison at most per character)
CREATE TABLE IF NOT EXISTS characters (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL UNIQUE,
	faction TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_characters_user ON characters(user_id);

-- Garrisons (aggregate root; the ledger and its harvest clocks live here)
CREATE TABLE IF NOT EXISTS garrisons (
	id TEXT PRIMARY KEY,
	character_id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL UNIQUE,
	zone_code TEXT NOT NULL,
	gold INTEGER NOT NULL DEFAULT 0,
	wood INTEGER NOT NULL DEFAULT 0,
	food INTEGER NOT NULL DEFAULT 0,
	plot INTEGER NOT NULL DEFAULT 0,
	gold_last_update DATETIME,
	wood_last_update DATETIME,
	food_last_update DATETIME,
	version INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY (character_id) REFERENCES characters(id)
);

-- Buildings owned by a garrison; levels are derived from constructions,
-- never stored
CREATE TABLE IF NOT EXISTS garrison_buildings (
	id TEXT PRIMARY KEY,
	garrison_id TEXT NOT NULL,
	code TEXT NOT NULL,
	FOREIGN KEY (garrison_id) REFERENCES garrisons(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_garrison_buildings_garrison ON garrison_buildings(garrison_id);

-- Constructions (instantiations and improvements; finished rows are
-- historical record)
CREATE TABLE IF NOT EXISTS constructions (
	id TEXT PRIMARY KEY,
	garrison_id TEXT NOT NULL,
	building_id TEXT NOT NULL,
	begin_date DATETIME NOT NULL,
	end_date DATETIME NOT NULL,
	workforce INTEGER NOT NULL DEFAULT 0,
	improvement_type TEXT CHECK(improvement_type IN ('upgrade', 'extension')),
	improvement_level INTEGER,
	FOREIGN KEY (garrison_id) REFERENCES garrisons(id) ON DELETE CASCADE,
	FOREIGN KEY (building_id) REFERENCES garrison_buildings(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_constructions_garrison ON constructions(garrison_id);
CREATE INDEX IF NOT EXISTS idx_constructions_building ON constructions(building_id);

-- Unit cohorts (one row per unit code per garrison)
CREATE TABLE IF NOT EXISTS garrison_units (
	id TEXT PRIMARY KEY,
	garrison_id TEXT NOT NULL,
	code TEXT NOT NULL,
	quantity INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (garrison_id) REFERENCES garrisons(id) ON DELETE CASCADE,
	UNIQUE(garrison_id, code)
);

CREATE INDEX IF NOT EXISTS idx_garrison_units_garrison ON garrison_units(garrison_id);

-- Assignments (training slots, construction commitments, standing
-- harvest assignments)
CREATE TABLE IF NOT EXISTS assignments (
	id TEXT PRIMARY KEY,
	garrison_id TEXT NOT NULL,
	unit_id TEXT NOT NULL,
	building_id TEXT,
	quantity INTEGER NOT NULL,
	type TEXT NOT NULL CHECK(type IN ('instantiation', 'construction', 'harvest')),
	end_date DATETIME NOT NULL,
	FOREIGN KEY (garrison_id) REFERENCES garrisons(id) ON DELETE CASCADE,
	FOREIGN KEY (unit_id) REFERENCES garrison_units(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_assignments_garrison ON assignments(garrison_id);
CREATE INDEX IF NOT EXISTS idx_assignments_unit ON assignments(unit_id);
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
		// Fresh install - create the schema and mark every migration applied
		if _, err = db.Exec(SchemaSQL); err != nil {
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
			if _, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
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
