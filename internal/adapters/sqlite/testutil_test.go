// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for
// tests. All test setup uses db.GetSchemaSQL() so tests always run
// against the authoritative schema and cannot drift from it.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use
// setupTestDB() and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/garrison/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err = testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})
	return testDB
}

// seedIdentity inserts a user and character so garrison foreign keys hold.
func seedIdentity(t *testing.T, testDB *sql.DB) {
	t.Helper()
	if _, err := testDB.Exec(
		"INSERT INTO users (id, name) VALUES ('USER-001', 'player-one')",
	); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	if _, err := testDB.Exec(
		"INSERT INTO characters (id, user_id, name, faction) VALUES ('CHAR-001', 'USER-001', 'Thrall', 'horde')",
	); err != nil {
		t.Fatalf("failed to seed character: %v", err)
	}
}
