package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateInMemoryDB creates an in-memory SQLite database for testing
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS faradayKV (
		key TEXT PRIMARY KEY,
		value TEXT
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create faradayKV table: %v", err)
	}

	return db
}

// InsertValue inserts a raw key/value pair into faradayKV
func InsertValue(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	_, err := db.Exec("INSERT OR REPLACE INTO faradayKV (key, value) VALUES (?, ?)", key, value)
	if err != nil {
		t.Fatalf("Failed to insert %q: %v", key, err)
	}
}

// CreateTestDB creates a database seeded with sample dashboard state
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)

	InsertValue(t, db, "dashboard:widgets", SampleWidgetsJSON)
	InsertValue(t, db, "pref:theme", "dark")

	return db
}
