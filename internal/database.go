package internal

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// kv table mirrors the browser's localStorage: one row per key
const createKVTableSQL = `
CREATE TABLE IF NOT EXISTS faradayKV (
	key TEXT PRIMARY KEY,
	value TEXT
)`

// OpenDatabase opens (creating if needed) the local dashboard database
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Key: path, Op: "open", Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Key: path, Op: "open", Err: fmt.Errorf("database ping failed: %w", err)}
	}

	if _, err := db.Exec(createKVTableSQL); err != nil {
		db.Close()
		return nil, &StorageError{Key: path, Op: "open", Err: fmt.Errorf("failed to create faradayKV table: %w", err)}
	}

	return db, nil
}

// GetValue reads one value from faradayKV. A missing key is not an error;
// it returns ("", false, nil).
func GetValue(db *sql.DB, key string) (string, bool, error) {
	var value sql.NullString
	err := db.QueryRow("SELECT value FROM faradayKV WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Key: key, Op: "get", Err: err}
	}
	if !value.Valid {
		return "", false, nil
	}
	return value.String, true, nil
}

// PutValue writes one value into faradayKV, replacing any existing row
func PutValue(db *sql.DB, key, value string) error {
	_, err := db.Exec(
		"INSERT INTO faradayKV (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return &StorageError{Key: key, Op: "put", Err: err}
	}
	return nil
}

// DeleteValue removes one key from faradayKV; deleting a missing key is a no-op
func DeleteValue(db *sql.DB, key string) error {
	if _, err := db.Exec("DELETE FROM faradayKV WHERE key = ?", key); err != nil {
		return &StorageError{Key: key, Op: "delete", Err: err}
	}
	return nil
}

// QueryKeys returns all key/value pairs whose key matches a LIKE pattern
func QueryKeys(db *sql.DB, pattern string) ([]KeyValuePair, error) {
	rows, err := db.Query("SELECT key, value FROM faradayKV WHERE key LIKE ? AND value IS NOT NULL", pattern)
	if err != nil {
		return nil, &StorageError{Key: pattern, Op: "get", Err: err}
	}
	defer rows.Close()

	var pairs []KeyValuePair
	for rows.Next() {
		var pair KeyValuePair
		var value sql.NullString
		if err := rows.Scan(&pair.Key, &value); err != nil {
			return nil, &StorageError{Key: pattern, Op: "get", Err: err}
		}
		if value.Valid {
			pair.Value = value.String
			pairs = append(pairs, pair)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, &StorageError{Key: pattern, Op: "get", Err: err}
	}

	return pairs, nil
}

// KeyValuePair represents a key-value pair from faradayKV
type KeyValuePair struct {
	Key   string
	Value string
}
