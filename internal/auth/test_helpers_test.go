package auth

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testSecret is a signing secret long enough to pass config validation.
const testSecret = "test-secret-0123456789abcdef0123456789abcdef"

// testDB creates a temporary SQLite database with the accounts schema applied.
// The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	// Use a temp file so WAL mode works (in-memory doesn't support it)
	f, err := os.CreateTemp("", "auth-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migrationSQL := `
		CREATE TABLE accounts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			password_digest TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE UNIQUE INDEX idx_accounts_name ON accounts(name);
	`
	if _, err := db.Exec(migrationSQL); err != nil {
		t.Fatalf("creating accounts table: %v", err)
	}

	return db
}

// testService builds a Service backed by a fresh test database.
func testService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewAccountRepository(testDB(t)), testSecret, 1)
}
