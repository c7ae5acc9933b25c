package gadget

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the gadgets schema applied.
// The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "gadget-test-*.db")
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
		CREATE TABLE gadgets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			success INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'Available',
			timestamp TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE UNIQUE INDEX idx_gadgets_name ON gadgets(name);
	`
	if _, err := db.Exec(migrationSQL); err != nil {
		t.Fatalf("creating gadgets table: %v", err)
	}

	return db
}

// captureSink records published events for assertions.
type captureSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *captureSink) Publish(_ context.Context, event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *captureSink) last(t *testing.T) Event {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		t.Fatal("no events published")
	}
	return s.events[len(s.events)-1]
}

// testService builds a Service backed by a fresh test database,
// returning the event capture sink alongside.
func testService(t *testing.T) (*Service, *captureSink) {
	t.Helper()
	sink := &captureSink{}
	return NewService(NewSQLiteRepository(testDB(t)), sink), sink
}
