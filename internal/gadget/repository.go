package gadget

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for gadget persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// GetByID retrieves a gadget by its unique identifier.
	// Returns ErrNotFound if the gadget does not exist.
	GetByID(ctx context.Context, id string) (*Gadget, error)

	// GetByName retrieves a gadget by its codename.
	// Returns ErrNotFound if the gadget does not exist.
	GetByName(ctx context.Context, name string) (*Gadget, error)

	// List retrieves all gadgets.
	List(ctx context.Context) ([]Gadget, error)

	// ListByStatus retrieves all gadgets in a specific status.
	ListByStatus(ctx context.Context, status Status) ([]Gadget, error)

	// Create inserts a new gadget.
	// Returns ErrNameExists if the codename is already taken.
	Create(ctx context.Context, gadget *Gadget) error

	// Update modifies an existing gadget's mutable fields.
	// Returns ErrNotFound if the gadget does not exist.
	Update(ctx context.Context, gadget *Gadget) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const gadgetColumns = "id, name, success, status, timestamp, created_at, updated_at"

// GetByID retrieves a gadget by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Gadget, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+gadgetColumns+" FROM gadgets WHERE id = ?", id)
	return scanGadgetFrom(row)
}

// GetByName retrieves a gadget by its codename.
func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*Gadget, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+gadgetColumns+" FROM gadgets WHERE name = ?", name)
	return scanGadgetFrom(row)
}

// List retrieves all gadgets ordered by creation date.
func (r *SQLiteRepository) List(ctx context.Context) ([]Gadget, error) {
	return r.queryGadgets(ctx,
		"SELECT "+gadgetColumns+" FROM gadgets ORDER BY created_at ASC")
}

// ListByStatus retrieves all gadgets in a specific status.
func (r *SQLiteRepository) ListByStatus(ctx context.Context, status Status) ([]Gadget, error) {
	return r.queryGadgets(ctx,
		"SELECT "+gadgetColumns+" FROM gadgets WHERE status = ? ORDER BY created_at ASC",
		string(status))
}

// Create inserts a new gadget. The ID is generated if empty.
//
// Codename uniqueness is enforced by the database's UNIQUE index; a
// violation surfaces as ErrNameExists.
func (r *SQLiteRepository) Create(ctx context.Context, g *Gadget) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}

	now := time.Now().UTC().Format(time.RFC3339)
	g.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled
	g.UpdatedAt = g.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO gadgets (id, name, success, status, timestamp, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Success, string(g.Status), nullTime(g.Timestamp), now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrNameExists
		}
		return fmt.Errorf("creating gadget: %w", err)
	}

	return nil
}

// Update modifies a gadget's mutable fields (success, status, timestamp).
func (r *SQLiteRepository) Update(ctx context.Context, g *Gadget) error {
	now := time.Now().UTC().Format(time.RFC3339)
	g.UpdatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled

	result, err := r.db.ExecContext(ctx,
		`UPDATE gadgets SET success = ?, status = ?, timestamp = ?, updated_at = ? WHERE id = ?`,
		g.Success, string(g.Status), nullTime(g.Timestamp), now, g.ID,
	)
	if err != nil {
		return fmt.Errorf("updating gadget: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// queryGadgets executes a query and scans all gadget results.
func (r *SQLiteRepository) queryGadgets(ctx context.Context, query string, args ...any) ([]Gadget, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing gadgets: %w", err)
	}
	defer rows.Close()

	var gadgets []Gadget
	for rows.Next() {
		g, err := scanGadgetFrom(rows)
		if err != nil {
			return nil, err
		}
		gadgets = append(gadgets, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating gadgets: %w", err)
	}

	if gadgets == nil {
		gadgets = []Gadget{}
	}
	return gadgets, nil
}

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// scanGadgetFrom scans a gadget from any scanner (Row or Rows).
func scanGadgetFrom(s scanner) (*Gadget, error) {
	var g Gadget
	var status string
	var timestamp sql.NullString
	var createdAt, updatedAt string

	err := s.Scan(&g.ID, &g.Name, &g.Success, &status, &timestamp, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning gadget: %w", err)
	}

	g.Status = Status(status)
	if timestamp.Valid {
		t, err := time.Parse(time.RFC3339, timestamp.String)
		if err == nil {
			g.Timestamp = &t
		}
	}

	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	g.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &g, nil
}

// nullTime converts an optional time to a nullable column value.
func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

// isUniqueViolation checks if a SQLite error is a UNIQUE constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "unique constraint"))
}
