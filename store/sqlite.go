package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/stayops/stayauth/auth"
)

const userSchema = `
CREATE TABLE IF NOT EXISTS users (
	id               TEXT PRIMARY KEY,
	role             TEXT NOT NULL,
	organization_id  TEXT NOT NULL DEFAULT '',
	property_id      TEXT NOT NULL DEFAULT '',
	guest_profile_id TEXT NOT NULL DEFAULT '',
	staff_profile_id TEXT NOT NULL DEFAULT '',
	disabled         INTEGER NOT NULL DEFAULT 0,
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_users_org ON users(organization_id);
`

// SQLiteUserStore persists user records in SQLite.
type SQLiteUserStore struct {
	db *sql.DB
}

// OpenSQLiteUserStore opens (creating if needed) a SQLite user store at path.
// Use ":memory:" for an ephemeral store.
func OpenSQLiteUserStore(path string) (*SQLiteUserStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening user store: %w", err)
	}
	if _, err := db.Exec(userSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing user schema: %w", err)
	}
	return &SQLiteUserStore{db: db}, nil
}

// NewSQLiteUserStore wraps an existing database handle. The schema must
// already exist.
func NewSQLiteUserStore(db *sql.DB) *SQLiteUserStore {
	return &SQLiteUserStore{db: db}
}

// Close releases the underlying database handle.
func (s *SQLiteUserStore) Close() error {
	return s.db.Close()
}

// Create inserts a new user record. The ID is generated if empty.
func (s *SQLiteUserStore) Create(ctx context.Context, rec *auth.UserRecord) error {
	if rec.ID == "" {
		rec.ID = "usr-" + uuid.NewString()[:8]
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, role, organization_id, property_id, guest_profile_id, staff_profile_id, disabled, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Role), rec.OrganizationID, rec.PropertyID,
		rec.GuestProfileID, rec.StaffProfileID, boolToInt(rec.Disabled), now, now,
	)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// FindByID returns the current record for a subject.
func (s *SQLiteUserStore) FindByID(ctx context.Context, subjectID string) (*auth.UserRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, role, organization_id, property_id, guest_profile_id, staff_profile_id, disabled
		 FROM users WHERE id = ?`, subjectID)

	var rec auth.UserRecord
	var role string
	var disabled int
	err := row.Scan(&rec.ID, &role, &rec.OrganizationID, &rec.PropertyID,
		&rec.GuestProfileID, &rec.StaffProfileID, &disabled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", auth.ErrPrincipalNotFound, subjectID)
	}
	if err != nil {
		return nil, fmt.Errorf("reading user: %w", err)
	}

	parsed, err := auth.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("reading user %s: %w", subjectID, err)
	}
	rec.Role = parsed
	rec.Disabled = disabled != 0
	return &rec, nil
}

// SetRole updates a subject's role.
func (s *SQLiteUserStore) SetRole(ctx context.Context, subjectID string, role auth.Role) error {
	return s.update(ctx, subjectID, "role = ?", string(role))
}

// SetDisabled flips a subject's disabled flag.
func (s *SQLiteUserStore) SetDisabled(ctx context.Context, subjectID string, disabled bool) error {
	return s.update(ctx, subjectID, "disabled = ?", boolToInt(disabled))
}

func (s *SQLiteUserStore) update(ctx context.Context, subjectID, setClause string, value any) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET "+setClause+", updated_at = ? WHERE id = ?",
		value, now, subjectID)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", auth.ErrPrincipalNotFound, subjectID)
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *SQLiteUserStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Ensure SQLiteUserStore implements auth.UserStore
var _ auth.UserStore = (*SQLiteUserStore)(nil)
