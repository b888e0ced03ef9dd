package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stayops/stayauth/auth"
)

// MemoryUserStore is an in-memory user store.
// Safe for concurrent use; records are copied on read so callers cannot
// mutate shared state.
type MemoryUserStore struct {
	mu      sync.RWMutex
	records map[string]auth.UserRecord
}

// NewMemoryUserStore creates an empty in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{records: make(map[string]auth.UserRecord)}
}

// Put inserts or replaces a record. The ID is generated if empty.
func (s *MemoryUserStore) Put(rec auth.UserRecord) auth.UserRecord {
	if rec.ID == "" {
		rec.ID = "usr-" + uuid.NewString()[:8]
	}
	s.mu.Lock()
	s.records[rec.ID] = rec
	s.mu.Unlock()
	return rec
}

// FindByID returns the current record for a subject.
func (s *MemoryUserStore) FindByID(_ context.Context, subjectID string) (*auth.UserRecord, error) {
	s.mu.RLock()
	rec, ok := s.records[subjectID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", auth.ErrPrincipalNotFound, subjectID)
	}
	return &rec, nil
}

// SetRole updates a record's role. No-op if the subject is unknown.
func (s *MemoryUserStore) SetRole(subjectID string, role auth.Role) {
	s.mu.Lock()
	if rec, ok := s.records[subjectID]; ok {
		rec.Role = role
		s.records[subjectID] = rec
	}
	s.mu.Unlock()
}

// SetDisabled flips a record's disabled flag. No-op if the subject is unknown.
func (s *MemoryUserStore) SetDisabled(subjectID string, disabled bool) {
	s.mu.Lock()
	if rec, ok := s.records[subjectID]; ok {
		rec.Disabled = disabled
		s.records[subjectID] = rec
	}
	s.mu.Unlock()
}

// Ping reports the store as reachable.
func (s *MemoryUserStore) Ping(_ context.Context) error {
	return nil
}

// MemoryRevocationStore is an in-memory token denylist keyed by subject and
// issuance time.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]struct{}
}

// NewMemoryRevocationStore creates an empty denylist.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{revoked: make(map[string]struct{})}
}

// Revoke marks the token identified by (subjectID, issuedAt) as invalid.
func (s *MemoryRevocationStore) Revoke(_ context.Context, subjectID string, issuedAt time.Time) error {
	s.mu.Lock()
	s.revoked[revocationKey(subjectID, issuedAt)] = struct{}{}
	s.mu.Unlock()
	return nil
}

// IsRevoked reports whether the token has been revoked.
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, subjectID string, issuedAt time.Time) (bool, error) {
	s.mu.RLock()
	_, ok := s.revoked[revocationKey(subjectID, issuedAt)]
	s.mu.RUnlock()
	return ok, nil
}

// Ping reports the store as reachable.
func (s *MemoryRevocationStore) Ping(_ context.Context) error {
	return nil
}

// revocationKey builds the denylist key for a token. Unix seconds match the
// granularity of the token's iat claim.
func revocationKey(subjectID string, issuedAt time.Time) string {
	return fmt.Sprintf("revoked:%s:%d", subjectID, issuedAt.Unix())
}

// Ensure implementations satisfy the auth collaborator interfaces
var (
	_ auth.UserStore       = (*MemoryUserStore)(nil)
	_ auth.RevocationStore = (*MemoryRevocationStore)(nil)
)
