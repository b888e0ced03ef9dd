package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeUserStore is an in-test UserStore with mutable records and a call
// counter for cache assertions.
type fakeUserStore struct {
	mu      sync.Mutex
	records map[string]UserRecord
	calls   int
	err     error
}

func newFakeUserStore(records ...UserRecord) *fakeUserStore {
	s := &fakeUserStore{records: make(map[string]UserRecord)}
	for _, rec := range records {
		s.records[rec.ID] = rec
	}
	return s
}

func (s *fakeUserStore) FindByID(_ context.Context, subjectID string) (*UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	rec, ok := s.records[subjectID]
	if !ok {
		return nil, fmt.Errorf("fake store: %w", ErrPrincipalNotFound)
	}
	return &rec, nil
}

func (s *fakeUserStore) set(rec UserRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
}

func (s *fakeUserStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func sessionClaimsFor(subjectID string) *SessionClaims {
	now := time.Now()
	claims := NewSessionClaims(&Principal{ID: subjectID, Role: RoleStaff, OrganizationID: "org-1"}, now, time.Hour)
	return &claims
}

func TestResolverResolve(t *testing.T) {
	store := newFakeUserStore(
		UserRecord{ID: "usr-staff", Role: RoleStaff, OrganizationID: "org-1", PropertyID: "prop-1", StaffProfileID: "sp-1"},
		UserRecord{ID: "usr-guest", Role: RoleGuest, OrganizationID: "org-1", PropertyID: "prop-9", GuestProfileID: "gp-1"},
		UserRecord{ID: "usr-root", Role: RoleSuperAdmin},
		UserRecord{ID: "usr-off", Role: RoleStaff, OrganizationID: "org-1", Disabled: true},
		UserRecord{ID: "usr-orphan", Role: RoleManager},
	)
	resolver := NewPrincipalResolver(store, ResolverConfig{CacheTTL: -1})

	tests := []struct {
		name     string
		subject  string
		wantErr  error
		wantCode RejectionCode
		check    func(t *testing.T, p *Principal)
	}{
		{
			name:    "staff keeps property linkage",
			subject: "usr-staff",
			check: func(t *testing.T, p *Principal) {
				if p.PropertyID != "prop-1" {
					t.Errorf("PropertyID = %q, want prop-1", p.PropertyID)
				}
				if p.StaffProfileID != "sp-1" {
					t.Errorf("StaffProfileID = %q, want sp-1", p.StaffProfileID)
				}
			},
		},
		{
			name:    "guest drops property linkage",
			subject: "usr-guest",
			check: func(t *testing.T, p *Principal) {
				if p.PropertyID != "" {
					t.Errorf("PropertyID = %q, want empty for guest", p.PropertyID)
				}
				if p.GuestProfileID != "gp-1" {
					t.Errorf("GuestProfileID = %q, want gp-1", p.GuestProfileID)
				}
			},
		},
		{
			name:    "super_admin without organization",
			subject: "usr-root",
			check: func(t *testing.T, p *Principal) {
				if !p.IsSuperAdmin() {
					t.Error("IsSuperAdmin() = false, want true")
				}
				if p.OrganizationID != "" {
					t.Errorf("OrganizationID = %q, want empty", p.OrganizationID)
				}
			},
		},
		{
			name:     "unknown subject",
			subject:  "usr-gone",
			wantErr:  ErrPrincipalNotFound,
			wantCode: CodePrincipalNotFound,
		},
		{
			name:     "disabled account",
			subject:  "usr-off",
			wantErr:  ErrPrincipalDisabled,
			wantCode: CodePrincipalDisabled,
		},
		{
			name:     "non super_admin without organization",
			subject:  "usr-orphan",
			wantErr:  ErrPrincipalNotFound,
			wantCode: CodePrincipalNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := resolver.Resolve(context.Background(), sessionClaimsFor(tt.subject))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				var rej *RejectionError
				if !errors.As(err, &rej) || rej.Code != tt.wantCode {
					t.Errorf("rejection = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			tt.check(t, p)
		})
	}
}

func TestResolverNilClaims(t *testing.T) {
	resolver := NewPrincipalResolver(newFakeUserStore(), ResolverConfig{})
	if _, err := resolver.Resolve(context.Background(), nil); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("Resolve(nil) error = %v, want ErrMalformedToken", err)
	}
}

func TestResolverBoundedStaleness(t *testing.T) {
	store := newFakeUserStore(
		UserRecord{ID: "usr-1", Role: RoleManager, OrganizationID: "org-1"},
	)
	resolver := NewPrincipalResolver(store, ResolverConfig{CacheTTL: time.Hour})

	p, err := resolver.Resolve(context.Background(), sessionClaimsFor("usr-1"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if p.Role != RoleManager {
		t.Fatalf("Role = %v, want manager", p.Role)
	}

	// Demote in the store. Within the staleness window the cached snapshot
	// may still answer.
	store.set(UserRecord{ID: "usr-1", Role: RoleStaff, OrganizationID: "org-1"})
	p, err = resolver.Resolve(context.Background(), sessionClaimsFor("usr-1"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if p.Role != RoleManager {
		t.Fatalf("within TTL Role = %v, want cached manager", p.Role)
	}
	if got := store.callCount(); got != 1 {
		t.Errorf("store calls = %d, want 1 (second resolve served from cache)", got)
	}

	// Invalidation forces the next resolve to see the demotion immediately.
	resolver.Invalidate("usr-1")
	p, err = resolver.Resolve(context.Background(), sessionClaimsFor("usr-1"))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if p.Role != RoleStaff {
		t.Errorf("after invalidation Role = %v, want staff", p.Role)
	}
}

func TestResolverDoesNotCacheErrors(t *testing.T) {
	store := newFakeUserStore()
	resolver := NewPrincipalResolver(store, ResolverConfig{CacheTTL: time.Hour})

	if _, err := resolver.Resolve(context.Background(), sessionClaimsFor("usr-1")); !errors.Is(err, ErrPrincipalNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrPrincipalNotFound", err)
	}

	// The subject appears; the earlier miss must not linger.
	store.set(UserRecord{ID: "usr-1", Role: RoleGuest, OrganizationID: "org-1"})
	if _, err := resolver.Resolve(context.Background(), sessionClaimsFor("usr-1")); err != nil {
		t.Fatalf("Resolve() after record appears error = %v", err)
	}
}

func TestResolverPropagatesStoreFailure(t *testing.T) {
	store := newFakeUserStore()
	store.err = errors.New("connection refused")
	resolver := NewPrincipalResolver(store, ResolverConfig{CacheTTL: -1})

	_, err := resolver.Resolve(context.Background(), sessionClaimsFor("usr-1"))
	if err == nil {
		t.Fatal("Resolve() with failing store should error")
	}
	if errors.Is(err, ErrPrincipalNotFound) {
		t.Error("store failure must not masquerade as a missing principal")
	}
}
