package auth

import (
	"context"
	"testing"
	"time"
)

// BenchmarkTokenCodec_Encode measures token signing.
func BenchmarkTokenCodec_Encode(b *testing.B) {
	codec, err := NewTokenCodec(TokenCodecConfig{Secret: testSecret})
	if err != nil {
		b.Fatal(err)
	}
	claims := NewSessionClaims(&Principal{ID: "usr-1", Role: RoleManager, OrganizationID: "org-1"}, time.Now(), time.Hour)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = codec.Encode(claims)
	}
}

// BenchmarkTokenCodec_Decode measures verification and claim extraction.
func BenchmarkTokenCodec_Decode(b *testing.B) {
	codec, err := NewTokenCodec(TokenCodecConfig{Secret: testSecret})
	if err != nil {
		b.Fatal(err)
	}
	claims := NewSessionClaims(&Principal{ID: "usr-1", Role: RoleManager, OrganizationID: "org-1"}, time.Now(), time.Hour)
	token, err := codec.Encode(claims)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = codec.Decode(token)
	}
}

// BenchmarkRoleGuard_Authorize measures the set-membership check.
func BenchmarkRoleGuard_Authorize(b *testing.B) {
	guard := RequireRoles(RoleStaff, RoleManager, RoleOwner)
	p := &Principal{ID: "usr-1", Role: RoleManager, OrganizationID: "org-1"}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = guard.Authorize(ctx, p)
	}
}

// BenchmarkEnforceScope measures the tenant isolation check.
func BenchmarkEnforceScope(b *testing.B) {
	p := &Principal{ID: "usr-1", Role: RoleStaff, OrganizationID: "org-1", PropertyID: "prop-1"}
	resource := TenantScope{OrganizationID: "org-1", PropertyID: "prop-1"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = EnforceScope(p, resource)
	}
}
