package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the session token lifetime when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// SessionClaims are the signed claims carried by a session token.
//
// Claims are immutable once issued: a role or organization change requires
// re-issuing the token. The role and organization claims are a fast-path hint
// only; the resolver always re-derives them from the user store.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Role is the role at issuance time.
	Role Role `json:"role"`

	// OrganizationID is the tenant at issuance time. Empty for super_admin.
	OrganizationID string `json:"org,omitempty"`
}

// NewSessionClaims builds claims for a principal with the given lifetime.
func NewSessionClaims(p *Principal, now time.Time, ttl time.Duration) SessionClaims {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:           p.Role,
		OrganizationID: p.OrganizationID,
	}
}

// TokenCodecConfig configures the token codec.
type TokenCodecConfig struct {
	// Secret is the HMAC signing key. Required. Never logged.
	Secret []byte

	// Clock overrides the time source for expiry validation. Test hook;
	// defaults to time.Now.
	Clock func() time.Time
}

// TokenCodec signs and verifies session tokens. It is a pure function of the
// signing secret: no I/O, safe for concurrent use.
type TokenCodec struct {
	secret []byte
	clock  func() time.Time
}

// NewTokenCodec creates a codec. The secret must be non-empty.
func NewTokenCodec(cfg TokenCodecConfig) (*TokenCodec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("auth: signing secret is required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TokenCodec{secret: cfg.Secret, clock: clock}, nil
}

// Encode serializes and signs the claims. It fails only when a required
// field is missing; the result is deterministic for identical claims.
func (c *TokenCodec) Encode(claims SessionClaims) (string, error) {
	if claims.Subject == "" {
		return "", ErrEncodingClaims
	}
	if !claims.Role.Valid() {
		return "", ErrEncodingClaims
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return "", ErrEncodingClaims
	}
	if claims.Role != RoleSuperAdmin && claims.OrganizationID == "" {
		return "", ErrEncodingClaims
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", errors.Join(ErrEncodingClaims, err)
	}
	return signed, nil
}

// Decode verifies the signature and structural validity of a token.
//
// Failure modes are disjoint: ErrTokenExpired when past expiry (checked
// before signature problems so an expired token is always reported as
// expired), ErrInvalidSignature when the signature does not verify, and
// ErrMalformedToken for anything that cannot be parsed or is missing a
// required claim.
func (c *TokenCodec) Decode(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, RejectCause(CodeTokenExpired, ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			// Signature verification runs before claims validation, so an
			// expired token with a bad signature surfaces as a signature
			// error. Expiry still wins: read exp without verifying.
			if c.expiredUnverified(token) {
				return nil, RejectCause(CodeTokenExpired, ErrTokenExpired, err)
			}
			return nil, RejectCause(CodeTokenInvalid, ErrInvalidSignature, err)
		default:
			return nil, RejectCause(CodeTokenMalformed, ErrMalformedToken, err)
		}
	}
	if !parsed.Valid {
		return nil, Reject(CodeTokenInvalid, ErrInvalidSignature)
	}
	if claims.Subject == "" || !claims.Role.Valid() || claims.IssuedAt == nil {
		return nil, Reject(CodeTokenMalformed, ErrMalformedToken)
	}
	return claims, nil
}

// expiredUnverified reports whether the token's exp claim is in the past,
// read without signature verification. Only consulted to pick the failure
// mode of an already-rejected token; never grants access.
func (c *TokenCodec) expiredUnverified(token string) bool {
	claims := &SessionClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(c.clock())
}
