package auth

import (
	"errors"
	"fmt"
)

// Sentinel errors for authentication and authorization.
var (
	// Authentication errors. All of these terminate a request with 401.
	ErrMissingCredential = errors.New("auth: missing credential")
	ErrMalformedToken    = errors.New("auth: malformed token")
	ErrInvalidSignature  = errors.New("auth: invalid token signature")
	ErrTokenExpired      = errors.New("auth: token expired")
	ErrTokenRevoked      = errors.New("auth: token revoked")
	ErrPrincipalNotFound = errors.New("auth: principal not found")
	ErrPrincipalDisabled = errors.New("auth: principal disabled")
	ErrUpstreamTimeout   = errors.New("auth: upstream lookup failed")

	// ErrEncodingClaims indicates claims handed to the codec were missing a
	// required field. Callers supply claims, so this never maps to a request
	// rejection.
	ErrEncodingClaims = errors.New("auth: claims missing required field")

	// ErrForbidden is the umbrella authorization error. DenialError matches
	// it via errors.Is.
	ErrForbidden = errors.New("auth: access denied")
)

// RejectionCode identifies the exact authentication failure for audit logging
// and metrics. Only a reduced public form ever reaches a client.
type RejectionCode string

const (
	CodeAuthRequired      RejectionCode = "AUTH_REQUIRED"
	CodeTokenMalformed    RejectionCode = "TOKEN_MALFORMED"
	CodeTokenInvalid      RejectionCode = "TOKEN_INVALID"
	CodeTokenExpired      RejectionCode = "TOKEN_EXPIRED"
	CodeTokenRevoked      RejectionCode = "TOKEN_REVOKED"
	CodePrincipalNotFound RejectionCode = "PRINCIPAL_NOT_FOUND"
	CodePrincipalDisabled RejectionCode = "PRINCIPAL_DISABLED"
	CodeUpstreamTimeout   RejectionCode = "UPSTREAM_TIMEOUT"

	// CodeForbidden is the public code for all authorization denials.
	CodeForbidden RejectionCode = "FORBIDDEN"
)

// RejectionError is an authentication rejection produced by the gate.
// Err is always one of the authentication sentinels above; Cause carries the
// internal failure (store error, parse detail) for logs and is never exposed
// to clients.
type RejectionError struct {
	Code  RejectionCode
	Err   error
	Cause error
}

// Reject builds a RejectionError from a code and its sentinel.
func Reject(code RejectionCode, sentinel error) *RejectionError {
	return &RejectionError{Code: code, Err: sentinel}
}

// RejectCause builds a RejectionError preserving the internal cause.
func RejectCause(code RejectionCode, sentinel, cause error) *RejectionError {
	return &RejectionError{Code: code, Err: sentinel, Cause: cause}
}

func (e *RejectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v (code=%s): %v", e.Err, e.Code, e.Cause)
	}
	return fmt.Sprintf("%v (code=%s)", e.Err, e.Code)
}

// Unwrap returns the sentinel for errors.Is support.
func (e *RejectionError) Unwrap() error {
	return e.Err
}

// Public returns the code safe to expose to clients. Expiry is surfaced so
// clients know to re-authenticate; every other authentication failure
// collapses to AUTH_REQUIRED.
func (e *RejectionError) Public() RejectionCode {
	if e.Code == CodeTokenExpired {
		return CodeTokenExpired
	}
	return CodeAuthRequired
}

// DenialReason classifies an authorization denial.
type DenialReason string

const (
	// ReasonInsufficientRole means the principal's role is not in the
	// required set.
	ReasonInsufficientRole DenialReason = "insufficient_role"

	// ReasonCrossTenantAccess means the resource belongs to another
	// organization or property.
	ReasonCrossTenantAccess DenialReason = "cross_tenant_access"
)

// DenialError is an authorization denial. Identity is already verified when
// one of these is produced, so it carries full principal detail for audit
// logging; clients only ever see a generic 403.
type DenialError struct {
	Reason DenialReason

	// PrincipalID is the denied principal.
	PrincipalID string

	// Have is the principal's actual role.
	Have Role

	// Want is the required role set (insufficient_role only).
	Want RoleSet

	// ResourceScope is the scope that failed to match (cross_tenant_access
	// only).
	ResourceScope TenantScope
}

func (e *DenialError) Error() string {
	switch e.Reason {
	case ReasonInsufficientRole:
		return fmt.Sprintf("auth: denied principal=%q role=%s required=%s",
			e.PrincipalID, e.Have, e.Want)
	case ReasonCrossTenantAccess:
		return fmt.Sprintf("auth: denied principal=%q role=%s scope=%s",
			e.PrincipalID, e.Have, e.ResourceScope)
	default:
		return fmt.Sprintf("auth: denied principal=%q", e.PrincipalID)
	}
}

// Is reports whether this error matches ErrForbidden.
func (e *DenialError) Is(target error) bool {
	return target == ErrForbidden
}
