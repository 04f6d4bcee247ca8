package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies why an authorization check failed.
type Kind string

const (
	KindMissingHeader           Kind = "missing_header"
	KindMalformedHeader         Kind = "malformed_header"
	KindMalformedToken          Kind = "malformed_token"
	KindUnknownSigningKey       Kind = "unknown_signing_key"
	KindKeySetUnavailable       Kind = "key_set_unavailable"
	KindInvalidSignature        Kind = "invalid_signature"
	KindTokenExpired            Kind = "token_expired"
	KindInvalidClaims           Kind = "invalid_claims"
	KindPermissionsClaimMissing Kind = "permissions_claim_missing"
	KindPermissionDenied        Kind = "permission_denied"
)

var statusByKind = map[Kind]int{
	KindMissingHeader:           http.StatusUnauthorized,
	KindMalformedHeader:         http.StatusUnauthorized,
	KindMalformedToken:          http.StatusUnauthorized,
	KindUnknownSigningKey:       http.StatusUnauthorized,
	KindKeySetUnavailable:       http.StatusUnauthorized,
	KindInvalidSignature:        http.StatusUnauthorized,
	KindTokenExpired:            http.StatusUnauthorized,
	KindInvalidClaims:           http.StatusUnauthorized,
	KindPermissionsClaimMissing: http.StatusBadRequest,
	KindPermissionDenied:        http.StatusForbidden,
}

var messageByKind = map[Kind]string{
	KindMissingHeader:           "Authorization header is expected.",
	KindMalformedHeader:         "Authorization header must be in the format 'Bearer <token>'.",
	KindMalformedToken:          "Unable to parse authentication token.",
	KindUnknownSigningKey:       "Unable to find the appropriate key.",
	KindKeySetUnavailable:       "Unable to verify authentication token.",
	KindInvalidSignature:        "Token signature is invalid.",
	KindTokenExpired:            "Token expired.",
	KindInvalidClaims:           "Incorrect claims. Please, check the audience and issuer.",
	KindPermissionsClaimMissing: "Permissions not included in JWT.",
	KindPermissionDenied:        "Permission not found.",
}

// AuthError is the single failure type of the authorization layer. Status and
// Message are what the HTTP boundary renders; Err keeps the underlying cause for logs.
type AuthError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

// NewAuthError creates an AuthError with the default status and message for kind.
func NewAuthError(kind Kind, err error) *AuthError {
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusUnauthorized
	}
	return &AuthError{
		Kind:    kind,
		Status:  status,
		Message: messageByKind[kind],
		Err:     err,
	}
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Infrastructure reports whether the failure comes from the trust
// infrastructure (key set unreachable) rather than from the caller's token.
// A key lookup abandoned because the caller went away is not one.
func (e *AuthError) Infrastructure() bool {
	return e.Kind == KindKeySetUnavailable && !e.Aborted()
}

// Aborted reports whether the check stopped because the caller cancelled.
func (e *AuthError) Aborted() bool {
	return errors.Is(e.Err, context.Canceled)
}

// AsAuthError unwraps err into an *AuthError.
func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}

// IsKind checks if err is an AuthError of the given kind
func IsKind(err error, kind Kind) bool {
	authErr, ok := AsAuthError(err)
	return ok && authErr.Kind == kind
}
