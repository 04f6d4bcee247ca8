package domain

import "context"

// Authorizer verifies a bearer token and checks that it grants a permission.
// Failures are returned as *apperrors.AuthError.
type Authorizer interface {
	Check(ctx context.Context, token string, permission Permission) (*Claims, error)
}
