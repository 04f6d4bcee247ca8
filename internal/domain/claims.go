package domain

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of a verified access token.
type Claims struct {
	jwt.RegisteredClaims
	// Permissions is nil when the token carries no permissions claim at all.
	Permissions []string `json:"permissions"`
}

// HasPermissionsClaim reports whether the token carried a permissions claim,
// even an empty one.
func (c *Claims) HasPermissionsClaim() bool {
	return c.Permissions != nil
}

// HasPermission checks if the permission was granted to the token
func (c *Claims) HasPermission(permission Permission) bool {
	return slices.Contains(c.Permissions, string(permission))
}
