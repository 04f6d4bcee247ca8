package domain

import "context"

// ContextKey is a type for context keys to avoid magic strings
type ContextKey string

const (
	// ContextKeyClaims is the key for the verified token claims in the context
	ContextKeyClaims ContextKey = "claims"
	// ContextKeySubject is the key for the subject of the verified token in the context
	ContextKeySubject ContextKey = "sub"
)

// WithClaims adds the verified claims and their subject to the context
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, ContextKeyClaims, claims)
	return context.WithValue(ctx, ContextKeySubject, claims.Subject)
}

// GetClaims retrieves the verified claims from the context
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(*Claims)
	return claims, ok
}

// GetSubject retrieves the subject of the verified token from the context
func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(ContextKeySubject).(string)
	return subject, ok
}
