package jwt

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"time"

	"github.com/Lecon-a/Coffee-Shop/internal/domain"
	apperrors "github.com/Lecon-a/Coffee-Shop/internal/domain/errors"
	"github.com/Lecon-a/Coffee-Shop/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// KeyProvider resolves a key ID to the issuer's public key
type KeyProvider interface {
	Key(ctx context.Context, kid string) (crypto.PublicKey, error)
}

// Verifier validates bearer tokens issued by the configured issuer and
// enforces permissions on their claims. It implements domain.Authorizer.
type Verifier struct {
	keys   KeyProvider
	parser *jwt.Parser
	now    func() time.Time
	logger *zap.Logger
}

// VerifierOption configures a Verifier
type VerifierOption func(*Verifier)

// WithClock overrides the time source used for expiry checks
func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.now = now
	}
}

// NewVerifier creates a verifier for tokens of cfg.Issuer addressed to cfg.Audience
func NewVerifier(keys KeyProvider, cfg config.AuthConfig, logger *zap.Logger, opts ...VerifierOption) *Verifier {
	v := &Verifier{
		keys:   keys,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(v)
	}

	v.parser = jwt.NewParser(
		jwt.WithValidMethods(cfg.Algorithms),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return v.now() }),
	)

	return v
}

// Check verifies token and, when permission is not empty, that the token
// grants it. The decoded claims are returned on success; every failure is an
// *apperrors.AuthError.
func (v *Verifier) Check(ctx context.Context, token string, permission domain.Permission) (*domain.Claims, error) {
	claims := &domain.Claims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("%w: token header has no kid", ErrUnknownSigningKey)
		}
		return v.keys.Key(ctx, kid)
	})
	if err != nil {
		authErr := classify(err)
		if authErr.Kind == apperrors.KindMalformedToken && v.decodable(token) {
			// header and payload parse, so the signature segment is what failed to decode
			authErr = apperrors.NewAuthError(apperrors.KindInvalidSignature, err)
		}
		v.log(authErr, permission)
		return nil, authErr
	}

	if permission != domain.NoPermission {
		if !claims.HasPermissionsClaim() {
			authErr := apperrors.NewAuthError(apperrors.KindPermissionsClaimMissing, nil)
			v.log(authErr, permission)
			return nil, authErr
		}
		if !claims.HasPermission(permission) {
			authErr := apperrors.NewAuthError(apperrors.KindPermissionDenied,
				fmt.Errorf("permission %q not granted", permission))
			v.log(authErr, permission)
			return nil, authErr
		}
	}

	return claims, nil
}

// classify maps a parser error to an authorization failure kind. The parser
// stops at the first failing step, so at most one of these families applies,
// except for claim validation where expiry takes precedence.
func classify(err error) *apperrors.AuthError {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return apperrors.NewAuthError(apperrors.KindMalformedToken, err)
	case errors.Is(err, ErrKeySetUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return apperrors.NewAuthError(apperrors.KindKeySetUnavailable, err)
	case errors.Is(err, ErrUnknownSigningKey):
		return apperrors.NewAuthError(apperrors.KindUnknownSigningKey, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return apperrors.NewAuthError(apperrors.KindInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.NewAuthError(apperrors.KindTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenInvalidClaims):
		return apperrors.NewAuthError(apperrors.KindInvalidClaims, err)
	default:
		return apperrors.NewAuthError(apperrors.KindMalformedToken, err)
	}
}

// decodable reports whether the header and payload segments of token parse.
func (v *Verifier) decodable(token string) bool {
	_, _, err := v.parser.ParseUnverified(token, &domain.Claims{})
	return err == nil
}

func (v *Verifier) log(err *apperrors.AuthError, permission domain.Permission) {
	fields := []zap.Field{
		zap.String("kind", string(err.Kind)),
		zap.String("permission", permission.String()),
		zap.Error(err.Err),
	}
	if err.Infrastructure() {
		v.logger.Error("Token verification unavailable", fields...)
		return
	}
	if err.Aborted() {
		v.logger.Warn("Token verification aborted by caller", fields...)
		return
	}
	v.logger.Warn("Token rejected", fields...)
}

var _ domain.Authorizer = (*Verifier)(nil)
