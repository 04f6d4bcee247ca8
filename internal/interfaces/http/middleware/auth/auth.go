package auth

import (
	"net/http"

	"github.com/Lecon-a/Coffee-Shop/internal/domain"
	apperrors "github.com/Lecon-a/Coffee-Shop/internal/domain/errors"
	"github.com/Lecon-a/Coffee-Shop/internal/infrastructure/jwt"
	"github.com/Lecon-a/Coffee-Shop/internal/infrastructure/metrics"
	"github.com/Lecon-a/Coffee-Shop/internal/interfaces/http/errors"
	"go.uber.org/zap"
)

// AuthMiddleware guards routes with a bearer token and a required permission
type AuthMiddleware struct {
	authorizer domain.Authorizer
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewAuthMiddleware(authorizer domain.Authorizer, m *metrics.Metrics, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{authorizer: authorizer, metrics: m, logger: logger}
}

// RequirePermission admits a request only when its bearer token verifies and
// grants permission. The verified claims are stored in the request context.
func (m *AuthMiddleware) RequirePermission(permission domain.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := jwt.ExtractBearerToken(r.Header.Get("Authorization"))
			if err != nil {
				m.reject(w, r, err)
				return
			}

			claims, err := m.authorizer.Check(r.Context(), token, permission)
			if err != nil {
				m.reject(w, r, err)
				return
			}

			m.metrics.ObserveDecision(metrics.OutcomeAllowed, "")
			next.ServeHTTP(w, r.WithContext(domain.WithClaims(r.Context(), claims)))
		})
	}
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, err error) {
	authErr, ok := apperrors.AsAuthError(err)
	if !ok {
		m.logger.Error("Unexpected authorization error",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		m.metrics.ObserveDecision(metrics.OutcomeError, "")
		errors.HandleError(w, err)
		return
	}

	outcome := metrics.OutcomeDenied
	switch {
	case authErr.Infrastructure():
		outcome = metrics.OutcomeError
	case authErr.Aborted():
		outcome = metrics.OutcomeAborted
	}
	m.metrics.ObserveDecision(outcome, string(authErr.Kind))

	m.logger.Debug("Request rejected",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("kind", string(authErr.Kind)))
	errors.HandleError(w, authErr)
}
