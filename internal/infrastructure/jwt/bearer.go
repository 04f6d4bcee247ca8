package jwt

import (
	"strings"

	apperrors "github.com/Lecon-a/Coffee-Shop/internal/domain/errors"
)

const bearerScheme = "Bearer"

// ExtractBearerToken returns the token of an Authorization header value of the
// form "Bearer <token>". The token is returned as is, without decoding.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.NewAuthError(apperrors.KindMissingHeader, nil)
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || parts[0] != bearerScheme {
		return "", apperrors.NewAuthError(apperrors.KindMalformedHeader, nil)
	}

	return parts[1], nil
}
