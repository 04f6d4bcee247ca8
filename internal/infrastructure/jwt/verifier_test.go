package jwt

import (
	"context"
	"crypto"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/Lecon-a/Coffee-Shop/internal/domain"
	apperrors "github.com/Lecon-a/Coffee-Shop/internal/domain/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestVerifier(t *testing.T, keys KeyProvider) *Verifier {
	t.Helper()
	return NewVerifier(keys, testAuthConfig(), zap.NewNop(), WithClock(func() time.Time { return testNow }))
}

func assertKind(t *testing.T, err error, want apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	authErr, ok := apperrors.AsAuthError(err)
	require.True(t, ok, "expected *AuthError, got %T: %v", err, err)
	assert.Equal(t, want, authErr.Kind, "error: %v", err)
}

func TestVerifier_Check(t *testing.T) {
	signer := rsaKey(t, "kid1")
	other := rsaKey(t, "other")
	ec := ecKey(t)
	keys := staticKeys{
		"kid1":   &signer.PublicKey,
		"ec-kid": &ec.PublicKey,
	}
	v := newTestVerifier(t, keys)

	withClaims := func(mutate func(jwt.MapClaims)) jwt.MapClaims {
		c := validClaims("get:drinks-detail", "post:drinks")
		mutate(c)
		return c
	}

	tests := []struct {
		name       string
		token      string
		permission domain.Permission
		wantKind   apperrors.Kind
	}{
		{
			name:     "not a jwt",
			token:    "definitely-not-a-token",
			wantKind: apperrors.KindMalformedToken,
		},
		{
			name:     "two segments",
			token:    "e30.e30",
			wantKind: apperrors.KindMalformedToken,
		},
		{
			name:     "header is not json",
			token:    "bm90anNvbg.e30.c2ln",
			wantKind: apperrors.KindMalformedToken,
		},
		{
			name:     "unknown kid",
			token:    signToken(t, jwt.SigningMethodRS256, signer, "kid2", validClaims()),
			wantKind: apperrors.KindUnknownSigningKey,
		},
		{
			name:     "no kid header",
			token:    signToken(t, jwt.SigningMethodRS256, signer, "", validClaims()),
			wantKind: apperrors.KindUnknownSigningKey,
		},
		{
			name:     "signed by another key",
			token:    signToken(t, jwt.SigningMethodRS256, other, "kid1", validClaims()),
			wantKind: apperrors.KindInvalidSignature,
		},
		{
			name:     "algorithm not allowed",
			token:    signToken(t, jwt.SigningMethodHS256, []byte("shared-secret"), "kid1", validClaims()),
			wantKind: apperrors.KindInvalidSignature,
		},
		{
			name:     "ec token while only RS256 is allowed",
			token:    signToken(t, jwt.SigningMethodES256, ec, "ec-kid", validClaims()),
			wantKind: apperrors.KindInvalidSignature,
		},
		{
			name:     "kid points at a key of the wrong type",
			token:    signToken(t, jwt.SigningMethodRS256, signer, "ec-kid", validClaims()),
			wantKind: apperrors.KindInvalidSignature,
		},
		{
			name:     "expired",
			token:    signToken(t, jwt.SigningMethodRS256, signer, "kid1", withClaims(func(c jwt.MapClaims) { c["exp"] = testNow.Add(-time.Hour).Unix() })),
			wantKind: apperrors.KindTokenExpired,
		},
		{
			name: "expired with wrong issuer reports expiry",
			token: signToken(t, jwt.SigningMethodRS256, signer, "kid1", withClaims(func(c jwt.MapClaims) {
				c["exp"] = testNow.Add(-time.Hour).Unix()
				c["iss"] = "https://evil.example.com/"
			})),
			wantKind: apperrors.KindTokenExpired,
		},
		{
			name:     "missing exp",
			token:    signToken(t, jwt.SigningMethodRS256, signer, "kid1", withClaims(func(c jwt.MapClaims) { delete(c, "exp") })),
			wantKind: apperrors.KindInvalidClaims,
		},
		{
			name:     "wrong issuer",
			token:    signToken(t, jwt.SigningMethodRS256, signer, "kid1", withClaims(func(c jwt.MapClaims) { c["iss"] = "https://evil.example.com/" })),
			wantKind: apperrors.KindInvalidClaims,
		},
		{
			name:     "wrong audience",
			token:    signToken(t, jwt.SigningMethodRS256, signer, "kid1", withClaims(func(c jwt.MapClaims) { c["aud"] = []string{"billing"} })),
			wantKind: apperrors.KindInvalidClaims,
		},
		{
			name:     "not valid yet",
			token:    signToken(t, jwt.SigningMethodRS256, signer, "kid1", withClaims(func(c jwt.MapClaims) { c["nbf"] = testNow.Add(time.Hour).Unix() })),
			wantKind: apperrors.KindInvalidClaims,
		},
		{
			name:       "permissions claim missing",
			token:      signToken(t, jwt.SigningMethodRS256, signer, "kid1", withClaims(func(c jwt.MapClaims) { delete(c, "permissions") })),
			permission: domain.PermissionPostDrinks,
			wantKind:   apperrors.KindPermissionsClaimMissing,
		},
		{
			name:       "permission not granted",
			token:      signToken(t, jwt.SigningMethodRS256, signer, "kid1", validClaims("get:drinks-detail")),
			permission: domain.PermissionDeleteDrinks,
			wantKind:   apperrors.KindPermissionDenied,
		},
		{
			name:       "empty permissions list",
			token:      signToken(t, jwt.SigningMethodRS256, signer, "kid1", validClaims()),
			permission: domain.PermissionPatchDrinks,
			wantKind:   apperrors.KindPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.Check(context.Background(), tt.token, tt.permission)
			assert.Nil(t, claims)
			assertKind(t, err, tt.wantKind)
		})
	}
}

func TestVerifier_Check_Granted(t *testing.T) {
	signer := rsaKey(t, "kid1")
	v := newTestVerifier(t, staticKeys{"kid1": &signer.PublicKey})

	token := signToken(t, jwt.SigningMethodRS256, signer, "kid1", validClaims("get:drinks-detail", "post:drinks"))

	claims, err := v.Check(context.Background(), token, domain.PermissionPostDrinks)
	require.NoError(t, err)
	assert.Equal(t, "auth0|barista", claims.Subject)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{testAudience}, claims.Audience)
	assert.Equal(t, []string{"get:drinks-detail", "post:drinks"}, claims.Permissions)

	// same input, same outcome
	again, err := v.Check(context.Background(), token, domain.PermissionPostDrinks)
	require.NoError(t, err)
	assert.Equal(t, claims, again)
}

func TestVerifier_Check_NoPermissionRequired(t *testing.T) {
	signer := rsaKey(t, "kid1")
	v := newTestVerifier(t, staticKeys{"kid1": &signer.PublicKey})

	c := validClaims()
	delete(c, "permissions")
	token := signToken(t, jwt.SigningMethodRS256, signer, "kid1", c)

	claims, err := v.Check(context.Background(), token, domain.NoPermission)
	require.NoError(t, err)
	assert.False(t, claims.HasPermissionsClaim())
}

func TestVerifier_Check_ExpiryBoundary(t *testing.T) {
	signer := rsaKey(t, "kid1")
	v := newTestVerifier(t, staticKeys{"kid1": &signer.PublicKey})

	tests := []struct {
		name    string
		offset  time.Duration
		expired bool
	}{
		{name: "one second ago", offset: -time.Second, expired: true},
		{name: "exactly now", offset: 0, expired: true},
		{name: "one second ahead", offset: time.Second, expired: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validClaims("get:drinks-detail")
			c["exp"] = testNow.Add(tt.offset).Unix()
			token := signToken(t, jwt.SigningMethodRS256, signer, "kid1", c)

			_, err := v.Check(context.Background(), token, domain.PermissionGetDrinksDetail)
			if tt.expired {
				assertKind(t, err, apperrors.KindTokenExpired)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestVerifier_Check_AnySignatureByteFlipped(t *testing.T) {
	signer := rsaKey(t, "kid1")
	v := newTestVerifier(t, staticKeys{"kid1": &signer.PublicKey})

	token := signToken(t, jwt.SigningMethodRS256, signer, "kid1", validClaims("get:drinks-detail"))
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	for i := range sig {
		tampered := make([]byte, len(sig))
		copy(tampered, sig)
		tampered[i] ^= 0x01

		forged := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(tampered)
		_, err := v.Check(context.Background(), forged, domain.NoPermission)
		if !assert.Error(t, err, "byte %d", i) {
			continue
		}
		authErr, ok := apperrors.AsAuthError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.KindInvalidSignature, authErr.Kind, "byte %d", i)
	}
}

func TestVerifier_Check_AnySignatureCharacterChanged(t *testing.T) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	signer := rsaKey(t, "kid1")
	v := newTestVerifier(t, staticKeys{"kid1": &signer.PublicKey})

	token := signToken(t, jwt.SigningMethodRS256, signer, "kid1", validClaims("get:drinks-detail"))
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := parts[2]

	for i := 0; i < len(sig); i++ {
		pos := strings.IndexByte(alphabet, sig[i])
		require.GreaterOrEqual(t, pos, 0)
		next := alphabet[(pos+1)%len(alphabet)]

		forged := parts[0] + "." + parts[1] + "." + sig[:i] + string(next) + sig[i+1:]
		_, err := v.Check(context.Background(), forged, domain.NoPermission)
		if !assert.Error(t, err, "char %d (%q -> %q)", i, sig[i], next) {
			continue
		}
		authErr, ok := apperrors.AsAuthError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.KindInvalidSignature, authErr.Kind, "char %d", i)
	}
}

func TestVerifier_Check_SignatureNotBase64(t *testing.T) {
	signer := rsaKey(t, "kid1")
	v := newTestVerifier(t, staticKeys{"kid1": &signer.PublicKey})

	token := signToken(t, jwt.SigningMethodRS256, signer, "kid1", validClaims())
	parts := strings.Split(token, ".")

	_, err := v.Check(context.Background(), parts[0]+"."+parts[1]+".!!"+parts[2][2:], domain.NoPermission)
	assertKind(t, err, apperrors.KindInvalidSignature)
}

func TestVerifier_Check_CallerCancelled(t *testing.T) {
	kid1 := rsaKey(t, "kid1")
	issuer := newFakeIssuer(t, map[string]crypto.PublicKey{"kid1": &kid1.PublicKey})
	issuer.delay = 200 * time.Millisecond

	cache := NewJWKSCache(issuer.fetcher(), testAuthConfig(), nil, zap.NewNop())
	v := newTestVerifier(t, cache)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	token := signToken(t, jwt.SigningMethodRS256, kid1, "kid1", validClaims("get:drinks-detail"))
	_, err := v.Check(ctx, token, domain.PermissionGetDrinksDetail)
	assertKind(t, err, apperrors.KindKeySetUnavailable)

	authErr, _ := apperrors.AsAuthError(err)
	assert.True(t, authErr.Aborted())
	assert.False(t, authErr.Infrastructure())
}

func TestVerifier_Check_PayloadTampered(t *testing.T) {
	signer := rsaKey(t, "kid1")
	v := newTestVerifier(t, staticKeys{"kid1": &signer.PublicKey})

	token := signToken(t, jwt.SigningMethodRS256, signer, "kid1", validClaims("get:drinks-detail"))
	parts := strings.Split(token, ".")

	escalated := signToken(t, jwt.SigningMethodRS256, signer, "kid1", validClaims("get:drinks-detail", "delete:drinks"))
	forged := parts[0] + "." + strings.Split(escalated, ".")[1] + "." + parts[2]

	_, err := v.Check(context.Background(), forged, domain.PermissionDeleteDrinks)
	assertKind(t, err, apperrors.KindInvalidSignature)
}

func TestVerifier_Check_ECKeys(t *testing.T) {
	ec := ecKey(t)
	cfg := testAuthConfig()
	cfg.Algorithms = []string{"RS256", "ES256"}
	v := NewVerifier(staticKeys{"ec-kid": &ec.PublicKey}, cfg, zap.NewNop(), WithClock(func() time.Time { return testNow }))

	token := signToken(t, jwt.SigningMethodES256, ec, "ec-kid", validClaims("patch:drinks"))

	claims, err := v.Check(context.Background(), token, domain.PermissionPatchDrinks)
	require.NoError(t, err)
	assert.Contains(t, claims.Permissions, "patch:drinks")
}

func TestVerifier_Check_KeySetUnavailable(t *testing.T) {
	signer := rsaKey(t, "kid1")
	issuer := newFakeIssuer(t, map[string]crypto.PublicKey{"kid1": &signer.PublicKey})
	issuer.setStatus(500)

	cache := NewJWKSCache(issuer.fetcher(), testAuthConfig(), nil, zap.NewNop())
	v := newTestVerifier(t, cache)

	token := signToken(t, jwt.SigningMethodRS256, signer, "kid1", validClaims("get:drinks-detail"))
	_, err := v.Check(context.Background(), token, domain.PermissionGetDrinksDetail)
	assertKind(t, err, apperrors.KindKeySetUnavailable)

	authErr, _ := apperrors.AsAuthError(err)
	assert.True(t, authErr.Infrastructure())
}

// A key set {"kid1": PUB1} and tokens signed by PRIV1 and by an unrelated key.
func TestVerifier_EndToEnd(t *testing.T) {
	priv1 := rsaKey(t, "kid1")
	stranger := rsaKey(t, "stranger")
	issuer := newFakeIssuer(t, map[string]crypto.PublicKey{"kid1": &priv1.PublicKey})

	cache := NewJWKSCache(issuer.fetcher(), testAuthConfig(), nil, zap.NewNop())
	v := newTestVerifier(t, cache)
	ctx := context.Background()

	good := signToken(t, jwt.SigningMethodRS256, priv1, "kid1", validClaims("get:drinks-detail"))

	claims, err := v.Check(ctx, good, domain.PermissionGetDrinksDetail)
	require.NoError(t, err)
	assert.Equal(t, []string{"get:drinks-detail"}, claims.Permissions)

	_, err = v.Check(ctx, good, domain.PermissionPostDrinks)
	assertKind(t, err, apperrors.KindPermissionDenied)

	forged := signToken(t, jwt.SigningMethodRS256, stranger, "kid1", validClaims("get:drinks-detail"))
	_, err = v.Check(ctx, forged, domain.PermissionGetDrinksDetail)
	assertKind(t, err, apperrors.KindInvalidSignature)

	assert.Equal(t, int32(1), issuer.hits.Load())
}
