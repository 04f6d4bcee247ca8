package jwt

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Lecon-a/Coffee-Shop/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://coffee.example.auth0.com/"
	testAudience = "drinks"
)

var testNow = time.Unix(1_700_000_000, 0)

var (
	rsaKeysMu sync.Mutex
	rsaKeys   = map[string]*rsa.PrivateKey{}
)

// rsaKey returns a 2048-bit key, generated once per name for the test binary
func rsaKey(t *testing.T, name string) *rsa.PrivateKey {
	t.Helper()
	rsaKeysMu.Lock()
	defer rsaKeysMu.Unlock()
	if key, ok := rsaKeys[name]; ok {
		return key
	}
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	rsaKeys[name] = key
	return key
}

func ecKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		Issuer:                 testIssuer,
		Audience:               testAudience,
		Algorithms:             []string{"RS256"},
		JWKSFetchTimeout:       time.Second,
		JWKSCacheTTL:           10 * time.Minute,
		JWKSMinRefreshInterval: 30 * time.Second,
		JWKSMaxStale:           time.Hour,
	}
}

func validClaims(permissions ...string) jwt.MapClaims {
	if permissions == nil {
		permissions = []string{}
	}
	return jwt.MapClaims{
		"iss":         testIssuer,
		"aud":         testAudience,
		"sub":         "auth0|barista",
		"iat":         testNow.Add(-time.Minute).Unix(),
		"exp":         testNow.Add(time.Hour).Unix(),
		"permissions": permissions,
	}
}

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, kid string, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func jwksDocument(t *testing.T, keys map[string]crypto.PublicKey) []byte {
	t.Helper()
	set := jwk.NewSet()
	for kid, pub := range keys {
		key, err := jwk.FromRaw(pub)
		require.NoError(t, err)
		require.NoError(t, key.Set(jwk.KeyIDKey, kid))
		require.NoError(t, key.Set(jwk.KeyUsageKey, "sig"))
		require.NoError(t, set.AddKey(key))
	}
	data, err := json.Marshal(set)
	require.NoError(t, err)
	return data
}

// staticKeys is a KeyProvider over a fixed map
type staticKeys map[string]crypto.PublicKey

func (s staticKeys) Key(_ context.Context, kid string) (crypto.PublicKey, error) {
	if key, ok := s[kid]; ok {
		return key, nil
	}
	return nil, ErrUnknownSigningKey
}

// fakeIssuer serves a JWKS document that tests can rotate or break
type fakeIssuer struct {
	server *httptest.Server
	hits   atomic.Int32
	delay  time.Duration

	mu     sync.Mutex
	doc    []byte
	status int
}

func newFakeIssuer(t *testing.T, keys map[string]crypto.PublicKey) *fakeIssuer {
	t.Helper()
	f := &fakeIssuer{status: http.StatusOK}
	f.publish(t, keys)
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if f.delay > 0 {
			time.Sleep(f.delay)
		}
		f.mu.Lock()
		status, doc := f.status, f.doc
		f.mu.Unlock()
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(doc)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeIssuer) publish(t *testing.T, keys map[string]crypto.PublicKey) {
	doc := jwksDocument(t, keys)
	f.mu.Lock()
	f.doc = doc
	f.mu.Unlock()
}

func (f *fakeIssuer) setStatus(status int) {
	f.mu.Lock()
	f.status = status
	f.mu.Unlock()
}

func (f *fakeIssuer) fetcher() *HTTPKeySetFetcher {
	return NewHTTPKeySetFetcher(f.server.URL+"/.well-known/jwks.json", f.server.Client())
}

// fakeClock is a settable time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
