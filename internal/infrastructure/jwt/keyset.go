package jwt

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// maxKeySetSize bounds the JWKS document read from the issuer.
const maxKeySetSize = 1 << 20

var (
	// ErrUnknownSigningKey is returned when a key ID has no match in the key set
	ErrUnknownSigningKey = errors.New("signing key not found in key set")

	// ErrKeySetUnavailable is returned when the key set cannot be fetched and no usable copy is cached
	ErrKeySetUnavailable = errors.New("signing key set unavailable")
)

// KeySet is an immutable mapping from key ID to public key.
type KeySet struct {
	keys map[string]crypto.PublicKey
}

// NewKeySet creates a key set from a copy of keys
func NewKeySet(keys map[string]crypto.PublicKey) *KeySet {
	copied := make(map[string]crypto.PublicKey, len(keys))
	for kid, key := range keys {
		copied[kid] = key
	}
	return &KeySet{keys: copied}
}

// ParseKeySet decodes a JWKS document. Keys without a key ID or not meant
// for signatures are skipped.
func ParseKeySet(data []byte) (*KeySet, error) {
	set, err := jwk.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWKS: %w", err)
	}

	keys := make(map[string]crypto.PublicKey, set.Len())
	for i := 0; i < set.Len(); i++ {
		key, ok := set.Key(i)
		if !ok {
			continue
		}
		if key.KeyID() == "" {
			continue
		}
		if use := key.KeyUsage(); use != "" && use != string(jwk.ForSignature) {
			continue
		}

		raw, err := jwk.PublicRawKeyOf(key)
		if err != nil {
			return nil, fmt.Errorf("failed to extract public key %q: %w", key.KeyID(), err)
		}
		keys[key.KeyID()] = raw
	}

	if len(keys) == 0 {
		return nil, errors.New("JWKS contains no usable signing keys")
	}

	return &KeySet{keys: keys}, nil
}

// Lookup returns the public key for kid
func (s *KeySet) Lookup(kid string) (crypto.PublicKey, bool) {
	key, ok := s.keys[kid]
	return key, ok
}

// Len returns the number of keys in the set
func (s *KeySet) Len() int {
	return len(s.keys)
}

// KeySetFetcher retrieves the current signing key set of the issuer
type KeySetFetcher interface {
	FetchKeySet(ctx context.Context) (*KeySet, error)
}

// HTTPKeySetFetcher fetches a JWKS document over HTTP(S)
type HTTPKeySetFetcher struct {
	url    string
	client *http.Client
}

// NewHTTPKeySetFetcher creates a fetcher for the JWKS document at url
func NewHTTPKeySetFetcher(url string, client *http.Client) *HTTPKeySetFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPKeySetFetcher{url: url, client: client}
}

// FetchKeySet downloads and parses the JWKS document
func (f *HTTPKeySetFetcher) FetchKeySet(ctx context.Context) (*KeySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch JWKS: status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxKeySetSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read JWKS: %w", err)
	}

	return ParseKeySet(body)
}
