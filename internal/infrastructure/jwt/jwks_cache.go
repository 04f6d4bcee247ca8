package jwt

import (
	"context"
	"crypto"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Lecon-a/Coffee-Shop/internal/infrastructure/config"
	"github.com/Lecon-a/Coffee-Shop/internal/infrastructure/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "jwks"

type cachedKeySet struct {
	keys      *KeySet
	fetchedAt time.Time
}

// JWKSCache is a read-through cache of the issuer's signing key set.
//
// Readers load the current set through an atomic pointer; a refresh builds a
// new set and swaps it in whole. The set is refreshed when it is older than
// the TTL or when a key ID misses, at most once per minimum refresh interval
// counted from the end of the previous fetch. After a failed refresh the
// previous set keeps serving until it is older than the max stale duration.
type JWKSCache struct {
	fetcher            KeySetFetcher
	logger             *zap.Logger
	metrics            *metrics.Metrics
	ttl                time.Duration
	minRefreshInterval time.Duration
	maxStale           time.Duration
	fetchTimeout       time.Duration
	now                func() time.Time

	current atomic.Pointer[cachedKeySet]
	group   singleflight.Group

	mu          sync.Mutex
	lastAttempt time.Time
	lastErr     error
}

// NewJWKSCache creates a key set cache in front of fetcher
func NewJWKSCache(fetcher KeySetFetcher, cfg config.AuthConfig, m *metrics.Metrics, logger *zap.Logger) *JWKSCache {
	return &JWKSCache{
		fetcher:            fetcher,
		logger:             logger,
		metrics:            m,
		ttl:                cfg.JWKSCacheTTL,
		minRefreshInterval: cfg.JWKSMinRefreshInterval,
		maxStale:           cfg.JWKSMaxStale,
		fetchTimeout:       cfg.JWKSFetchTimeout,
		now:                time.Now,
	}
}

// Key returns the public key for kid, fetching the key set when needed.
// It fails with ErrUnknownSigningKey or ErrKeySetUnavailable.
func (c *JWKSCache) Key(ctx context.Context, kid string) (crypto.PublicKey, error) {
	now := c.now()
	cached := c.current.Load()

	if cached != nil {
		age := now.Sub(cached.fetchedAt)
		key, found := cached.keys.Lookup(kid)
		if found && age < c.ttl {
			return key, nil
		}
		if !c.refreshDue(now) {
			return c.fromStale(cached, kid, age)
		}
	} else if !c.refreshDue(now) {
		return nil, fmt.Errorf("%w: %v", ErrKeySetUnavailable, c.lastError())
	}

	refreshed, err := c.refresh(ctx)
	if err != nil {
		if cached != nil {
			return c.fromStale(cached, kid, c.now().Sub(cached.fetchedAt))
		}
		return nil, fmt.Errorf("%w: %w", ErrKeySetUnavailable, err)
	}

	if key, ok := refreshed.keys.Lookup(kid); ok {
		return key, nil
	}
	return nil, fmt.Errorf("%w: kid %q", ErrUnknownSigningKey, kid)
}

// Refresh fetches the key set regardless of cache state. It is meant for
// warming the cache at startup.
func (c *JWKSCache) Refresh(ctx context.Context) error {
	_, err := c.refresh(ctx)
	return err
}

func (c *JWKSCache) fromStale(cached *cachedKeySet, kid string, age time.Duration) (crypto.PublicKey, error) {
	if age >= c.maxStale {
		return nil, fmt.Errorf("%w: cached key set expired %s ago: %v", ErrKeySetUnavailable, age-c.maxStale, c.lastError())
	}
	if key, ok := cached.keys.Lookup(kid); ok {
		return key, nil
	}
	return nil, fmt.Errorf("%w: kid %q", ErrUnknownSigningKey, kid)
}

func (c *JWKSCache) refreshDue(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastAttempt.IsZero() || now.Sub(c.lastAttempt) >= c.minRefreshInterval
}

func (c *JWKSCache) lastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// refresh collapses concurrent callers into one fetch. Each caller waits
// only as long as its own context allows; the fetch itself runs under the
// fetch timeout so one cancelled request does not fail the others.
func (c *JWKSCache) refresh(ctx context.Context) (*cachedKeySet, error) {
	ch := c.group.DoChan(refreshKey, func() (interface{}, error) {
		return c.fetch()
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*cachedKeySet), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *JWKSCache) fetch() (*cachedKeySet, error) {
	started := c.now()
	ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
	defer cancel()

	keys, err := c.fetcher.FetchKeySet(ctx)
	if err != nil {
		c.mu.Lock()
		c.lastAttempt = c.now()
		c.lastErr = err
		c.mu.Unlock()
		c.metrics.ObserveRefresh(metrics.RefreshFailure)
		c.logger.Error("Failed to refresh signing key set", zap.Error(err))
		return nil, err
	}

	entry := &cachedKeySet{keys: keys, fetchedAt: c.now()}
	c.current.Store(entry)

	c.mu.Lock()
	c.lastAttempt = entry.fetchedAt
	c.lastErr = nil
	c.mu.Unlock()

	c.metrics.ObserveRefresh(metrics.RefreshSuccess)
	c.metrics.SetKeyCount(keys.Len())
	c.logger.Info("Signing key set refreshed",
		zap.Int("keys", keys.Len()),
		zap.Duration("duration", c.now().Sub(started)))

	return entry, nil
}
