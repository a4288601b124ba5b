package pricing

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTTL is the maximum age at which a cached price counts as fresh.
const DefaultTTL = 60 * time.Second

// Provider fetches USD prices for a batch of provider-specific identifiers.
// The whole batch may fail; partial responses are allowed.
type Provider interface {
	FetchBatch(ctx context.Context, ids []string) (map[string]float64, error)
}

type cacheEntry struct {
	price     float64
	fetchedAt time.Time
}

// Cache resolves token prices through a TTL cache in front of a Provider.
// Provider failures never surface to callers: stale entries are served
// instead, and symbols with no cached value are simply absent from the
// result.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]cacheEntry
	ttl      time.Duration
	provider Provider
	logger   *zap.Logger

	now func() time.Time
}

func NewCache(provider Provider, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		entries:  make(map[string]cacheEntry),
		ttl:      ttl,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// GetPrices returns USD prices for the requested symbols. A symbol missing
// from the result means it is unknown or currently unresolvable; that is not
// an error.
func (c *Cache) GetPrices(ctx context.Context, symbols []string) map[string]float64 {
	prices := make(map[string]float64)
	var misses []string
	seen := make(map[string]bool)

	now := c.now()
	c.mu.RLock()
	for _, raw := range symbols {
		sym := Normalize(raw)
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		if entry, ok := c.entries[sym]; ok && now.Sub(entry.fetchedAt) < c.ttl {
			prices[sym] = entry.price
		} else {
			misses = append(misses, sym)
		}
	}
	c.mu.RUnlock()

	if len(misses) == 0 {
		return prices
	}

	ids := make([]string, 0, len(misses))
	for _, sym := range misses {
		if id, ok := ProviderID(sym); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		c.logger.Warn("no known provider ids for symbols", zap.Strings("symbols", misses))
		return prices
	}

	fetched, err := c.provider.FetchBatch(ctx, ids)
	if err != nil {
		c.logger.Warn("price provider unavailable, serving cached values", zap.Error(err))
		c.mu.RLock()
		for _, sym := range misses {
			if entry, ok := c.entries[sym]; ok {
				prices[sym] = entry.price
			}
		}
		c.mu.RUnlock()
		return prices
	}

	fetchedAt := c.now()
	c.mu.Lock()
	for _, sym := range misses {
		id, ok := ProviderID(sym)
		if !ok {
			continue
		}
		price, ok := fetched[id]
		if !ok || price <= 0 {
			continue
		}
		c.entries[sym] = cacheEntry{price: price, fetchedAt: fetchedAt}
		prices[sym] = price
	}
	c.mu.Unlock()

	return prices
}

// GetPrice resolves a single symbol through the batch path.
func (c *Cache) GetPrice(ctx context.Context, symbol string) (float64, bool) {
	prices := c.GetPrices(ctx, []string{symbol})
	price, ok := prices[Normalize(symbol)]
	return price, ok
}

// Normalize canonicalizes a caller-supplied symbol for cache keying.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
