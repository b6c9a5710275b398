package countries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jellydator/ttlcache/v3"

	"github.com/couchcryptid/climate-report/internal/domain"
	"github.com/couchcryptid/climate-report/internal/observability"
)

// CachedResolver wraps a CountryResolver with a bounded in-memory cache.
// Definitive misses are cached as well; other errors are not, so a transient
// failure of the inner resolver can be retried.
type CachedResolver struct {
	inner   domain.CountryResolver
	cache   *ttlcache.Cache[string, int]
	metrics *observability.Metrics
}

// NewCachedResolver creates a cache decorator holding at most maxEntries names.
func NewCachedResolver(inner domain.CountryResolver, maxEntries int, metrics *observability.Metrics) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		cache: ttlcache.New[string, int](
			ttlcache.WithCapacity[string, int](uint64(maxEntries)),
		),
		metrics: metrics,
	}
}

func (c *CachedResolver) ResolveNumeric(ctx context.Context, name string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if item := c.cache.Get(key); item != nil {
		c.metrics.ResolverCache.WithLabelValues("hit").Inc()
		if code := item.Value(); code != domain.UnresolvedCode {
			return code, nil
		}
		return 0, fmt.Errorf("resolve %q: %w", name, domain.ErrCountryNotFound)
	}
	c.metrics.ResolverCache.WithLabelValues("miss").Inc()

	code, err := c.inner.ResolveNumeric(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrCountryNotFound) {
			c.cache.Set(key, domain.UnresolvedCode, ttlcache.DefaultTTL)
		}
		return 0, err
	}
	c.cache.Set(key, code, ttlcache.DefaultTTL)
	return code, nil
}

// Len returns the number of cached names.
func (c *CachedResolver) Len() int {
	return c.cache.Len()
}
