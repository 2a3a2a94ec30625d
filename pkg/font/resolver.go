// Package font resolves font faces for image rendering. A resolver
// fetches hosted font files over HTTP and memoizes the resulting
// descriptors in a bounded cache, so repeated renders of the same
// family never refetch.
package font

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/vahlcode/vahlcode-og/pkg/ogcache"
)

// Resolver turns (family, weight, style) requests into Descriptors.
// It is safe for concurrent use; concurrent misses for the same face
// share a single fetch.
type Resolver struct {
	cache   *ogcache.Cache[string, Descriptor]
	flights *flightGroup
	client  *http.Client
	baseURL string
	logger  *slog.Logger
	metrics *Metrics
}

// Config configures a Resolver. The zero value selects the documented
// defaults: a 30-entry cache with a 30 minute TTL, the Google Fonts
// stylesheet endpoint, and a 30 second HTTP timeout.
type Config struct {
	// CacheSize is the descriptor cache capacity. Defaults to DefaultCacheSize.
	CacheSize int

	// CacheTTL is how long a resolved descriptor stays valid. Defaults
	// to DefaultCacheTTL.
	CacheTTL time.Duration

	// BaseURL is the stylesheet endpoint queried on a miss. Defaults to
	// GoogleFontsURL. Tests point this at a local server.
	BaseURL string

	// Client performs the stylesheet and font file requests.
	Client *http.Client

	// Logger receives fetch outcomes. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics, if set, counts cache hits, misses and fetches.
	Metrics *Metrics

	// Now is the cache's clock, overridable in tests.
	Now func() time.Time
}

// NewResolver returns a Resolver configured by cfg.
func NewResolver(cfg Config) *Resolver {
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = GoogleFontsURL
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		cache: ogcache.New[string, Descriptor](ogcache.Options{
			MaxSize: size,
			TTL:     ttl,
			Now:     cfg.Now,
		}),
		flights: newFlightGroup(),
		client:  client,
		baseURL: baseURL,
		logger:  logger,
		metrics: cfg.Metrics,
	}
}

// Resolve returns the descriptor for the requested face. A cache hit
// returns the stored descriptor without any network I/O; a miss fetches
// the face and populates the cache afterward. A weight of 0 defaults to
// 400 and an empty style to StyleNormal.
func (r *Resolver) Resolve(ctx context.Context, family string, weight int, style Style) (Descriptor, error) {
	if family == "" {
		return Descriptor{}, ErrNoFamily
	}
	if weight <= 0 {
		weight = 400
	}
	if style == "" {
		style = StyleNormal
	}

	key := Key(family, weight, style)

	if desc, ok := r.cache.Get(key); ok {
		r.metrics.hit()
		return desc, nil
	}
	r.metrics.miss()

	flight, leader := r.flights.start(key)
	if !leader {
		return flight.wait(ctx)
	}

	start := time.Now()
	desc, err := r.fetch(ctx, family, weight, style)
	if err == nil {
		r.cache.Set(key, desc)
		r.metrics.fetched()
	} else {
		r.metrics.fetchFailed()
	}
	r.flights.finish(key, flight, desc, err)

	if err != nil {
		r.logger.Log(ctx, slog.LevelError, "font fetch failed",
			"key", key,
			"lat_ms", time.Since(start).Milliseconds(),
			"err", err,
		)
		return Descriptor{}, err
	}

	r.logger.Log(ctx, slog.LevelDebug, "font fetch",
		"key", key,
		"bytes", len(desc.Data),
		"lat_ms", time.Since(start).Milliseconds(),
	)

	return desc, nil
}

// ClearCache drops every memoized descriptor. Intended for test isolation.
func (r *Resolver) ClearCache() {
	r.cache.Clear()
}

// CacheLen returns the number of memoized descriptors.
func (r *Resolver) CacheLen() int {
	return r.cache.Len()
}
