// Package redis implements Redis-backed caching for the score encoding hub.
// The submission window lives in the institutional calendar service and barely
// changes during a session; a short-TTL cache keeps the gate off that service's
// hot path.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campus-hub/score-encoding-hub/internal/domain/calendar"
	"github.com/campus-hub/score-encoding-hub/internal/domain/shared"
	"github.com/campus-hub/score-encoding-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection configuration.
type Config struct {
	// Host is the Redis server hostname.
	Host string

	// Port is the Redis server port.
	Port int

	// Password is the Redis authentication password (empty if no auth).
	Password string

	// DB is the Redis database number (0-15).
	DB int

	// PoolSize is the maximum number of socket connections.
	PoolSize int

	// MinIdleConns is the minimum number of idle connections.
	MinIdleConns int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Addr returns the Redis address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewClient creates a go-redis client from the configuration.
func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBMISSION WINDOW CACHE
// ══════════════════════════════════════════════════════════════════════════════

const windowCacheKey = "score-encoding:submission-window"

// DefaultWindowTTL bounds how stale a cached window may be.
const DefaultWindowTTL = 5 * time.Minute

// cachedWindow is the wire form of a submission window. A cached zero window
// (no window configured) is stored too, so the absence is also served from
// cache.
type cachedWindow struct {
	Year      int       `json:"year"`
	Session   int       `json:"session"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// WindowCache is a cache-aside decorator around a calendar.WindowTranslator.
// Cache failures degrade to the upstream translator, never to an error.
type WindowCache struct {
	client   *redis.Client
	upstream calendar.WindowTranslator
	ttl      time.Duration
	log      *logger.Logger
}

// NewWindowCache creates a WindowCache with the default TTL.
func NewWindowCache(client *redis.Client, upstream calendar.WindowTranslator, log *logger.Logger) *WindowCache {
	if log == nil {
		log = logger.Default()
	}
	return &WindowCache{
		client:   client,
		upstream: upstream,
		ttl:      DefaultWindowTTL,
		log:      log.With(logger.Component("window_cache")),
	}
}

// WithTTL overrides the cache TTL.
func (c *WindowCache) WithTTL(ttl time.Duration) *WindowCache {
	c.ttl = ttl
	return c
}

// Current implements calendar.WindowTranslator.
func (c *WindowCache) Current(ctx context.Context) (calendar.SubmissionWindow, error) {
	if window, ok := c.fromCache(ctx); ok {
		return window, nil
	}

	window, err := c.upstream.Current(ctx)
	if err != nil {
		return calendar.SubmissionWindow{}, err
	}
	c.store(ctx, window)
	return window, nil
}

// Invalidate drops the cached window; the next read hits the upstream.
func (c *WindowCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, windowCacheKey).Err()
}

func (c *WindowCache) fromCache(ctx context.Context) (calendar.SubmissionWindow, bool) {
	data, err := c.client.Get(ctx, windowCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return calendar.SubmissionWindow{}, false
	}
	if err != nil {
		c.log.Warn("window cache read failed", logger.Err(err))
		return calendar.SubmissionWindow{}, false
	}

	var cw cachedWindow
	if err := json.Unmarshal(data, &cw); err != nil {
		c.log.Warn("window cache corrupt, dropping", logger.Err(err))
		_ = c.client.Del(ctx, windowCacheKey).Err()
		return calendar.SubmissionWindow{}, false
	}
	return calendar.SubmissionWindow{
		Year:      shared.AcademicYear(cw.Year),
		Session:   shared.SessionNumber(cw.Session),
		StartDate: cw.StartDate,
		EndDate:   cw.EndDate,
	}, true
}

func (c *WindowCache) store(ctx context.Context, window calendar.SubmissionWindow) {
	data, err := json.Marshal(cachedWindow{
		Year:      window.Year.Int(),
		Session:   window.Session.Int(),
		StartDate: window.StartDate,
		EndDate:   window.EndDate,
	})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, windowCacheKey, data, c.ttl).Err(); err != nil {
		c.log.Warn("window cache write failed", logger.Err(err))
	}
}
