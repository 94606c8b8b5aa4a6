package mclog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mclog/mclog-go/pkg/mclog/record"
)

// Fetcher supplies the full raw text for a day/file key. The
// transport is the caller's concern; implementations should return an
// error on failure, which the scheduler treats as empty content for
// that key.
type Fetcher interface {
	FetchText(ctx context.Context, key string) (string, error)
}

// KeyFunc maps a calendar day to its fetch key.
type KeyFunc func(record.Day) string

// DefaultKey is the default KeyFunc: "2006-01-02.log".
func DefaultKey(d record.Day) string { return d.String() + ".log" }

// Option configures a Scheduler using the functional options pattern.
type Option func(*schedConfig)

// schedConfig holds internal scheduler configuration.
type schedConfig struct {
	fetcher      Fetcher
	pollInterval time.Duration
	followDay    bool
	clock        func() time.Time
	keyFn        KeyFunc
	cacheTTL     time.Duration
	onKeyChange  func(oldKey, newKey string)
	logger       *slog.Logger
	messageCount int
}

// defaultSchedConfig returns a schedConfig with sensible defaults.
func defaultSchedConfig() *schedConfig {
	return &schedConfig{
		pollInterval: 10 * time.Second,
		clock:        time.Now,
		keyFn:        DefaultKey,
		cacheTTL:     5 * time.Minute,
	}
}

func applyOptions(opts []Option) *schedConfig {
	cfg := defaultSchedConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// validate checks for invalid option combinations.
func (c *schedConfig) validate() error {
	if c.pollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.pollInterval)
	}
	if c.cacheTTL < 0 {
		return fmt.Errorf("cache TTL must be non-negative, got %v", c.cacheTTL)
	}
	return nil
}

// WithFetcher sets the text source for Live and Range modes.
func WithFetcher(f Fetcher) Option {
	return func(c *schedConfig) {
		c.fetcher = f
	}
}

// WithPollInterval sets how often Live mode refetches the current
// key. Default: 10 seconds.
func WithPollInterval(interval time.Duration) Option {
	return func(c *schedConfig) {
		c.pollInterval = interval
	}
}

// WithFollowDay configures day-rollover behavior in Live mode. When
// true, the fetch key is recomputed from wall-clock time on every
// iteration, so the loop follows the actual day across midnight. When
// false (default), the loop keeps the key computed on entry and stops
// once the wall-clock day no longer matches it.
func WithFollowDay(follow bool) Option {
	return func(c *schedConfig) {
		c.followDay = follow
	}
}

// WithClock injects a wall-clock source. Tests use this to simulate
// day rollover. Default: time.Now.
func WithClock(clock func() time.Time) Option {
	return func(c *schedConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithKeyFunc sets how calendar days map to fetch keys.
// Default: DefaultKey.
func WithKeyFunc(fn KeyFunc) Option {
	return func(c *schedConfig) {
		if fn != nil {
			c.keyFn = fn
		}
	}
}

// WithCacheTTL sets how long fetched day text stays in the
// scheduler's cache. Zero disables expiry. Default: 5 minutes.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *schedConfig) {
		c.cacheTTL = ttl
	}
}

// WithKeyChangeHook registers a callback invoked when Live mode's
// fetch key changes (day rollover in follow mode). Viewers use it to
// reset the persisted page index to 0 for the new source.
func WithKeyChangeHook(fn func(oldKey, newKey string)) Option {
	return func(c *schedConfig) {
		c.onKeyChange = fn
	}
}

// WithLogger sets a custom logger for debug output.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) Option {
	return func(c *schedConfig) {
		c.logger = logger
	}
}

// WithMessageCount sets the configurable page size for types without
// their own override. Values <= 0 use the default of 500.
func WithMessageCount(n int) Option {
	return func(c *schedConfig) {
		c.messageCount = n
	}
}
