package hashtable

import (
	"log/slog"

	"github.com/hupe1980/vessel/metric"
	"github.com/hupe1980/vessel/resource"
)

const (
	// DefaultGrowLoadFactor is the load above which a table grows.
	DefaultGrowLoadFactor = 0.70
	// DefaultShrinkLoadFactor is the load below which a table shrinks.
	DefaultShrinkLoadFactor = 0.20
)

type config struct {
	hash     any // HashFunc[K]
	cmp      any // CompareFunc[K]
	growAt   float64
	shrinkAt float64
	logger   *slog.Logger
	rc       *resource.Controller
	observer metric.Observer
}

func newConfig(opts ...Option) *config {
	c := &config{
		growAt:   DefaultGrowLoadFactor,
		shrinkAt: DefaultShrinkLoadFactor,
		logger:   slog.New(slog.DiscardHandler),
		observer: metric.Noop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures a Map or Set.
type Option func(*config)

// WithHash sets the key hash function. Its key type must match the table's.
func WithHash[K any](fn func(key *K) uint64) Option {
	return func(c *config) {
		if fn != nil {
			c.hash = HashFunc[K](fn)
		}
	}
}

// WithCompare sets the key comparison. Its key type must match the table's.
func WithCompare[K any](fn func(a, b *K) int) Option {
	return func(c *config) {
		if fn != nil {
			c.cmp = CompareFunc[K](fn)
		}
	}
}

// WithGrowLoadFactor sets the load above which the table grows.
// Values outside (0, 1) are ignored.
func WithGrowLoadFactor(f float64) Option {
	return func(c *config) {
		if f > 0 && f < 1 {
			c.growAt = f
		}
	}
}

// WithShrinkLoadFactor sets the load below which the table shrinks.
// Values outside [0, 1) are ignored; 0 disables shrinking.
func WithShrinkLoadFactor(f float64) Option {
	return func(c *config) {
		if f >= 0 && f < 1 {
			c.shrinkAt = f
		}
	}
}

// WithLogger sets the logger for resize events.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithResourceController charges bucket arrays against rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(c *config) {
		c.rc = rc
	}
}

// WithObserver sets the observer notified of rehashes.
func WithObserver(o metric.Observer) Option {
	return func(c *config) {
		c.observer = metric.OrNoop(o)
	}
}
