package vector

import (
	"log/slog"

	"github.com/hupe1980/vessel/metric"
	"github.com/hupe1980/vessel/resource"
)

const (
	// DefaultGrowthFactor multiplies the capacity on growth.
	DefaultGrowthFactor = 1.5
	// DefaultShrinkThreshold is the fill ratio at or below which the vector shrinks.
	DefaultShrinkThreshold = 0.25
	// DefaultShrinkFactor multiplies the capacity on shrink.
	DefaultShrinkFactor = 0.5

	minCapacity = 4
)

type config struct {
	growth   float64
	shrinkAt float64
	shrinkBy float64
	logger   *slog.Logger
	rc       *resource.Controller
	observer metric.Observer
}

var defaultConfig = newConfig()

func newConfig(opts ...Option) *config {
	c := &config{
		growth:   DefaultGrowthFactor,
		shrinkAt: DefaultShrinkThreshold,
		shrinkBy: DefaultShrinkFactor,
		logger:   slog.New(slog.DiscardHandler),
		observer: metric.Noop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures a Vector.
type Option func(*config)

// WithGrowthFactor sets the capacity multiplier used on growth.
// Factors <= 1 are ignored.
func WithGrowthFactor(f float64) Option {
	return func(c *config) {
		if f > 1 {
			c.growth = f
		}
	}
}

// WithShrinkThreshold sets the fill ratio at or below which Pop and Remove shrink.
// Values outside (0, 1) are ignored.
func WithShrinkThreshold(r float64) Option {
	return func(c *config) {
		if r > 0 && r < 1 {
			c.shrinkAt = r
		}
	}
}

// WithShrinkFactor sets the capacity multiplier used on shrink.
// Values outside (0, 1) are ignored.
func WithShrinkFactor(f float64) Option {
	return func(c *config) {
		if f > 0 && f < 1 {
			c.shrinkBy = f
		}
	}
}

// WithLogger sets the logger for capacity events.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithResourceController charges every buffer against rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(c *config) {
		c.rc = rc
	}
}

// WithMemoryLimit charges every buffer against a fresh budget of bytes.
func WithMemoryLimit(bytes int64) Option {
	return func(c *config) {
		c.rc = resource.NewController(resource.Config{
			MemoryLimitBytes: bytes,
		})
	}
}

// WithObserver sets the observer notified of capacity changes.
func WithObserver(o metric.Observer) Option {
	return func(c *config) {
		c.observer = metric.OrNoop(o)
	}
}
