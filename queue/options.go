package queue

import (
	"log/slog"

	"github.com/hupe1980/vessel/metric"
	"github.com/hupe1980/vessel/resource"
)

const (
	minCapacity  = 4
	growthFactor = 1.5
	shrinkAt     = 0.25
	shrinkBy     = 0.5
)

type config struct {
	logger   *slog.Logger
	rc       *resource.Controller
	observer metric.Observer
}

// Option configures a Queue.
type Option func(*config)

// WithLogger sets the logger for capacity events.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithResourceController charges the ring buffer against rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(c *config) {
		c.rc = rc
	}
}

// WithObserver sets the observer notified of capacity changes.
func WithObserver(o metric.Observer) Option {
	return func(c *config) {
		c.observer = metric.OrNoop(o)
	}
}
