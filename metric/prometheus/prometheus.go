// Package prometheus exports container capacity events as Prometheus metrics.
package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/vessel/metric"
)

// Observer implements metric.Observer with Prometheus collectors.
type Observer struct {
	resizes       *prometheus.CounterVec
	shrinkSkipped *prometheus.CounterVec
	capacity      *prometheus.HistogramVec
	relocated     *prometheus.CounterVec
}

var _ metric.Observer = (*Observer)(nil)

// NewObserver creates an Observer whose metric names start with namespace.
// Register it with a prometheus.Registerer before use.
func NewObserver(namespace string) *Observer {
	return &Observer{
		resizes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "container_resizes_total",
			Help:      "Capacity changes by container kind and direction",
		}, []string{"kind", "direction"}),
		shrinkSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "container_shrink_skipped_total",
			Help:      "Shrinks abandoned while keeping the current buffer",
		}, []string{"kind"}),
		capacity: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "container_capacity",
			Help:      "Capacity after each resize",
			Buckets:   prometheus.ExponentialBuckets(4, 2, 16),
		}, []string{"kind"}),
		relocated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hashtable_relocated_entries_total",
			Help:      "Entries relocated by hash table rehashes",
		}, []string{"kind"}),
	}
}

// Describe implements prometheus.Collector.
func (o *Observer) Describe(ch chan<- *prometheus.Desc) {
	o.resizes.Describe(ch)
	o.shrinkSkipped.Describe(ch)
	o.capacity.Describe(ch)
	o.relocated.Describe(ch)
}

// Collect implements prometheus.Collector.
func (o *Observer) Collect(ch chan<- prometheus.Metric) {
	o.resizes.Collect(ch)
	o.shrinkSkipped.Collect(ch)
	o.capacity.Collect(ch)
	o.relocated.Collect(ch)
}

// OnGrow implements metric.Observer.
func (o *Observer) OnGrow(kind metric.Kind, _, newCap int) {
	o.resizes.WithLabelValues(string(kind), "grow").Inc()
	o.capacity.WithLabelValues(string(kind)).Observe(float64(newCap))
}

// OnShrink implements metric.Observer.
func (o *Observer) OnShrink(kind metric.Kind, _, newCap int) {
	o.resizes.WithLabelValues(string(kind), "shrink").Inc()
	o.capacity.WithLabelValues(string(kind)).Observe(float64(newCap))
}

// OnShrinkSkipped implements metric.Observer.
func (o *Observer) OnShrinkSkipped(kind metric.Kind, _ int, _ error) {
	o.shrinkSkipped.WithLabelValues(string(kind)).Inc()
}

// OnRehash implements metric.Observer.
func (o *Observer) OnRehash(kind metric.Kind, oldCap, newCap, entries int) {
	direction := "grow"
	switch {
	case newCap < oldCap:
		direction = "shrink"
	case newCap == oldCap:
		direction = "purge"
	}
	o.resizes.WithLabelValues(string(kind), direction).Inc()
	o.capacity.WithLabelValues(string(kind)).Observe(float64(newCap))
	o.relocated.WithLabelValues(string(kind)).Add(float64(entries))
}
