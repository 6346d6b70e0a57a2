package vessel

import (
	"sync/atomic"

	"github.com/hupe1980/vessel/metric"
)

// BasicMetricsCollector provides simple in-memory capacity metrics.
// Useful for debugging and tests without an external metrics system.
// It is safe to share between containers on different goroutines.
type BasicMetricsCollector struct {
	GrowCount          atomic.Int64
	ShrinkCount        atomic.Int64
	ShrinkSkippedCount atomic.Int64
	RehashCount        atomic.Int64
	RelocatedEntries   atomic.Int64
	PeakCapacity       atomic.Int64
}

var _ metric.Observer = (*BasicMetricsCollector)(nil)

// OnGrow implements metric.Observer.
func (b *BasicMetricsCollector) OnGrow(_ metric.Kind, _, newCap int) {
	b.GrowCount.Add(1)
	b.observeCapacity(newCap)
}

// OnShrink implements metric.Observer.
func (b *BasicMetricsCollector) OnShrink(metric.Kind, int, int) {
	b.ShrinkCount.Add(1)
}

// OnShrinkSkipped implements metric.Observer.
func (b *BasicMetricsCollector) OnShrinkSkipped(metric.Kind, int, error) {
	b.ShrinkSkippedCount.Add(1)
}

// OnRehash implements metric.Observer.
func (b *BasicMetricsCollector) OnRehash(_ metric.Kind, _, newCap, entries int) {
	b.RehashCount.Add(1)
	b.RelocatedEntries.Add(int64(entries))
	b.observeCapacity(newCap)
}

func (b *BasicMetricsCollector) observeCapacity(c int) {
	for {
		peak := b.PeakCapacity.Load()
		if int64(c) <= peak || b.PeakCapacity.CompareAndSwap(peak, int64(c)) {
			return
		}
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		GrowCount:          b.GrowCount.Load(),
		ShrinkCount:        b.ShrinkCount.Load(),
		ShrinkSkippedCount: b.ShrinkSkippedCount.Load(),
		RehashCount:        b.RehashCount.Load(),
		RelocatedEntries:   b.RelocatedEntries.Load(),
		AvgRelocated:       b.getAvgRelocated(),
		PeakCapacity:       b.PeakCapacity.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgRelocated() int64 {
	count := b.RehashCount.Load()
	if count == 0 {
		return 0
	}
	return b.RelocatedEntries.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	GrowCount          int64
	ShrinkCount        int64
	ShrinkSkippedCount int64
	RehashCount        int64
	RelocatedEntries   int64
	AvgRelocated       int64
	PeakCapacity       int64
}

// Observers fans every event out to each non-nil observer in order.
func Observers(obs ...metric.Observer) metric.Observer {
	list := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multiObserver []metric.Observer

func (m multiObserver) OnGrow(kind metric.Kind, oldCap, newCap int) {
	for _, o := range m {
		o.OnGrow(kind, oldCap, newCap)
	}
}

func (m multiObserver) OnShrink(kind metric.Kind, oldCap, newCap int) {
	for _, o := range m {
		o.OnShrink(kind, oldCap, newCap)
	}
}

func (m multiObserver) OnShrinkSkipped(kind metric.Kind, capacity int, err error) {
	for _, o := range m {
		o.OnShrinkSkipped(kind, capacity, err)
	}
}

func (m multiObserver) OnRehash(kind metric.Kind, oldCap, newCap, entries int) {
	for _, o := range m {
		o.OnRehash(kind, oldCap, newCap, entries)
	}
}
