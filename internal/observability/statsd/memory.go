package statsd

import (
	"sync"
	"time"
)

// Sample is one metric captured by MemorySink.
type Sample struct {
	Name     string
	Value    float64
	Duration time.Duration
	Tags     map[string]string
}

// MemorySink records metrics in memory. It backs tests and the dev server's
// metrics when no StatsD address is configured. It is safe for concurrent use.
type MemorySink struct {
	mu      sync.Mutex
	counts  []Sample
	gauges  []Sample
	timings []Sample
}

var _ Sink = (*MemorySink)(nil)

// NewMemorySink returns an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Count records a counter increment.
func (m *MemorySink) Count(name string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts = append(m.counts, Sample{Name: name, Value: float64(value), Tags: cloneTags(tags)})
}

// Gauge records a gauge value.
func (m *MemorySink) Gauge(name string, value float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges = append(m.gauges, Sample{Name: name, Value: value, Tags: cloneTags(tags)})
}

// Timing records a duration.
func (m *MemorySink) Timing(name string, value time.Duration, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings = append(m.timings, Sample{Name: name, Duration: value, Tags: cloneTags(tags)})
}

// Counts returns a copy of the recorded counters.
func (m *MemorySink) Counts() []Sample { return m.snapshot(&m.counts) }

// Gauges returns a copy of the recorded gauges.
func (m *MemorySink) Gauges() []Sample { return m.snapshot(&m.gauges) }

// Timings returns a copy of the recorded timings.
func (m *MemorySink) Timings() []Sample { return m.snapshot(&m.timings) }

// Total sums the counter values recorded under name whose tags include every pair in match.
func (m *MemorySink) Total(name string, match map[string]string) int64 {
	var total int64
	for _, s := range m.Counts() {
		if s.Name != name || !tagsInclude(s.Tags, match) {
			continue
		}
		total += int64(s.Value)
	}
	return total
}

func (m *MemorySink) snapshot(src *[]Sample) []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Sample, len(*src))
	copy(out, *src)
	return out
}

func tagsInclude(tags, match map[string]string) bool {
	for k, v := range match {
		if tags[k] != v {
			return false
		}
	}
	return true
}
