package observability

import (
	"sort"
	"sync"
	"time"
)

// Metrics collects per-operation counters for calls made to Ghost.
type Metrics interface {
	RecordCall(labels CallLabels, duration time.Duration)
}

// CallLabels contains metric dimensions.
type CallLabels struct {
	API       string // admin or content
	Operation string
	Status    int // HTTP status, 0 when the request never completed
}

// CallStats is the aggregate for one API/operation pair
type CallStats struct {
	API          string  `json:"api"`
	Operation    string  `json:"operation"`
	Calls        int64   `json:"calls"`
	Failures     int64   `json:"failures"`
	TotalLatency float64 `json:"total_latency_ms"`
	LastStatus   int     `json:"last_status"`
}

// MemoryMetrics keeps call statistics in memory for the status endpoint
type MemoryMetrics struct {
	mu    sync.Mutex
	stats map[string]*CallStats
}

// NewMemoryMetrics creates an empty collector
func NewMemoryMetrics() *MemoryMetrics {
	return &MemoryMetrics{stats: make(map[string]*CallStats)}
}

// RecordCall implements Metrics. Statuses outside 2xx count as failures.
func (m *MemoryMetrics) RecordCall(labels CallLabels, duration time.Duration) {
	key := labels.API + "/" + labels.Operation

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stats[key]
	if !ok {
		s = &CallStats{API: labels.API, Operation: labels.Operation}
		m.stats[key] = s
	}
	s.Calls++
	if labels.Status < 200 || labels.Status > 299 {
		s.Failures++
	}
	s.TotalLatency += float64(duration) / float64(time.Millisecond)
	s.LastStatus = labels.Status
}

// Snapshot returns a copy of the statistics ordered by API then operation
func (m *MemoryMetrics) Snapshot() []CallStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]CallStats, 0, len(m.stats))
	for _, s := range m.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].API != out[j].API {
			return out[i].API < out[j].API
		}
		return out[i].Operation < out[j].Operation
	})
	return out
}

// NopMetrics discards everything
type NopMetrics struct{}

// RecordCall implements Metrics
func (NopMetrics) RecordCall(CallLabels, time.Duration) {}
