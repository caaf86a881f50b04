package input

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks translation outcomes and processing latency.
// All counters are safe for concurrent use.
type Metrics struct {
	// Outcome counters
	keyEvents        atomic.Uint64
	otherEvents      atomic.Uint64
	actions          atomic.Uint64
	unmapped         atomic.Uint64
	cancelled        atomic.Uint64
	timeouts         atomic.Uint64
	legacyEvents     atomic.Uint64
	invalidRegisters atomic.Uint64

	// Latency tracking
	mu                sync.RWMutex
	keyLatencies      []time.Duration
	maxLatencySamples int
	latencyIdx        int

	// Peak latency (all time)
	peakKeyLatency atomic.Int64

	// Start time for uptime calculation
	startTime time.Time
}

const defaultLatencySamples = 1000

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		keyLatencies:      make([]time.Duration, defaultLatencySamples),
		maxLatencySamples: defaultLatencySamples,
		startTime:         time.Now(),
	}
}

// record counts one translator outcome.
func (m *Metrics) record(o Outcome) {
	switch o {
	case OutcomeUnmapped:
		m.unmapped.Add(1)
	case OutcomeCancelled:
		m.cancelled.Add(1)
	case OutcomeLegacy:
		m.legacyEvents.Add(1)
	case OutcomeInvalidRegister:
		m.invalidRegisters.Add(1)
	}
}

// RecordKeyLatency records how long a key event took from receipt to
// resolution.
func (m *Metrics) RecordKeyLatency(latency time.Duration) {
	latencyNs := latency.Nanoseconds()
	for {
		current := m.peakKeyLatency.Load()
		if latencyNs <= current {
			break
		}
		if m.peakKeyLatency.CompareAndSwap(current, latencyNs) {
			break
		}
	}

	// Store in circular buffer
	m.mu.Lock()
	m.keyLatencies[m.latencyIdx] = latency
	m.latencyIdx = (m.latencyIdx + 1) % m.maxLatencySamples
	m.mu.Unlock()
}

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	// Counters
	KeyEvents        uint64
	OtherEvents      uint64
	Actions          uint64
	Unmapped         uint64
	Cancelled        uint64
	Timeouts         uint64
	LegacyEvents     uint64
	InvalidRegisters uint64

	// Latency stats
	AvgKeyLatency  time.Duration
	MaxKeyLatency  time.Duration
	P99KeyLatency  time.Duration
	PeakKeyLatency time.Duration

	// Uptime
	Uptime time.Duration
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	latencies := slices.Clone(m.keyLatencies)
	m.mu.RUnlock()

	snap := MetricsSnapshot{
		KeyEvents:        m.keyEvents.Load(),
		OtherEvents:      m.otherEvents.Load(),
		Actions:          m.actions.Load(),
		Unmapped:         m.unmapped.Load(),
		Cancelled:        m.cancelled.Load(),
		Timeouts:         m.timeouts.Load(),
		LegacyEvents:     m.legacyEvents.Load(),
		InvalidRegisters: m.invalidRegisters.Load(),
		PeakKeyLatency:   time.Duration(m.peakKeyLatency.Load()),
		Uptime:           time.Since(m.startTime),
	}
	snap.AvgKeyLatency, snap.MaxKeyLatency, snap.P99KeyLatency = calculateLatencyStats(latencies)
	return snap
}

// calculateLatencyStats computes average, max, and p99 from a slice of latencies.
func calculateLatencyStats(latencies []time.Duration) (avg, maxLat, p99 time.Duration) {
	valid := slices.DeleteFunc(latencies, func(l time.Duration) bool { return l <= 0 })
	if len(valid) == 0 {
		return 0, 0, 0
	}

	var sum time.Duration
	for _, l := range valid {
		sum += l
	}
	avg = sum / time.Duration(len(valid))

	slices.Sort(valid)
	maxLat = valid[len(valid)-1]

	idx := int(float64(len(valid)) * 0.99)
	if idx >= len(valid) {
		idx = len(valid) - 1
	}
	p99 = valid[idx]

	return avg, maxLat, p99
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.keyEvents.Store(0)
	m.otherEvents.Store(0)
	m.actions.Store(0)
	m.unmapped.Store(0)
	m.cancelled.Store(0)
	m.timeouts.Store(0)
	m.legacyEvents.Store(0)
	m.invalidRegisters.Store(0)
	m.peakKeyLatency.Store(0)

	m.mu.Lock()
	m.keyLatencies = make([]time.Duration, m.maxLatencySamples)
	m.latencyIdx = 0
	m.startTime = time.Now()
	m.mu.Unlock()
}

// HealthStatus represents the current health status of input processing.
type HealthStatus struct {
	Healthy          bool
	LegacyEvents     uint64
	PeakLatency      time.Duration
	LatencyThreshold time.Duration
	Message          string
}

// HealthCheck returns the current health status. A legacy event means a
// producer is emitting a variant it should not, which is unhealthy even
// though translation continues.
func (m *Metrics) HealthCheck(latencyThreshold time.Duration) HealthStatus {
	status := HealthStatus{
		Healthy:          true,
		LegacyEvents:     m.legacyEvents.Load(),
		PeakLatency:      time.Duration(m.peakKeyLatency.Load()),
		LatencyThreshold: latencyThreshold,
	}

	switch {
	case status.LegacyEvents > 0:
		status.Healthy = false
		status.Message = "legacy events detected"
	case status.PeakLatency > latencyThreshold:
		status.Healthy = false
		status.Message = "latency threshold exceeded"
	default:
		status.Message = "healthy"
	}

	return status
}

// Timer helps measure key processing duration.
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// StartKeyTimer starts a timer for measuring key event processing.
func (m *Metrics) StartKeyTimer() *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: m,
	}
}

// Stop stops the timer and records the key event latency.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	t.metrics.RecordKeyLatency(elapsed)
	return elapsed
}
