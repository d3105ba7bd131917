package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides in-memory request and error counters with accumulated
// latency per route.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	totalLatency map[string]time.Duration
	errorCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		totalLatency: make(map[string]time.Duration),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments the request counter and accumulates latency.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := requestKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.totalLatency[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RequestCount returns how many requests were recorded for the route and
// status.
func (m *Metrics) RequestCount(path, method string, status int) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount[requestKey(path, method, status)]
}

// AverageLatency returns the mean recorded duration for the route and status,
// zero when nothing was recorded.
func (m *Metrics) AverageLatency(path, method string, status int) time.Duration {
	if m == nil {
		return 0
	}
	key := requestKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	count := m.requestCount[key]
	if count == 0 {
		return 0
	}
	return m.totalLatency[key] / time.Duration(count)
}

// ErrorCount returns how many errors of the given code were recorded for the
// route.
func (m *Metrics) ErrorCount(path, method, code string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errorCount[path+"|"+method+"|"+code]
}

func requestKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
