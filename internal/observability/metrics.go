package observability

import (
	"strconv"
	"sync"
)

// Metrics provides basic in-memory counters for client operations.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments the counter for one completed operation.
func (m *Metrics) RecordRequest(operation string, status int) {
	if m == nil {
		return
	}
	key := operationKey(operation, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(operation, code string) {
	if m == nil {
		return
	}
	key := operation + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RequestCount reports how often an operation completed with a status.
func (m *Metrics) RequestCount(operation string, status int) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount[operationKey(operation, status)]
}

func operationKey(operation string, status int) string {
	return operation + "|" + strconv.Itoa(status)
}
