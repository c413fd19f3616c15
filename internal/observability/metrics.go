package observability

import (
	"strconv"
	"sync"
	"time"
)

// Triage outcome labels.
const (
	OutcomeCompleted            = "completed"
	OutcomeDegraded             = "completed_degraded"
	OutcomeOrderIDMissing       = "order_id_missing"
	OutcomeOrderNotFound        = "order_not_found"
	OutcomeClassificationFailed = "classification_failed"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu             sync.Mutex
	requestCount   map[string]int64
	errorCount     map[string]int64
	triageOutcomes map[string]int64
	issueTypes     map[string]int64
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Requests       map[string]int64 `json:"requests"`
	Errors         map[string]int64 `json:"errors"`
	TriageOutcomes map[string]int64 `json:"triage_outcomes"`
	IssueTypes     map[string]int64 `json:"issue_types"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:   make(map[string]int64),
		errorCount:     make(map[string]int64),
		triageOutcomes: make(map[string]int64),
		issueTypes:     make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
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

// RecordTriage counts a run outcome and, when known, its issue type.
func (m *Metrics) RecordTriage(outcome, issueType string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triageOutcomes[outcome]++
	if issueType != "" {
		m.issueTypes[issueType]++
	}
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsSnapshot{
		Requests:       copyCounts(m.requestCount),
		Errors:         copyCounts(m.errorCount),
		TriageOutcomes: copyCounts(m.triageOutcomes),
		IssueTypes:     copyCounts(m.issueTypes),
	}
}

func copyCounts(src map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
