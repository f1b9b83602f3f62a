package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for conversation activity and
// HTTP traffic.
type Metrics struct {
	mu                  sync.Mutex
	requestCount        map[string]int64
	errorCount          map[string]int64
	messagesByState     map[string]int64
	ticketsByCategory   map[string]int64
	escalationOverrides int64
	verificationFails   int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:      make(map[string]int64),
		errorCount:        make(map[string]int64),
		messagesByState:   make(map[string]int64),
		ticketsByCategory: make(map[string]int64),
	}
}

// RecordRequest increments counters for HTTP requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
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

// RecordMessage counts one handled inbound message by the state it dispatched in.
func (m *Metrics) RecordMessage(state string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messagesByState[state]++
}

// RecordTicket counts one created ticket by category.
func (m *Metrics) RecordTicket(category string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticketsByCategory[category]++
}

// RecordEscalationOverride counts a keyword-triggered escalation that bypassed
// the current state's handler.
func (m *Metrics) RecordEscalationOverride() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.escalationOverrides++
}

// RecordVerificationFailure counts one failed identity verification attempt.
func (m *Metrics) RecordVerificationFailure() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verificationFails++
}

// Snapshot returns a copy of all counters for the metrics endpoint.
func (m *Metrics) Snapshot() map[string]any {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	messages := make(map[string]int64, len(m.messagesByState))
	for k, v := range m.messagesByState {
		messages[k] = v
	}
	tickets := make(map[string]int64, len(m.ticketsByCategory))
	for k, v := range m.ticketsByCategory {
		tickets[k] = v
	}
	return map[string]any{
		"messages_by_state":     messages,
		"tickets_by_category":   tickets,
		"escalation_overrides":  m.escalationOverrides,
		"verification_failures": m.verificationFails,
	}
}
