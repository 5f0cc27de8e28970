package monitoring

import (
	"context"
	"log"
	"sync"
	"time"
)

// Counter names tracked across the request pipeline.
const (
	CounterRequests         = "http_requests"
	CounterErrors           = "http_errors"
	CounterSlowRequests     = "http_slow_requests"
	CounterAuthFailures     = "auth_failures"
	CounterValidationErrors = "validation_errors"
	CounterExceptions       = "exceptions"
	CounterRegistrations    = "registrations"
	CounterLogins           = "logins"
	CounterTodosCreated     = "todos_created"
	CounterTodosCompleted   = "todos_completed"
	CounterTodosDeleted     = "todos_deleted"
)

// Alert thresholds, evaluated per reset window.
const (
	errorRateThreshold   = 0.05
	errorRateMinRequests = 20
	authFailureThreshold = 10
	validationThreshold  = 50
)

// Monitor is the in-process Sink implementation: a breadcrumb log plus
// rolling counters with explicit reset semantics. The counters are advisory
// only; losing them (on reset or restart) never affects domain correctness.
type Monitor struct {
	notifier *Notifier

	mu        sync.Mutex
	counts    map[string]int64
	alerted   map[string]bool
	lastReset time.Time
}

// NewMonitor builds a Monitor. notifier may be nil, in which case threshold
// breaches are only logged.
func NewMonitor(notifier *Notifier) *Monitor {
	return &Monitor{
		notifier:  notifier,
		counts:    make(map[string]int64),
		alerted:   make(map[string]bool),
		lastReset: time.Now(),
	}
}

func (m *Monitor) AddBreadcrumb(b Breadcrumb) {
	logBreadcrumb(b)
}

func (m *Monitor) CaptureException(err error, tags map[string]string) {
	log.Printf("[error] exception: %v %v", err, tags)
	m.IncrCounter(CounterExceptions, 1)
}

func (m *Monitor) IncrCounter(name string, delta int64) {
	m.mu.Lock()
	m.counts[name] += delta
	alert := m.thresholdBreachLocked(name)
	m.mu.Unlock()

	if alert != nil {
		// Alert delivery is fire-and-forget; the request never waits on it.
		go m.dispatch(*alert)
	}
}

// Snapshot returns a copy of the current counters.
func (m *Monitor) Snapshot() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out
}

// Reset clears all counters and re-arms alerts. Called on the periodic
// reporting loop and available explicitly for tests.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts = make(map[string]int64)
	m.alerted = make(map[string]bool)
	m.lastReset = time.Now()
}

// StartResetLoop reports and resets the counters every interval until the
// context is cancelled.
func (m *Monitor) StartResetLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log.Printf("metrics window: %v", m.Snapshot())
				m.Reset()
			}
		}
	}()
}

// thresholdBreachLocked checks whether the counter that just moved crossed
// an alert threshold. Each alert fires at most once per reset window.
func (m *Monitor) thresholdBreachLocked(name string) *Alert {
	switch name {
	case CounterErrors, CounterRequests:
		requests := m.counts[CounterRequests]
		errors := m.counts[CounterErrors]
		if requests >= errorRateMinRequests && float64(errors)/float64(requests) > errorRateThreshold && !m.alerted["error_rate"] {
			m.alerted["error_rate"] = true
			return &Alert{
				Title:    "High error rate detected",
				Message:  "Server error rate exceeded 5% in the current window",
				Severity: "critical",
			}
		}
	case CounterAuthFailures:
		if m.counts[name] >= authFailureThreshold && !m.alerted["auth_failures"] {
			m.alerted["auth_failures"] = true
			return &Alert{
				Title:    "High authentication failures",
				Message:  "Repeated authentication failures in the current window",
				Severity: "warning",
			}
		}
	case CounterValidationErrors:
		if m.counts[name] >= validationThreshold && !m.alerted["validation_errors"] {
			m.alerted["validation_errors"] = true
			return &Alert{
				Title:    "Validation error spike",
				Message:  "Unusually many validation failures in the current window",
				Severity: "warning",
			}
		}
	}
	return nil
}

func (m *Monitor) dispatch(a Alert) {
	log.Printf("[alert] %s: %s", a.Title, a.Message)
	if m.notifier != nil {
		m.notifier.Send(context.Background(), a)
	}
}
