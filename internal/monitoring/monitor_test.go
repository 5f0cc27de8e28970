package monitoring

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_CountersAndReset(t *testing.T) {
	t.Parallel()

	m := NewMonitor(nil)
	m.IncrCounter(CounterRequests, 1)
	m.IncrCounter(CounterRequests, 1)
	m.IncrCounter(CounterTodosCreated, 1)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap[CounterRequests])
	assert.Equal(t, int64(1), snap[CounterTodosCreated])

	m.Reset()
	assert.Empty(t, m.Snapshot())
}

func TestMonitor_CaptureExceptionCounts(t *testing.T) {
	t.Parallel()

	m := NewMonitor(nil)
	m.CaptureException(errors.New("boom"), map[string]string{"action": "test"})
	assert.Equal(t, int64(1), m.Snapshot()[CounterExceptions])
}

func TestNotifier_SendsToConfiguredWebhooks(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	got := map[string]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got[r.URL.Path]++
		mu.Unlock()
	}))
	defer srv.Close()

	n := NewNotifier(WebhookConfig{
		SlackURL:   srv.URL + "/slack",
		DiscordURL: srv.URL + "/discord",
		CustomURLs: []string{srv.URL + "/custom"},
	}, nil)

	n.Send(context.Background(), Alert{Title: "t", Message: "m", Severity: "warning"})

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, got["/slack"])
	require.Equal(t, 1, got["/discord"])
	require.Equal(t, 1, got["/custom"])
}

func TestNotifier_DeliveryFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	// Nothing listens on this address; Send must still return normally.
	n := NewNotifier(WebhookConfig{SlackURL: "http://127.0.0.1:1/hook"}, nil)

	done := make(chan struct{})
	go func() {
		n.Send(context.Background(), Alert{Title: "t"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Send did not return")
	}
}

func TestEmailNotifier_ConsoleFallback(t *testing.T) {
	t.Parallel()

	e := NewEmailNotifier(EmailConfig{})
	assert.NoError(t, e.Send("subject", "body"))
}

func TestMonitor_AuthFailureAlertFiresOncePerWindow(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
	}))
	defer srv.Close()

	waitForHits := func(want int) {
		t.Helper()
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			mu.Lock()
			n := hits
			mu.Unlock()
			if n >= want {
				require.Equal(t, want, n)
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
		t.Fatalf("expected %d alert deliveries", want)
	}

	m := NewMonitor(NewNotifier(WebhookConfig{SlackURL: srv.URL}, nil))

	for i := 0; i < authFailureThreshold; i++ {
		m.IncrCounter(CounterAuthFailures, 1)
	}
	waitForHits(1)

	// Further failures in the same window stay suppressed.
	m.IncrCounter(CounterAuthFailures, 5)
	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 1, hits)
	mu.Unlock()

	// Reset re-arms the alert.
	m.Reset()
	for i := 0; i < authFailureThreshold; i++ {
		m.IncrCounter(CounterAuthFailures, 1)
	}
	waitForHits(2)
}

func TestMonitor_ErrorRateAlert(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
	}))
	defer srv.Close()

	m := NewMonitor(NewNotifier(WebhookConfig{SlackURL: srv.URL}, nil))

	// 19 requests with one error stays under both gates.
	m.IncrCounter(CounterRequests, 19)
	m.IncrCounter(CounterErrors, 1)
	time.Sleep(100 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 0, hits)
	mu.Unlock()

	// Crossing the request floor with the rate above 5% fires the alert.
	m.IncrCounter(CounterRequests, 1)
	m.IncrCounter(CounterErrors, 1)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := hits
		mu.Unlock()
		if n == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("error-rate alert was not delivered")
}
