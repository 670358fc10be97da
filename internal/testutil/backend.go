package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// Backend is a fake metrics API serving {base}/<category>/ endpoints.
//
// By default it serves the fixture payloads with status 200. Individual
// endpoints can be switched to an error status, a custom body, or a delay.
//
// Thread-safety: configuration and hit counters are mutex-protected, so
// tests may inspect the backend while requests are in flight.
type Backend struct {
	Server *httptest.Server

	mu     sync.Mutex
	bodies map[string]string
	status map[string]int
	delay  map[string]time.Duration
	hits   map[string]int
	accept map[string]string
}

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		bodies: FixtureBodies(),
		status: map[string]int{},
		delay:  map[string]time.Duration{},
		hits:   map[string]int{},
		accept: map[string]string{},
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

// BaseURL returns the API root, e.g. http://127.0.0.1:1234/api.
func (b *Backend) BaseURL() string {
	return b.Server.URL + "/api"
}

// SetBody replaces the body served for category.
func (b *Backend) SetBody(category, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bodies[category] = body
}

// SetStatus makes category respond with status and an error body.
func (b *Backend) SetStatus(category string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status[category] = status
}

// SetDelay holds the response for category for d, or until the client gives up.
func (b *Backend) SetDelay(category string, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delay[category] = d
}

// Hits returns how many requests category received.
func (b *Backend) Hits(category string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[category]
}

// AcceptHeader returns the Accept header of the last request for category.
func (b *Backend) AcceptHeader(category string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accept[category]
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	category := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/"), "/")

	b.mu.Lock()
	b.hits[category]++
	b.accept[category] = r.Header.Get("Accept")
	body, ok := b.bodies[category]
	status := b.status[category]
	delay := b.delay[category]
	b.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if status != 0 && status != http.StatusOK {
		http.Error(w, fmt.Sprintf(`{"detail": "%s"}`, http.StatusText(status)), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}
