package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/evcraddock/plot-visits/internal/client"
)

// fakeBackend serves the plots API from canned responses.
type fakeBackend struct {
	mu          sync.Mutex
	plots       string
	seedStatus  int
	seeded      string
	visitStatus int
	visitBody   string
	visits      []map[string]interface{}
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/plots":
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(b.plots))
	case r.Method == http.MethodPost && r.URL.Path == "/api/seed":
		if b.seedStatus != 0 {
			w.WriteHeader(b.seedStatus)
			return
		}
		if b.seeded != "" {
			b.plots = b.seeded
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	case r.Method == http.MethodPost && r.URL.Path == "/api/visit-requests":
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.visits = append(b.visits, body)
		if b.visitStatus != 0 {
			w.WriteHeader(b.visitStatus)
			_, _ = w.Write([]byte(b.visitBody))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	default:
		http.NotFound(w, r)
	}
}

// newBackend starts b and returns a client pointed at it.
func newBackend(t *testing.T, b *fakeBackend) *client.Client {
	t.Helper()
	return clientFor(t, b)
}

// clientFor starts h and returns a client pointed at it.
func clientFor(t *testing.T, h http.Handler) *client.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return client.New(srv.URL, 0)
}

// withFormat sets --format for the duration of a test.
func withFormat(t *testing.T, format string) {
	t.Helper()
	prev := flagFormat
	flagFormat = format
	t.Cleanup(func() { flagFormat = prev })
}

const twoPlotsJSON = `[
  {"id": 1, "title": "Riverside Acre", "location": "Pune", "size_sqft": 12500, "price_per_sqft": 45.5},
  {"id": "lot-7", "title": "Hilltop", "location": "Nashik"}
]`
