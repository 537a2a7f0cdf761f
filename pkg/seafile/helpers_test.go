package seafile

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

type recorded struct {
	Method string
	Path   string
	Query  url.Values
	Body   string
	Header http.Header
}

// recorder keeps every request a test server saw.
type recorder struct {
	mu   sync.Mutex
	reqs []recorded
}

func (rec *recorder) wrap(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(b))
		rec.mu.Lock()
		rec.reqs = append(rec.reqs, recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Body:   string(b),
			Header: r.Header.Clone(),
		})
		rec.mu.Unlock()
		h(w, r)
	}
}

func (rec *recorder) all() []recorded {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]recorded(nil), rec.reqs...)
}

func (rec *recorder) count() int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return len(rec.reqs)
}

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := ParseServerURL(raw)
	if err != nil {
		t.Fatalf("ParseServerURL(%q) error = %v", raw, err)
	}
	return u
}

// newTestSession serves h on a local server and returns a session that
// already knows its token and server version.
func newTestSession(t *testing.T, h http.Handler, opts ...Option) *Session {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	conn := NewConnection(opts...)
	t.Cleanup(func() { _ = conn.Close() })
	return FromTokenUnchecked(conn, mustURL(t, srv.URL), "user@test.com", "tok", "8.0.0")
}

// stubRequest is a minimal descriptor for exercising the dispatcher.
type stubRequest struct {
	baseRequest
	method Method
	path   string
}

func (r *stubRequest) Path() string                              { return r.path }
func (r *stubRequest) Method() Method                            { return r.method }
func (r *stubRequest) ParseResponse(body []byte) (string, error) { return string(body), nil }
