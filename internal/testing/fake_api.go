package testing

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RecordedRequest is a request received by a [FakeAPI].
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type cannedResponse struct {
	status int
	body   string
}

// FakeAPI is an httptest server answering "METHOD /path" routes with canned responses.
//
// Responses queued for a route are served in order; the last one repeats.
// Unknown routes answer 404.
type FakeAPI struct {
	server *httptest.Server

	mu       sync.Mutex
	routes   map[string][]cannedResponse
	requests []RecordedRequest
}

// NewFakeAPI starts a server that is closed when the test finishes.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{routes: make(map[string][]cannedResponse)}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// URL is the server root.
func (f *FakeAPI) URL() string { return f.server.URL }

// Handle queues a response for the route.
func (f *FakeAPI) Handle(method, path string, status int, body string) *FakeAPI {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := method + " " + path
	f.routes[key] = append(f.routes[key], cannedResponse{status: status, body: body})
	return f
}

// Requests returns every request received so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// Count returns how many requests hit the route.
func (f *FakeAPI) Count(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Body:   string(body),
	})

	key := r.Method + " " + r.URL.Path
	queue := f.routes[key]
	var resp cannedResponse
	switch {
	case len(queue) == 0:
		resp = cannedResponse{status: http.StatusNotFound, body: `{"error":"not found"}`}
	case len(queue) == 1:
		resp = queue[0]
	default:
		resp = queue[0]
		f.routes[key] = queue[1:]
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	io.WriteString(w, resp.body)
}
