package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scx/internal/shared"
	tu "github.com/desertthunder/scx/internal/testing"
)

const (
	testBaseURL  = "https://api.test"
	testTokenURL = "https://secure.test/oauth/token"
	testAuthURL  = "https://secure.test/authorize"
)

type transportCall struct {
	method string
	url    string
	body   string
}

type transportReply struct {
	resp *Response
	err  error
}

// fakeTransport answers "METHOD /path" routes with queued replies; the last reply repeats.
type fakeTransport struct {
	mu     sync.Mutex
	routes map[string][]transportReply
	calls  []transportCall
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{routes: make(map[string][]transportReply)}
}

func (f *fakeTransport) on(method Method, path string, status int, body string) *fakeTransport {
	f.mu.Lock()
	defer f.mu.Unlock()

	reply := transportReply{resp: &Response{Status: status, Value: body}}
	if status >= 400 {
		reply = transportReply{err: &HTTPError{Status: status, Body: body, URL: path}}
	}
	key := string(method) + " " + path
	f.routes[key] = append(f.routes[key], reply)
	return f
}

func (f *fakeTransport) fail(method Method, path string, err error) *fakeTransport {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := string(method) + " " + path
	f.routes[key] = append(f.routes[key], transportReply{err: err})
	return f
}

func (f *fakeTransport) Get(_ context.Context, rawURL string) (*Response, error) {
	return f.do(MethodGet, rawURL, "")
}

func (f *fakeTransport) Post(_ context.Context, rawURL, body string) (*Response, error) {
	return f.do(MethodPost, rawURL, body)
}

func (f *fakeTransport) do(method Method, rawURL, body string) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, transportCall{method: string(method), url: rawURL, body: body})

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	key := string(method) + " " + u.Path
	queue := f.routes[key]
	switch len(queue) {
	case 0:
		return nil, &HTTPError{Status: 404, Body: `{"error":"not found"}`, URL: rawURL}
	case 1:
		return queue[0].resp, queue[0].err
	default:
		f.routes[key] = queue[1:]
		return queue[0].resp, queue[0].err
	}
}

func (f *fakeTransport) recorded() []transportCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]transportCall(nil), f.calls...)
}

func (f *fakeTransport) last(t *testing.T) transportCall {
	t.Helper()
	calls := f.recorded()
	if len(calls) == 0 {
		t.Fatal("expected at least one request")
	}
	return calls[len(calls)-1]
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

func testCredentials() shared.SoundCloudConfig {
	return shared.SoundCloudConfig{
		ClientID:     "cid",
		ClientSecret: "secret",
		RedirectURI:  "http://127.0.0.1:3000/callback",
	}
}

func testAPIConfig() shared.APIConfig {
	return shared.APIConfig{BaseURL: testBaseURL, TokenURL: testTokenURL, AuthURL: testAuthURL, PageSize: 10}
}

func newTestService(t *testing.T, ft *fakeTransport, prefs *tu.MemoryPreferences) *SoundCloudService {
	t.Helper()
	svc, err := NewSoundCloudService(Options{
		Credentials: testCredentials(),
		API:         testAPIConfig(),
		Preferences: prefs,
		Transport:   ft,
		Logger:      quietLogger(),
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func authedPrefs() *tu.MemoryPreferences {
	return tu.NewMemoryPreferences(map[string]string{PrefAccessToken: "tok", PrefRefreshToken: "ref"})
}

func trackFixture(id int64) map[string]any {
	return map[string]any{
		"kind":          "track",
		"id":            id,
		"streamable":    true,
		"stream_url":    fmt.Sprintf("%s/tracks/%d/stream", testBaseURL, id),
		"title":         fmt.Sprintf("Track %d", id),
		"duration":      180000,
		"user":          map[string]any{"id": 1, "username": "artist", "avatar_url": "https://i1.sndcdn.com/avatars-large.jpg"},
		"artwork_url":   "https://i1.sndcdn.com/artworks-large.jpg",
		"waveform_url":  "https://w1.sndcdn.com/abc_m.png",
		"permalink_url": "https://soundcloud.com/artist/track",
		"user_favorite": false,
	}
}

func userFixture(id int64) map[string]any {
	return map[string]any{
		"kind":        "user",
		"id":          id,
		"username":    fmt.Sprintf("user%d", id),
		"full_name":   "Full Name",
		"avatar_url":  "https://i1.sndcdn.com/avatars-large.jpg",
		"description": "bio",
	}
}

func playlistFixture(id int64) map[string]any {
	return map[string]any{
		"kind":        "playlist",
		"id":          id,
		"title":       fmt.Sprintf("Playlist %d", id),
		"artwork_url": nil,
		"user":        map[string]any{"id": 1, "username": "owner", "avatar_url": "https://i1.sndcdn.com/avatars-large.jpg"},
	}
}

func mustRaw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal fixture: %v", err)
	}
	return data
}

func rawRecords(t *testing.T, records ...any) []json.RawMessage {
	t.Helper()
	out := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		out = append(out, mustRaw(t, r))
	}
	return out
}

// pageBody renders a collection page; an empty next omits next_href.
func pageBody(t *testing.T, next string, records ...any) string {
	t.Helper()
	pg := map[string]any{"collection": rawRecords(t, records...)}
	if next != "" {
		pg["next_href"] = next
	}
	return string(mustRaw(t, pg))
}
