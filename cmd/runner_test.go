package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/scx/internal/repositories"
	"github.com/desertthunder/scx/internal/services"
	"github.com/desertthunder/scx/internal/shared"
	"github.com/desertthunder/scx/internal/tasks"
	tu "github.com/desertthunder/scx/internal/testing"
	"github.com/urfave/cli/v3"
)

func quietLogger() *log.Logger {
	logger := shared.NewLogger(&bytes.Buffer{})
	logger.SetLevel(log.FatalLevel)
	return logger
}

func trackJSON(api *tu.FakeAPI, id int, favorite bool) string {
	return fmt.Sprintf(`{"kind":"track","id":%d,"title":"Track %d","streamable":true,"stream_url":"%s/tracks/%d/stream",`+
		`"duration":61000,"user":{"id":1,"username":"artist","avatar_url":"https://i1.sndcdn.com/a-large.jpg"},`+
		`"waveform_url":"https://w1.sndcdn.com/w.png","permalink_url":"https://soundcloud.com/artist/t%d","user_favorite":%t}`,
		id, id, api.URL(), id, id, favorite)
}

type testEnv struct {
	api    *tu.FakeAPI
	prefs  *tu.MemoryPreferences
	svc    *services.SoundCloudService
	runner *Runner
	out    *bytes.Buffer
}

func newTestEnv(t *testing.T, tokens map[string]string) *testEnv {
	t.Helper()
	api := tu.NewFakeAPI(t)
	prefs := tu.NewMemoryPreferences(tokens)

	config := shared.DefaultConfig()
	config.Credentials.SoundCloud = shared.SoundCloudConfig{ClientID: "cid", ClientSecret: "secret", RedirectURI: "http://127.0.0.1/callback"}
	config.API.BaseURL = api.URL()
	config.API.TokenURL = api.URL() + "/oauth2/token"
	config.API.PageSize = 2
	config.Export.RateLimit = 1000

	logger := quietLogger()
	svc, err := services.NewSoundCloudService(services.Options{
		Credentials: config.Credentials.SoundCloud,
		API:         config.API,
		Preferences: prefs,
		Transport:   services.NewHTTPTransport(nil, logger),
		Logger:      logger,
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	out := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Config: config, Logger: logger, Output: out, Service: svc, Preferences: prefs})
	return &testEnv{api: api, prefs: prefs, svc: svc, runner: runner, out: out}
}

func authed() map[string]string {
	return map[string]string{services.PrefAccessToken: "tok", services.PrefRefreshToken: "ref"}
}

func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	app := &cli.Command{
		Name:      "scx",
		Writer:    &bytes.Buffer{},
		ErrWriter: &bytes.Buffer{},
		Commands:  e.runner.register(),
	}
	return app.Run(context.Background(), append([]string{"scx"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{Config: config, ConfigPath: "/test/config.toml", Logger: logger, Output: output})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.configFile() != "/test/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configFile())
			}
		})

		t.Run("with nil values uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.configFile() != "config.toml" {
				t.Errorf("expected default config file, got %s", runner.configFile())
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: tu.NewLimitedWriter(1, &bytes.Buffer{})})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlainln("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		seen := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			if seen[cmd.Name] {
				t.Errorf("duplicate command %q", cmd.Name)
			}
			seen[cmd.Name] = true
		}

		for _, name := range []string{"setup", "auth", "stream", "likes", "search", "me", "playlist", "user", "followers", "followings", "like", "track", "stream-url", "download-url", "export", "tui"} {
			if !seen[name] {
				t.Errorf("expected %q to be registered", name)
			}
		}
	})
}

func TestCollectionCommands(t *testing.T) {
	t.Run("prints a page as text", func(t *testing.T) {
		env := newTestEnv(t, authed())
		env.api.Handle(http.MethodGet, "/me/likes/tracks", http.StatusOK,
			fmt.Sprintf(`{"collection":[%s,%s]}`, trackJSON(env.api, 1, true), trackJSON(env.api, 2, false)))

		if err := env.run(t, "likes"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := env.out.String()
		if !strings.Contains(out, "1\tartist - Track 1 (1:01) ♥") || !strings.Contains(out, "2\tartist - Track 2 (1:01)") {
			t.Errorf("unexpected output:\n%s", out)
		}
		if strings.Contains(out, "More available") {
			t.Error("no more pages expected")
		}
		if !env.svc.IsLiked(1) || env.svc.IsLiked(2) {
			t.Error("expected liked set to come from user_favorite")
		}
	})

	t.Run("prints a page as JSON", func(t *testing.T) {
		env := newTestEnv(t, authed())
		env.api.Handle(http.MethodGet, "/me/feed/tracks", http.StatusOK, `{"collection":[]}`)

		if err := env.run(t, "stream", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.TrimSpace(env.out.String()) != "[]" {
			t.Errorf("expected empty JSON array, got %q", env.out.String())
		}
	})

	t.Run("continues from the saved cursor", func(t *testing.T) {
		env := newTestEnv(t, authed())
		next := env.api.URL() + "/me/likes/tracks?cursor=page2"
		env.api.
			Handle(http.MethodGet, "/me/likes/tracks", http.StatusOK, fmt.Sprintf(`{"collection":[%s],"next_href":"%s"}`, trackJSON(env.api, 1, false), next)).
			Handle(http.MethodGet, "/me/likes/tracks", http.StatusOK, fmt.Sprintf(`{"collection":[%s]}`, trackJSON(env.api, 2, false)))

		if err := env.run(t, "likes"); err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		if !strings.Contains(env.out.String(), "More available") {
			t.Error("expected a more-pages hint")
		}
		if saved, _ := env.prefs.Get(cursorPrefix + "likes"); saved != next {
			t.Errorf("expected saved cursor %q, got %q", next, saved)
		}

		// a fresh service has no in-memory cursor, so the saved one must be used
		env.svc.ResetCursor(services.EndpointLikes, "")
		if err := env.run(t, "likes"); err != nil {
			t.Fatalf("second run failed: %v", err)
		}

		reqs := env.api.Requests()
		if !strings.Contains(reqs[1].Query, "cursor=page2") {
			t.Errorf("expected second request to use the cursor, got %q", reqs[1].Query)
		}
		if saved, _ := env.prefs.Get(cursorPrefix + "likes"); saved != "" {
			t.Errorf("expected cursor cleared at the end, got %q", saved)
		}
	})

	t.Run("reset ignores the saved cursor", func(t *testing.T) {
		env := newTestEnv(t, authed())
		env.prefs.Set(map[string]string{cursorPrefix + "followers": env.api.URL() + "/me/followers?cursor=old"})
		env.api.Handle(http.MethodGet, "/me/followers", http.StatusOK, `{"collection":[]}`)

		if err := env.run(t, "followers", "--reset"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if q := env.api.Requests()[0].Query; strings.Contains(q, "cursor=old") || !strings.Contains(q, "linked_partitioning=true") {
			t.Errorf("expected a first-page request, got %q", q)
		}
	})

	t.Run("refreshes once on an expired token", func(t *testing.T) {
		env := newTestEnv(t, authed())
		env.api.
			Handle(http.MethodGet, "/me/feed/tracks", http.StatusUnauthorized, `{"error":"invalid_token"}`).
			Handle(http.MethodGet, "/me/feed/tracks", http.StatusOK, `{"collection":[]}`).
			Handle(http.MethodPost, "/oauth2/token", http.StatusOK, `{"access_token":"fresh","refresh_token":"ref2"}`)

		if err := env.run(t, "stream"); err != nil {
			t.Fatalf("expected no error after refresh, got %v", err)
		}
		if env.api.Count(http.MethodPost, "/oauth2/token") != 1 {
			t.Error("expected exactly one refresh")
		}
		if reqs := env.api.Requests(); !strings.Contains(reqs[len(reqs)-1].Query, "oauth_token=fresh") {
			t.Errorf("expected retry with the fresh token, got %q", reqs[len(reqs)-1].Query)
		}
	})

	t.Run("unauthenticated collection fails before any request", func(t *testing.T) {
		env := newTestEnv(t, nil)

		if err := env.run(t, "likes"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if len(env.api.Requests()) != 0 {
			t.Error("expected no requests")
		}
	})

	t.Run("search requires a query", func(t *testing.T) {
		env := newTestEnv(t, nil)
		if err := env.run(t, "search", "tracks"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("search without a token uses client_id", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.api.Handle(http.MethodGet, "/tracks", http.StatusOK, fmt.Sprintf(`{"collection":[%s]}`, trackJSON(env.api, 5, false)))

		if err := env.run(t, "search", "tracks", "lo fi"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		q := env.api.Requests()[0].Query
		if !strings.Contains(q, "client_id=cid") || !strings.Contains(q, "q=lo") {
			t.Errorf("unexpected query %q", q)
		}
	})

	t.Run("playlist rejects a bad id", func(t *testing.T) {
		env := newTestEnv(t, authed())
		if err := env.run(t, "playlist", "abc"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("user tracks maps 404 to user not found", func(t *testing.T) {
		env := newTestEnv(t, authed())
		if err := env.run(t, "user", "tracks", "99"); !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestTrackCommands(t *testing.T) {
	t.Run("like and unlike", func(t *testing.T) {
		env := newTestEnv(t, authed())
		env.api.
			Handle(http.MethodPost, "/likes/tracks/7", http.StatusOK, `{}`).
			Handle(http.MethodPost, "/likes/tracks/7/delete", http.StatusOK, `{}`)

		if err := env.run(t, "like", "7"); err != nil {
			t.Fatalf("like failed: %v", err)
		}
		if !env.svc.IsLiked(7) || !strings.Contains(env.out.String(), "now liked") {
			t.Errorf("expected track liked, output %q", env.out.String())
		}

		if err := env.run(t, "like", "--toggle", "7"); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
		if env.svc.IsLiked(7) {
			t.Error("expected toggle to unlike")
		}

		if err := env.run(t, "like", "--toggle", "--unlike", "7"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("stream-url resolves the redirect", func(t *testing.T) {
		env := newTestEnv(t, authed())
		env.api.
			Handle(http.MethodGet, "/tracks/3", http.StatusOK, trackJSON(env.api, 3, false)).
			Handle(http.MethodGet, "/tracks/3/stream", http.StatusFound, `{"location":"https://cf-media.sndcdn.com/3.mp3"}`)

		if err := env.run(t, "stream-url", "3"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.TrimSpace(env.out.String()) != "https://cf-media.sndcdn.com/3.mp3" {
			t.Errorf("unexpected output %q", env.out.String())
		}
	})

	t.Run("download-url appends client_id", func(t *testing.T) {
		env := newTestEnv(t, authed())
		env.api.
			Handle(http.MethodGet, "/tracks/3", http.StatusOK, trackJSON(env.api, 3, false)).
			Handle(http.MethodGet, "/tracks/3/stream", http.StatusFound, `{"location":"https://cf-media.sndcdn.com/3.mp3"}`)

		if err := env.run(t, "download-url", "3"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.TrimSpace(env.out.String()) != "https://cf-media.sndcdn.com/3.mp3?client_id=cid" {
			t.Errorf("unexpected output %q", env.out.String())
		}
	})

	t.Run("download-url quiet swallows failures", func(t *testing.T) {
		env := newTestEnv(t, authed())
		env.api.
			Handle(http.MethodGet, "/tracks/3", http.StatusOK, trackJSON(env.api, 3, false)).
			Handle(http.MethodGet, "/tracks/3/stream", http.StatusOK, `{}`)

		if err := env.run(t, "download-url", "--quiet", "3"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if env.out.Len() != 0 {
			t.Errorf("expected no output, got %q", env.out.String())
		}

		if err := env.run(t, "download-url", "3"); !errors.Is(err, shared.ErrNotStreamable) {
			t.Errorf("expected ErrNotStreamable, got %v", err)
		}
	})

	t.Run("track prints one line", func(t *testing.T) {
		env := newTestEnv(t, authed())
		env.api.Handle(http.MethodGet, "/tracks/4", http.StatusOK, trackJSON(env.api, 4, true))

		if err := env.run(t, "track", "4"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(env.out.String(), "Track 4") {
			t.Errorf("unexpected output %q", env.out.String())
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		env := newTestEnv(t, authed())
		if err := env.run(t, "auth", "status", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(env.out.String(), `"authenticated":true`) {
			t.Errorf("unexpected status %q", env.out.String())
		}
	})

	t.Run("logout clears tokens", func(t *testing.T) {
		env := newTestEnv(t, authed())
		if err := env.run(t, "auth", "logout"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if env.svc.Authenticated() {
			t.Error("expected logged out session")
		}
		if tok, _ := env.prefs.Get(services.PrefAccessToken); tok != "" {
			t.Errorf("expected stored token cleared, got %q", tok)
		}
	})

	t.Run("refresh without a refresh token", func(t *testing.T) {
		env := newTestEnv(t, nil)
		if err := env.run(t, "auth", "refresh"); !errors.Is(err, shared.ErrNoRefreshToken) {
			t.Errorf("expected ErrNoRefreshToken, got %v", err)
		}
	})

	t.Run("authorize exchanges the callback code", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.api.Handle(http.MethodPost, "/oauth2/token", http.StatusOK, `{"access_token":"new","refresh_token":"r2"}`)

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to listen: %v", err)
		}

		open := func(authURL string) error {
			u, err := url.Parse(authURL)
			if err != nil {
				return err
			}
			callback := fmt.Sprintf("http://%s/callback?code=abc&state=%s", ln.Addr(), url.QueryEscape(u.Query().Get("state")))
			resp, err := http.Get(callback)
			if err != nil {
				return err
			}
			resp.Body.Close()
			return nil
		}

		if err := env.runner.authorize(context.Background(), env.svc, ln, 5*time.Second, open); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tok, _ := env.prefs.Get(services.PrefAccessToken); tok != "new" {
			t.Errorf("expected stored access token, got %q", tok)
		}
		if body := env.api.Requests()[0].Body; !strings.Contains(body, "grant_type=authorization_code") || !strings.Contains(body, "code=abc") {
			t.Errorf("unexpected token request %q", body)
		}
	})

	t.Run("authorize times out", func(t *testing.T) {
		env := newTestEnv(t, nil)
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to listen: %v", err)
		}

		err = env.runner.authorize(context.Background(), env.svc, ln, 50*time.Millisecond, func(string) error { return errors.New("no browser") })
		if !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
		if !strings.Contains(env.out.String(), "Please open this URL") {
			t.Errorf("expected manual URL hint, got %q", env.out.String())
		}
	})
}

func TestExportCommand(t *testing.T) {
	t.Run("exports named collections", func(t *testing.T) {
		env := newTestEnv(t, authed())
		env.api.
			Handle(http.MethodGet, "/me/likes/tracks", http.StatusOK, fmt.Sprintf(`{"collection":[%s]}`, trackJSON(env.api, 1, true))).
			Handle(http.MethodGet, "/playlists/9/tracks", http.StatusOK, fmt.Sprintf(`{"collection":[%s]}`, trackJSON(env.api, 2, false)))
		dir := t.TempDir()

		if err := env.run(t, "export", "--format", "csv", "--output", dir, "likes", "playlist:9"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "likes.csv"))
		tu.AssertFileExists(t, filepath.Join(dir, "playlist_9.csv"))
		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
		if !strings.Contains(env.out.String(), "Exported 2/2") {
			t.Errorf("unexpected output:\n%s", env.out.String())
		}
	})

	t.Run("rejects unknown collections", func(t *testing.T) {
		env := newTestEnv(t, authed())
		if err := env.run(t, "export", "--output", t.TempDir(), "nope"); !errors.Is(err, shared.ErrUnknownEndpoint) {
			t.Errorf("expected ErrUnknownEndpoint, got %v", err)
		}
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		env := newTestEnv(t, authed())
		if err := env.run(t, "export", "--format", "xml", "likes"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestExpiredFailure(t *testing.T) {
	expired := &services.APIError{Status: http.StatusUnauthorized}
	tests := []struct {
		name    string
		results []tasks.CollectionResult
		want    bool
	}{
		{"no failures", []tasks.CollectionResult{{Success: true}}, false},
		{"only expired", []tasks.CollectionResult{{Success: true}, {Error: expired}}, true},
		{"mixed", []tasks.CollectionResult{{Error: expired}, {Error: shared.ErrAPIRequest}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expiredFailure(&tasks.ExportResult{Results: tt.results})
			if (got != nil) != tt.want {
				t.Errorf("expiredFailure() = %v, want error %v", got, tt.want)
			}
		})
	}
}

func TestClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scx.db")
	db, err := shared.NewDatabase(path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	env := newTestEnv(t, authed())
	env.runner.db = db
	env.runner.liked = repositories.NewLikedTrackRepository(db)
	env.svc.Liked().Add(3, 1)

	if err := env.runner.Close(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if env.runner.db != nil {
		t.Error("expected database to be released")
	}

	reopened, err := shared.NewDatabase(path)
	if err != nil {
		t.Fatalf("failed to reopen database: %v", err)
	}
	defer reopened.Close()

	ids, err := repositories.NewLikedTrackRepository(reopened).List()
	if err != nil {
		t.Fatalf("failed to list liked tracks: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 persisted likes, got %v", ids)
	}
}
