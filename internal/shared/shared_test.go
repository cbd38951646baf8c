package shared

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		name string
		ms   int64
		want string
	}{
		{name: "zero", ms: 0, want: "0:00"},
		{name: "under a minute", ms: 42_000, want: "0:42"},
		{name: "minutes", ms: 215_500, want: "3:35"},
		{name: "hours", ms: 3_725_000, want: "1:02:05"},
		{name: "negative clamps to zero", ms: -10, want: "0:00"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.ms); got != tt.want {
				t.Errorf("FormatDuration(%d) = %v, want %v", tt.ms, got, tt.want)
			}
		})
	}
}

func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	b, _ := GenerateState()

	if a == b {
		t.Error("expected distinct state tokens")
	}
	if len(a) != 32 || strings.Contains(a, "-") {
		t.Errorf("expected 32 hex characters, got %q", a)
	}
}

func TestLoggers(t *testing.T) {
	t.Run("NewLogger writes to the given writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "test")
		logger.Info("hello")

		if !strings.Contains(buf.String(), "hello") || !strings.Contains(buf.String(), "component=test") {
			t.Errorf("unexpected log output: %s", buf.String())
		}
	})

	t.Run("NewFileLogger creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "scx.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		logger.Info("written")
	})
}

func TestMarshalJSON(t *testing.T) {
	compact, err := MarshalJSON(map[string]int{"a": 1}, false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(compact) != `{"a":1}` {
		t.Errorf("unexpected compact output %s", compact)
	}

	pretty, _ := MarshalJSON(map[string]int{"a": 1}, true)
	if !strings.Contains(string(pretty), "\n  \"a\": 1") {
		t.Errorf("unexpected pretty output %s", pretty)
	}
}

func TestBrowserCommand(t *testing.T) {
	const target = "https://secure.soundcloud.com/authorize?state=x"

	tc := []struct {
		name     string
		goos     string
		override string
		wantArgs []string
		wantErr  bool
	}{
		{name: "darwin", goos: "darwin", wantArgs: []string{"open", target}},
		{name: "linux", goos: "linux", wantArgs: []string{"xdg-open", target}},
		{name: "windows", goos: "windows", wantArgs: []string{"rundll32", "url.dll,FileProtocolHandler", target}},
		{name: "override with flags", goos: "plan9", override: "firefox --new-tab", wantArgs: []string{"firefox", "--new-tab", target}},
		{name: "blank override ignored", goos: "darwin", override: "  ", wantArgs: []string{"open", target}},
		{name: "unsupported", goos: "plan9", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := browserCommand(tt.goos, tt.override, target)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Join(cmd.Args, " ") != strings.Join(tt.wantArgs, " ") {
				t.Errorf("args = %v, want %v", cmd.Args, tt.wantArgs)
			}
		})
	}
}

func TestOpenBrowserUnsupported(t *testing.T) {
	original := getRuntime
	t.Cleanup(func() { getRuntime = original })
	getRuntime = func() string { return "plan9" }
	t.Setenv(EnvBrowser, "")

	if err := OpenBrowser("https://example.com"); err == nil || !strings.Contains(err.Error(), "unsupported platform") {
		t.Errorf("expected unsupported platform error, got %v", err)
	}
}
