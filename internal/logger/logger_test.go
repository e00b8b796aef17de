package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}, false)
	lg.Debug("probe failed", "host", "localhost", "port", 8010)
	out := buf.String()
	if !strings.Contains(out, "probe failed") || !strings.Contains(out, "port=8010") {
		t.Fatalf("unexpected log output: %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}, false)
	lg.Info("hidden")
	lg.Warn("visible")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message should be filtered: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Fatalf("warn message missing: %q", out)
	}
}

func TestColorHandlerPrefixesLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf, nil, true)
	lg.Warn("inspect not supported")
	out := buf.String()
	if !strings.Contains(out, "\033[33m") {
		t.Fatalf("expected yellow escape in output: %q", out)
	}
	if !strings.Contains(out, "WRN") {
		t.Fatalf("expected WRN tag in output: %q", out)
	}
}

func TestLevelTags(t *testing.T) {
	cases := map[slog.Level]string{
		slog.LevelDebug:     "DBG",
		slog.LevelInfo:      "INF",
		slog.LevelWarn:      "WRN",
		slog.LevelError:     "ERR",
		slog.LevelError + 4: "ERR",
	}
	for level, want := range cases {
		if got := levelTag(level); !strings.Contains(got, want) {
			t.Fatalf("levelTag(%v) = %q, want tag %q", level, got, want)
		}
	}
}
