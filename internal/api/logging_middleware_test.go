package api

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"wealthlens/pkg/wealthlens"
)

func setupRouterWithLogger(t *testing.T, logger *slog.Logger) http.Handler {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	core, err := wealthlens.OpenWithOptions(wealthlens.Options{DBPath: dbPath, Logger: logger})
	if err != nil {
		t.Fatalf("open core: %v", err)
	}
	t.Cleanup(func() {
		_ = core.Close()
	})

	return NewRouter(core)
}

func TestRouterLogsRequestCompleted(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	router := setupRouterWithLogger(t, logger)

	rr := doRequest(router, http.MethodGet, "/api/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	logs := buf.String()
	for _, want := range []string{"http request completed", "method=GET", "path=/api/health", "status=200", "request_id=", "duration_ms="} {
		if !strings.Contains(logs, want) {
			t.Fatalf("expected %q in request log, got %q", want, logs)
		}
	}
}

func TestRouterLogsWarnForBadRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	router := setupRouterWithLogger(t, logger)

	rr := doRequest(router, http.MethodDelete, "/api/transactions/invalid", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	logs := buf.String()
	if !strings.Contains(logs, "level=WARN") {
		t.Fatalf("expected warn level log, got %q", logs)
	}
	if !strings.Contains(logs, "status=400") {
		t.Fatalf("expected status=400 in log, got %q", logs)
	}
	if !strings.Contains(logs, "error_message=") || !strings.Contains(logs, "invalid id") {
		t.Fatalf("expected error message in log, got %q", logs)
	}
}

func TestRouterRecoversPanicWithStructuredLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	oldDefault := slog.Default()
	slog.SetDefault(logger)
	t.Cleanup(func() {
		slog.SetDefault(oldDefault)
	})

	// A nil core makes every handler panic, exercising the recovery path.
	router := NewRouter(nil)
	rr := doRequest(router, http.MethodGet, "/api/holdings", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}

	if !strings.Contains(rr.Body.String(), `{"error":"internal server error"}`) {
		t.Fatalf("expected structured error response, got %q", rr.Body.String())
	}

	logs := buf.String()
	if !strings.Contains(logs, "panic recovered") {
		t.Fatalf("expected panic recovery log, got %q", logs)
	}
	if !strings.Contains(logs, "request_id=") {
		t.Fatalf("expected request id in panic log, got %q", logs)
	}
	if !strings.Contains(logs, "level=ERROR") {
		t.Fatalf("expected error level log, got %q", logs)
	}
}

func TestRouterUsesCoreLoggerForRequestLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	router := setupRouterWithLogger(t, logger)

	defaultBuf := bytes.Buffer{}
	oldDefault := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&defaultBuf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() {
		slog.SetDefault(oldDefault)
	})

	rr := doRequest(router, http.MethodGet, "/api/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	if !strings.Contains(buf.String(), "http request completed") {
		t.Fatalf("expected logs written through core logger, got %q", buf.String())
	}
	if defaultBuf.Len() != 0 {
		t.Fatalf("expected no log written to slog default, got %q", defaultBuf.String())
	}
}

func TestRouterLoggingIncludesUserAgent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	router := setupRouterWithLogger(t, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("User-Agent", "wealthlens-test-agent")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	if !strings.Contains(buf.String(), "user_agent=wealthlens-test-agent") {
		t.Fatalf("expected user_agent field in request logs, got %q", buf.String())
	}
}
