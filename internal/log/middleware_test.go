package log

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMiddlewareInstallsRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: ComponentHTTP,
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	var got *Logger
	handler := Middleware(logger)(
		RequestIDMiddleware(func(*http.Request) string { return "req_test" })(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = FromContext(r.Context())
				got.InfoContext(r.Context(), "Handled")
			})))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got == nil {
		t.Fatal("no logger in request context")
	}
	out := buf.String()
	if !strings.Contains(out, "request_id=req_test") {
		t.Errorf("log line missing request id: %q", out)
	}
	if !strings.Contains(out, "component=http") {
		t.Errorf("log line missing component: %q", out)
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	logger := FromContext(context.Background())
	if logger == nil {
		t.Fatal("nil logger")
	}
	if logger.Component() != ComponentApp {
		t.Errorf("component = %q, want %q", logger.Component(), ComponentApp)
	}
}
