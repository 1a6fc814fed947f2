package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"image-manager/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	if rw.statusCode != http.StatusOK {
		t.Errorf("default status = %d, want 200", rw.statusCode)
	}

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusInternalServerError)
	if rw.statusCode != http.StatusNotFound || rec.Code != http.StatusNotFound {
		t.Errorf("status = %d/%d, want first WriteHeader to win", rw.statusCode, rec.Code)
	}

	n, err := rw.Write([]byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if rw.bytesWritten != 5 {
		t.Errorf("bytesWritten = %d, want 5", rw.bytesWritten)
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := map[string]string{
		"plain":             "plain",
		"line\nbreak":       "line break",
		"cr\rlf":            "cr lf",
		"nul\x00byte":       "nulbyte",
		"\x1b[31mred\x1b[0m": "[31mred[0m",
		"tab\tok":           "tab\tok",
	}
	for in, want := range tests {
		if got := sanitizeLogField(in); got != want {
			t.Errorf("sanitizeLogField(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoggerMiddleware(t *testing.T) {
	buf := captureLog(t)

	handler := RequestID(Logger(DefaultLoggingConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/images?dir=/tmp", nil)
	req.Header.Set("User-Agent", "test agent")
	req.Header.Set(RequestIDHeader, "abc-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	for _, want := range []string{"GET", "/api/images", "dir=/tmp", " 418 ", " 15 ", "abc-123", `"test agent"`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}
}

func TestLoggerSkipsHealthChecks(t *testing.T) {
	tests := []struct {
		name            string
		path            string
		logHealthChecks bool
		wantLogged      bool
	}{
		{name: "Health skipped by default", path: "/health", wantLogged: false},
		{name: "Livez skipped by default", path: "/livez", wantLogged: false},
		{name: "Health logged when enabled", path: "/health", logHealthChecks: true, wantLogged: true},
		{name: "API always logged", path: "/api/entries", wantLogged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			cfg := DefaultLoggingConfig()
			cfg.LogHealthChecks = tt.logHealthChecks

			handler := Logger(cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			if logged := buf.Len() > 0; logged != tt.wantLogged {
				t.Errorf("logged = %v, want %v (%q)", logged, tt.wantLogged, buf.String())
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	t.Run("Generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if len(seen) != 36 {
			t.Errorf("generated id = %q, want a UUID", seen)
		}
		if rec.Header().Get(RequestIDHeader) != seen {
			t.Errorf("response header = %q, want %q", rec.Header().Get(RequestIDHeader), seen)
		}
	})

	t.Run("Reused", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "host-42")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if seen != "host-42" {
			t.Errorf("id = %q, want caller's host-42", seen)
		}
	})

	t.Run("Malformed replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "bad id\twith spaces")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if seen == "bad id\twith spaces" || len(seen) != 36 {
			t.Errorf("id = %q, want a fresh UUID", seen)
		}
	})

	if RequestIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()) != "" {
		t.Error("RequestIDFromContext() on a bare context should be empty")
	}
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	router := mux.NewRouter()
	router.Use(Metrics(DefaultMetricsConfig()))
	router.HandleFunc("/api/thumbnail", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {}).Methods(http.MethodGet)

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/thumbnail", "404")
	before := testutil.ToFloat64(counter)

	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		req := httptest.NewRequest(http.MethodGet, "/api/thumbnail?name="+name, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	if got := testutil.ToFloat64(counter) - before; got != 3 {
		t.Errorf("route counter increased by %v, want 3", got)
	}

	healthBefore := testutil.CollectAndCount(metrics.HTTPRequestsTotal)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	if testutil.CollectAndCount(metrics.HTTPRequestsTotal) != healthBefore {
		t.Error("health check was recorded despite skip path")
	}
}

func TestRouteTemplateUnmatched(t *testing.T) {
	if got := routeTemplate(httptest.NewRequest(http.MethodGet, "/x", nil)); got != "unmatched" {
		t.Errorf("routeTemplate() = %q, want unmatched", got)
	}
}
