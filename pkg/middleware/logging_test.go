package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_NilLoggerPassesThrough(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	wrapped := RequestLogger(nil)(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/sources", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("expected status %d, got %d", http.StatusTeapot, rec.Code)
	}
}

func TestRequestLogger_LogsStatusAndSize(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	})

	wrapped := RequestLogger(logger)(handler)

	req := httptest.NewRequest(http.MethodDelete, "/api/sources/nope", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusNotFound) {
		t.Errorf("expected status field %d, got %v", http.StatusNotFound, fields["status"])
	}
	if fields["bytes"] != int64(len("missing")) {
		t.Errorf("expected bytes field %d, got %v", len("missing"), fields["bytes"])
	}
	if fields["method"] != http.MethodDelete {
		t.Errorf("expected method field %q, got %v", http.MethodDelete, fields["method"])
	}
}
