package genai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(Options{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
		Logger:     zerolog.Nop(),
	})
	c.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return c, srv
}

func TestInvokeAttachesAPIKey(t *testing.T) {
	var gotKey string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		w.Write([]byte(`{}`))
	}))

	var out map[string]any
	if err := c.Invoke(context.Background(), http.MethodPost, "/models/x:generate", map[string]string{"a": "b"}, &out); err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key mismatch: got %q want %q", gotKey, "test-key")
	}
}

func TestInvokeWithRetryRecoversFromTransientFailure(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"overloaded"}}`))
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))

	var out map[string]any
	if err := c.InvokeWithRetry(context.Background(), http.MethodPost, "/x", nil, &out); err != nil {
		t.Fatalf("InvokeWithRetry returned error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("call count mismatch: got %d want 2", got)
	}
}

func TestInvokeWithRetryStopsAfterSecondFailure(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	err := c.InvokeWithRetry(context.Background(), http.MethodPost, "/x", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("call count mismatch: got %d want 2", got)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInvokeWithRetryDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad prompt"}}`))
	}))

	err := c.InvokeWithRetry(context.Background(), http.MethodPost, "/x", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("call count mismatch: got %d want 1", got)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("unexpected error type: %T", err)
	}
	if apiErr.Transient() {
		t.Fatal("400 must not be transient")
	}
	if apiErr.Message != "bad prompt" {
		t.Fatalf("message mismatch: got %q", apiErr.Message)
	}
}

func TestDownloadReturnsContentType(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Write([]byte("mp4-bytes"))
	}))

	blob, contentType, err := c.Download(context.Background(), "/files/abc")
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if string(blob) != "mp4-bytes" {
		t.Fatalf("body mismatch: got %q", blob)
	}
	if contentType != "video/mp4" {
		t.Fatalf("content type mismatch: got %q", contentType)
	}
}

func TestAPIErrorTransient(t *testing.T) {
	cases := []struct {
		status int
		want   bool
	}{
		{0, true},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
	}
	for _, tc := range cases {
		err := &APIError{StatusCode: tc.status}
		if err.Transient() != tc.want {
			t.Fatalf("Transient(%d) mismatch: got %v want %v", tc.status, err.Transient(), tc.want)
		}
	}
}
