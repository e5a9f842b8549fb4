package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/faustok/internal/shared"
)

type fakeStatus struct {
	ready   bool
	users   int
	enabled int
}

func (f fakeStatus) Ready() bool       { return f.ready }
func (f fakeStatus) Len() int          { return f.users }
func (f fakeStatus) EnabledCount() int { return f.enabled }

func TestStatusHandler(t *testing.T) {
	srv := New(shared.ServerConfig{Host: "127.0.0.1", Port: 3000}, fakeStatus{ready: true, users: 3, enabled: 2}, shared.NewLogger(io.Discard))

	t.Run("Healthz", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
			t.Errorf("expected 200 ok, got %d %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("Status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var got Status
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode status: %v", err)
		}
		if got != (Status{Ready: true, Users: 3, AutofixEnabled: 2}) {
			t.Errorf("unexpected status: %+v", got)
		}
	})

	t.Run("Not Ready", func(t *testing.T) {
		notReady := New(shared.ServerConfig{}, fakeStatus{}, shared.NewLogger(io.Discard))
		rec := httptest.NewRecorder()
		notReady.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", rec.Code)
		}
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/status", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("Unknown Path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("Addr", func(t *testing.T) {
		if srv.Addr() != "127.0.0.1:3000" {
			t.Errorf("unexpected addr %s", srv.Addr())
		}
	})
}

func TestRouter(t *testing.T) {
	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mw("first"), mw("second"))
		router.Handle(http.MethodGet, "/x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("unexpected order: %v", order)
		}
	})

	t.Run("Method Filtering", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/x", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/x", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("Recover", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(Recover(shared.NewLogger(io.Discard)))
		router.Handle(http.MethodGet, "/panic", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}

func TestRun(t *testing.T) {
	srv := New(shared.ServerConfig{Host: "127.0.0.1", Port: 0}, fakeStatus{}, shared.NewLogger(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
