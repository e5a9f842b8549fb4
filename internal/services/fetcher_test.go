package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/faustok/internal/shared"
	tu "github.com/desertthunder/faustok/internal/testing"
)

func TestHTTPFetcher(t *testing.T) {
	t.Run("New With Nil Client", func(t *testing.T) {
		f := NewHTTPFetcher(nil)
		if f.httpClient != http.DefaultClient {
			t.Error("expected http.DefaultClient to be used")
		}
	})

	t.Run("Streams Body To Destination", func(t *testing.T) {
		payload := strings.Repeat("frame", 4096)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "video/mp4")
			w.Write([]byte(payload))
		}))
		defer server.Close()

		dest := filepath.Join(t.TempDir(), "42_abcd.mp4")
		n, err := NewHTTPFetcher(server.Client()).Fetch(context.Background(), server.URL+"/v.mp4", dest)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if n != int64(len(payload)) {
			t.Errorf("expected %d bytes, got %d", len(payload), n)
		}
		if got := tu.MustReadFile(t, dest); got != payload {
			t.Errorf("expected file content to match body")
		}
	})

	t.Run("Overwrites Existing File", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("new"))
		}))
		defer server.Close()

		dest := filepath.Join(t.TempDir(), "42.mp3")
		tu.MustWriteFile(t, dest, "old content that is longer")

		if _, err := NewHTTPFetcher(server.Client()).Fetch(context.Background(), server.URL, dest); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := tu.MustReadFile(t, dest); got != "new" {
			t.Errorf("expected 'new', got %q", got)
		}
	})

	t.Run("Non-Success Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		dest := filepath.Join(t.TempDir(), "42.mp4")
		_, err := NewHTTPFetcher(server.Client()).Fetch(context.Background(), server.URL, dest)
		if !errors.Is(err, shared.ErrDownload) {
			t.Errorf("expected ErrDownload, got %v", err)
		}
		tu.AssertFileNotExists(t, dest)
	})

	t.Run("Failed HTTP Request", func(t *testing.T) {
		client := &http.Client{
			Transport: tu.NewMockRoundTripper(nil, errors.New("connection reset")),
		}

		_, err := NewHTTPFetcher(client).Fetch(context.Background(), "http://example.com/v.mp4", filepath.Join(t.TempDir(), "v.mp4"))
		if !errors.Is(err, shared.ErrDownload) {
			t.Errorf("expected ErrDownload, got %v", err)
		}
	})

	t.Run("Failed Body Read Leaves Partial File", func(t *testing.T) {
		client := &http.Client{
			Transport: tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusOK,
				Body:       &tu.FCloser{},
				Header:     http.Header{},
			}, nil),
		}

		dest := filepath.Join(t.TempDir(), "v.mp4")
		_, err := NewHTTPFetcher(client).Fetch(context.Background(), "http://example.com/v.mp4", dest)
		if !errors.Is(err, shared.ErrDownload) {
			t.Errorf("expected ErrDownload, got %v", err)
		}
		tu.AssertFileExists(t, dest)
	})

	t.Run("Unwritable Destination", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("data"))
		}))
		defer server.Close()

		dest := filepath.Join(t.TempDir(), "missing", "dir", "v.mp4")
		_, err := NewHTTPFetcher(server.Client()).Fetch(context.Background(), server.URL, dest)
		if !errors.Is(err, shared.ErrDownload) {
			t.Errorf("expected ErrDownload, got %v", err)
		}
	})

	t.Run("Invalid URL", func(t *testing.T) {
		_, err := NewHTTPFetcher(nil).Fetch(context.Background(), "http://example.com/\x00bad", filepath.Join(t.TempDir(), "v.mp4"))
		if !errors.Is(err, shared.ErrDownload) {
			t.Errorf("expected ErrDownload, got %v", err)
		}
	})
}
