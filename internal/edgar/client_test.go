package edgar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func noopLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func testClient(baseURL, cacheDir string) *Client {
	return NewClient(Options{
		BaseURL:    baseURL,
		UserAgent:  "test-agent",
		MaxRPS:     1000,
		Timeout:    time.Second,
		MaxRetries: 2,
		CacheDir:   cacheDir,
	}, noopLogger())
}

func TestNormalizeCIK(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"320193", "0000320193", true},
		{" 6201 ", "0000006201", true},
		{"320193.0", "0000320193", true},
		{"0000320193", "0000320193", true},
		{"0", "0000000000", true},
		{"ABC", "", false},
		{"12345678901", "", false},
	}
	for _, tc := range cases {
		got, err := NormalizeCIK(tc.in)
		if (err == nil) != tc.ok {
			t.Fatalf("NormalizeCIK(%q) error = %v, want ok=%v", tc.in, err, tc.ok)
		}
		if err == nil && got != tc.want {
			t.Fatalf("NormalizeCIK(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCompanyFactsSuccess(t *testing.T) {
	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"entityName":"X"}`))
	}))
	defer srv.Close()

	data, err := testClient(srv.URL, "").CompanyFacts(context.Background(), "320193")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if string(data) != `{"entityName":"X"}` {
		t.Fatalf("unexpected body %q", data)
	}
	if gotPath != "/api/xbrl/companyfacts/CIK0000320193.json" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotUA != "test-agent" {
		t.Fatalf("user agent must be forwarded, got %q", gotUA)
	}
}

func TestCompanyFactsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, "").CompanyFacts(context.Background(), "1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("404 must map to ErrNotFound, got %v", err)
	}
}

func TestCompanyFactsRetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL, "").CompanyFacts(context.Background(), "1"); err != nil {
		t.Fatalf("should recover after retries: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestCompanyFactsDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL, "").CompanyFacts(context.Background(), "1"); err == nil {
		t.Fatal("403 must fail")
	}
	if calls.Load() != 1 {
		t.Fatalf("4xx must not be retried, got %d attempts", calls.Load())
	}
}

func TestCompanyFactsCacheRoundTrip(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"entityName":"CACHED"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	client := testClient(srv.URL, dir)

	if client.Cached("42") {
		t.Fatal("cache should start empty")
	}

	if _, err := client.CompanyFacts(context.Background(), "42"); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	if !client.Cached("42") {
		t.Fatal("fetch should populate the cache")
	}
	if _, err := os.Stat(filepath.Join(dir, "CIK0000000042.json")); err != nil {
		t.Fatalf("cache file missing: %v", err)
	}

	data, err := client.CompanyFacts(context.Background(), "42")
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	if string(data) != `{"entityName":"CACHED"}` {
		t.Fatalf("unexpected cached body %q", data)
	}
	if calls.Load() != 1 {
		t.Fatalf("second fetch must hit the cache, got %d network calls", calls.Load())
	}
}
