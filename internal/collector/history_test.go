package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestFetcher(url string) *HistoryFetcher {
	f := NewHistoryFetcher(url, "", "", 5*time.Second)
	f.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return f
}

func TestHistoryFetcher_Uncached(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Close": {"1000000000000": 10.5, "1000000086400000": null}}`))
	}))
	defer srv.Close()

	ps, err := newTestFetcher(srv.URL + "/history").FetchHistory(context.Background())
	if err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	if len(ps.Close) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ps.Close))
	}

	if gotReq.Method != http.MethodGet || gotReq.URL.Path != "/history" {
		t.Errorf("unexpected request %s %s", gotReq.Method, gotReq.URL.Path)
	}
	if got := gotReq.Header.Get("Cache-Control"); got != "no-cache" {
		t.Errorf("Cache-Control: got %q", got)
	}
	if got := gotReq.Header.Get("Pragma"); got != "no-cache" {
		t.Errorf("Pragma: got %q", got)
	}
	if got := gotReq.URL.Query().Get("_"); got != "1700000000123" {
		t.Errorf("cache buster: got %q", got)
	}
	if got := gotReq.Header.Get("Authorization"); got != "" {
		t.Errorf("unexpected Authorization header %q", got)
	}
}

func TestHistoryFetcher_APIKey(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"Close": {}}`))
	}))
	defer srv.Close()

	f := newTestFetcher(srv.URL)
	f.APIKey = "secret"
	if _, err := f.FetchHistory(context.Background()); err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	if auth != "Bearer secret" {
		t.Errorf("expected bearer header, got %q", auth)
	}
}

func TestHistoryFetcher_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv.URL).FetchHistory(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestHistoryFetcher_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestFetcher(url).FetchHistory(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestHistoryFetcher_Malformed(t *testing.T) {
	for _, body := range []string{`<html>oops</html>`, `{"Open": {}}`, `{"Close": 5}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		_, err := newTestFetcher(srv.URL).FetchHistory(context.Background())
		srv.Close()
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: expected ErrMalformed, got %v", body, err)
		}
	}
}

func TestMockFetcher(t *testing.T) {
	m := &MockFetcher{Price: 100, Days: 14}
	ps, err := m.FetchHistory(context.Background())
	if err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	if len(ps.Close) != 14 {
		t.Fatalf("expected 14 entries, got %d", len(ps.Close))
	}
	nulls := 0
	for _, e := range ps.Close {
		if !e.Value.Valid {
			nulls++
		}
	}
	if nulls != 2 {
		t.Errorf("expected 2 null entries, got %d", nulls)
	}

	m.Err = errors.New("boom")
	if _, err := m.FetchHistory(context.Background()); err == nil {
		t.Error("expected configured error")
	}
	if m.Calls != 2 {
		t.Errorf("expected 2 calls, got %d", m.Calls)
	}
}
