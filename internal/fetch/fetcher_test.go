package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/logs/2026-08-30.log":
			w.Write([]byte("day text"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL+"/logs", nil)

	got, err := f.FetchText(context.Background(), "2026-08-30.log")
	if err != nil {
		t.Fatalf("FetchText() error = %v", err)
	}
	if got != "day text" {
		t.Errorf("FetchText() = %q, want %q", got, "day text")
	}

	if _, err := f.FetchText(context.Background(), "missing.log"); err == nil {
		t.Error("FetchText() on 404: want error, got nil")
	}
}

func TestHTTPFetcher_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.FetchText(ctx, "any.log"); err == nil {
		t.Error("FetchText() with cancelled context: want error, got nil")
	}
}

func TestFileFetcher(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "2026-08-30.log"), []byte("file text"), 0o600); err != nil {
		t.Fatal(err)
	}

	f := &FileFetcher{Dir: dir}

	got, err := f.FetchText(context.Background(), "2026-08-30.log")
	if err != nil {
		t.Fatalf("FetchText() error = %v", err)
	}
	if got != "file text" {
		t.Errorf("FetchText() = %q, want %q", got, "file text")
	}

	if _, err := f.FetchText(context.Background(), "absent.log"); err == nil {
		t.Error("FetchText() on missing file: want error, got nil")
	}
}

func TestFileFetcher_RejectsTraversal(t *testing.T) {
	f := &FileFetcher{Dir: t.TempDir()}
	for _, key := range []string{"../etc/passwd", "sub/dir.log", "/abs.log"} {
		if _, err := f.FetchText(context.Background(), key); err == nil {
			t.Errorf("FetchText(%q): want error, got nil", key)
		}
	}
}
