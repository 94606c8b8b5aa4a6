package tailer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func collectLines(t *testing.T, tl *Tailer, n int) []string {
	t.Helper()
	var out []string
	timeout := time.After(10 * time.Second)
	for len(out) < n {
		select {
		case line, ok := <-tl.Lines():
			if !ok {
				t.Fatalf("lines channel closed after %d of %d lines", len(out), n)
			}
			out = append(out, line)
		case err := <-tl.Errors():
			t.Fatalf("tail error: %v", err)
		case <-timeout:
			t.Fatalf("timeout after %d of %d lines", len(out), n)
		}
	}
	return out
}

func TestTailer_FromStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latest.log")
	content := "[06:00:00] Alice logged in\n[06:01:00] <Alice> hi\r\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tl, err := New(ctx, path, Config{FromStart: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer tl.Stop()

	lines := collectLines(t, tl, 2)
	if lines[0] != "[06:00:00] Alice logged in" {
		t.Errorf("line 0 = %q", lines[0])
	}
	// Carriage returns are stripped.
	if lines[1] != "[06:01:00] <Alice> hi" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestTailer_FollowsAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latest.log")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tl, err := New(ctx, path, DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer tl.Stop()

	// Give the tailer time to seek to the end before writing.
	time.Sleep(100 * time.Millisecond)

	if _, err := f.WriteString("[12:00:00] Bob logged in\n"); err != nil {
		t.Fatal(err)
	}
	f.Sync()

	lines := collectLines(t, tl, 1)
	if lines[0] != "[12:00:00] Bob logged in" {
		t.Errorf("line = %q", lines[0])
	}
}

func TestTailer_ContextCancelClosesChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latest.log")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	tl, err := New(ctx, path, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	cancel()

	select {
	case _, ok := <-tl.Lines():
		if ok {
			t.Error("got a line after cancellation")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("lines channel not closed after cancellation")
	}
}
