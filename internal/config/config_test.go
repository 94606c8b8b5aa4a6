package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func prefsPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "mclog.toml")
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	p, err := Load(prefsPath(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.MessageCount != 500 {
		t.Errorf("MessageCount = %d, want 500", p.MessageCount)
	}
	if p.PollInterval() != 10*time.Second {
		t.Errorf("PollInterval() = %v, want 10s", p.PollInterval())
	}
	if p.PageIndex == nil {
		t.Error("PageIndex map not initialized")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := prefsPath(t)

	p := Default()
	p.MessageCount = 250
	p.PollIntervalSeconds = 30
	p.FollowDay = true
	p.BaseURL = "https://logs.example.com/daily"
	p.WatchListPath = "watch.yaml"
	p.SetPage("chat", 3)
	p.SetPage("death", 1)

	if err := Save(path, p); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.MessageCount != 250 || got.PollIntervalSeconds != 30 || !got.FollowDay {
		t.Errorf("loaded prefs = %+v", got)
	}
	if got.BaseURL != p.BaseURL || got.WatchListPath != p.WatchListPath {
		t.Errorf("loaded paths = %q, %q", got.BaseURL, got.WatchListPath)
	}
	if got.PageFor("chat") != 3 || got.PageFor("death") != 1 {
		t.Errorf("page index = %v", got.PageIndex)
	}
}

func TestPageOperations(t *testing.T) {
	var p Prefs // zero value, PageIndex nil

	if p.PageFor("chat") != 0 {
		t.Errorf("PageFor on empty prefs = %d", p.PageFor("chat"))
	}
	p.SetPage("chat", 5)
	if p.PageFor("chat") != 5 {
		t.Errorf("PageFor = %d, want 5", p.PageFor("chat"))
	}
	p.SetPage("chat", -3)
	if p.PageFor("chat") != 0 {
		t.Errorf("negative page not clamped: %d", p.PageFor("chat"))
	}
	p.SetPage("chat", 5)
	p.ResetPage("chat")
	if p.PageFor("chat") != 0 {
		t.Errorf("ResetPage left %d", p.PageFor("chat"))
	}
}

func TestPollInterval_NonPositiveFallsBack(t *testing.T) {
	p := Prefs{PollIntervalSeconds: -1}
	if p.PollInterval() != 10*time.Second {
		t.Errorf("PollInterval() = %v, want 10s", p.PollInterval())
	}
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := prefsPath(t)
	if err := os.WriteFile(path, []byte("message_count = [not an int"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() on malformed TOML: want error, got nil")
	}
}

func TestLoad_RejectsOversizedFile(t *testing.T) {
	path := prefsPath(t)
	if err := os.WriteFile(path, make([]byte, MaxFileSize+1), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() on oversized file: want error, got nil")
	}
}
