// Package config persists viewer preferences between sessions:
// message count, poll interval, and the per-source current page
// index.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/mclog/mclog-go/internal/safefile"
)

// MaxFileSize bounds the preferences file.
const MaxFileSize = 1 * 1024 * 1024

// Prefs holds all persisted viewer preferences.
type Prefs struct {
	// MessageCount is the page size for single-line event types.
	MessageCount int `toml:"message_count"`

	// PollIntervalSeconds is the Live mode refresh interval.
	PollIntervalSeconds int `toml:"poll_interval_seconds"`

	// FollowDay keeps Live mode on the actual wall-clock day across
	// midnight instead of stopping at rollover.
	FollowDay bool `toml:"follow_day"`

	// BaseURL is where day logs are fetched from.
	BaseURL string `toml:"base_url"`

	// WatchListPath is the watch-list catalog file.
	WatchListPath string `toml:"watch_list_path"`

	// PageIndex is the current page per source key. An entry is reset
	// to 0 whenever its source key changes under it.
	PageIndex map[string]int `toml:"page_index"`
}

// Default returns preferences with sensible defaults.
func Default() Prefs {
	return Prefs{
		MessageCount:        500,
		PollIntervalSeconds: 10,
		PageIndex:           map[string]int{},
	}
}

// PollInterval returns the poll interval as a duration, falling back
// to the default for non-positive values.
func (p Prefs) PollInterval() time.Duration {
	if p.PollIntervalSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(p.PollIntervalSeconds) * time.Second
}

// PageFor returns the persisted page index for a source key.
func (p Prefs) PageFor(key string) int {
	return p.PageIndex[key]
}

// SetPage records the page index for a source key.
func (p *Prefs) SetPage(key string, page int) {
	if p.PageIndex == nil {
		p.PageIndex = map[string]int{}
	}
	if page < 0 {
		page = 0
	}
	p.PageIndex[key] = page
}

// ResetPage sets the page index for a source key back to 0.
func (p *Prefs) ResetPage(key string) {
	p.SetPage(key, 0)
}

// Load reads preferences from path. A missing file yields defaults.
func Load(path string) (Prefs, error) {
	prefs := Default()

	f, info, err := safefile.OpenRegular(path)
	if errors.Is(err, os.ErrNotExist) {
		return prefs, nil
	}
	if err != nil {
		return prefs, fmt.Errorf("opening preferences: %w", err)
	}
	defer f.Close()

	if info.Size() > MaxFileSize {
		return prefs, fmt.Errorf("preferences file too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}
	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return prefs, fmt.Errorf("reading preferences: %w", err)
	}
	if err := toml.Unmarshal(data, &prefs); err != nil {
		return prefs, fmt.Errorf("parsing preferences: %w", err)
	}
	if prefs.PageIndex == nil {
		prefs.PageIndex = map[string]int{}
	}
	return prefs, nil
}

// Save writes preferences to path atomically.
func Save(path string, prefs Prefs) error {
	data, err := toml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	if err := safefile.WriteAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}
