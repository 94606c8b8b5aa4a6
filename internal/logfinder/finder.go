// Package logfinder locates a local server's log directory and its
// active log file for follow mode.
package logfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// EnvLogDir is the environment variable overriding the log directory.
const EnvLogDir = "MCLOG_LOGDIR"

// Sentinel errors.
var (
	ErrLogDirNotFound = errors.New("log directory not found")
	ErrNoLogFiles     = errors.New("no log files found")
)

// activeLogName is the file the server writes to; rotated days are
// archived under dated names next to it.
const activeLogName = "latest.log"

// FindLogDir returns the server log directory.
//
// Priority:
//  1. explicit (if non-empty)
//  2. MCLOG_LOGDIR environment variable
//  3. ./logs relative to the working directory
//
// The returned path has symlinks resolved for consistency.
func FindLogDir(explicit string) (string, error) {
	if explicit != "" {
		if resolved := resolveLogDir(explicit); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: specified directory is invalid or contains no log files", ErrLogDirNotFound)
	}

	if envDir := os.Getenv(EnvLogDir); envDir != "" {
		if resolved := resolveLogDir(envDir); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s environment variable points to invalid directory", ErrLogDirNotFound, EnvLogDir)
	}

	if resolved := resolveLogDir("logs"); resolved != "" {
		return resolved, nil
	}
	return "", ErrLogDirNotFound
}

// logCandidate caches a path with its modification time so files
// deleted between stat and sort don't skew the ordering.
type logCandidate struct {
	path    string
	modTime int64
}

// FindActiveLogFile returns the file follow mode should tail:
// latest.log when present, otherwise the most recently modified .log
// file in the directory.
func FindActiveLogFile(dir string) (string, error) {
	active := filepath.Join(dir, activeLogName)
	if info, err := os.Lstat(active); err == nil && info.Mode().IsRegular() {
		return active, nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.log"))
	if err != nil {
		return "", fmt.Errorf("globbing log files: %w", err)
	}
	if len(matches) == 0 {
		return "", ErrNoLogFiles
	}

	candidates := make([]logCandidate, 0, len(matches))
	for _, m := range matches {
		info, err := os.Lstat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, logCandidate{path: m, modTime: info.ModTime().UnixNano()})
	}
	if len(candidates) == 0 {
		return "", ErrNoLogFiles
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime > candidates[j].modTime
	})
	return candidates[0].path, nil
}

// resolveLogDir resolves symlinks and verifies the directory holds at
// least one .log file. Returns "" when invalid.
func resolveLogDir(dir string) string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return ""
	}
	matches, err := filepath.Glob(filepath.Join(resolved, "*.log"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return resolved
}
