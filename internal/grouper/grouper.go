// Package grouper splits raw log text into filtered, grouped raw
// records for one event type.
package grouper

import (
	"regexp"
	"strings"

	"github.com/mclog/mclog-go/internal/registry"
	"github.com/mclog/mclog-go/pkg/mclog/record"
)

// Filter is a compiled free-text filter. A line passes if it contains
// the expression as a case-insensitive substring, or matches it as a
// regular expression. An expression that does not compile as a regex
// silently degrades to substring-only matching; user-supplied filters
// are never an error. The zero Filter passes everything.
type Filter struct {
	raw     string
	lowered string
	re      *regexp.Regexp
}

// NewFilter compiles a user filter expression.
func NewFilter(expr string) Filter {
	f := Filter{raw: expr, lowered: strings.ToLower(expr)}
	if expr != "" {
		// Best effort only; a malformed pattern leaves re nil.
		if re, err := regexp.Compile(expr); err == nil {
			f.re = re
		}
	}
	return f
}

// Match reports whether a line passes the filter.
func (f Filter) Match(line string) bool {
	if f.raw == "" {
		return true
	}
	if strings.Contains(strings.ToLower(line), f.lowered) {
		return true
	}
	return f.re != nil && f.re.MatchString(line)
}

// IsZero reports whether the filter passes everything.
func (f Filter) IsZero() bool { return f.raw == "" }

// groupState is the multi-line assembly state.
type groupState int

const (
	stateIdle groupState = iota
	stateInGroup
)

// GroupAndFilter splits rawText into lines, applies the filter per
// raw line, and assembles the lines classified as def's type into
// RawRecords, oldest first. For grouped types a header line opens a
// record and recognized continuation lines are appended to it; a
// continuation line with no open record is dropped.
//
// Filtering happens per line before grouping: a continuation line
// must independently satisfy the filter to be retained, even when its
// header passed. Lines whose classification priority belongs to a
// different type are skipped.
//
// sourceDay is attached to every record for date fallback.
func GroupAndFilter(reg *registry.Registry, def *registry.Definition, rawText string, f Filter, sourceDay record.Day) []record.RawRecord {
	var out []record.RawRecord
	state := stateIdle

	for _, line := range strings.Split(rawText, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if def.Grouped && def.Continuation != nil && def.Continuation.MatchString(line) {
			if !f.Match(line) {
				continue
			}
			if state == stateInGroup && len(out) > 0 {
				out[len(out)-1].Lines = append(out[len(out)-1].Lines, line)
			}
			// Orphan continuation with no open record: dropped.
			continue
		}

		// Any non-continuation line closes an open group.
		state = stateIdle

		if !f.Match(line) {
			continue
		}
		t, _, ok := reg.Classify(line)
		if !ok || t != def.Type {
			continue
		}
		out = append(out, record.RawRecord{Lines: []string{line}, SourceDay: sourceDay})
		if def.Grouped {
			state = stateInGroup
		}
	}
	return out
}

// Collect runs GroupAndFilter over each day slab in order and
// concatenates the results, preserving day order.
func Collect(reg *registry.Registry, def *registry.Definition, slabs []record.DaySlab, f Filter) []record.RawRecord {
	var out []record.RawRecord
	for _, slab := range slabs {
		out = append(out, GroupAndFilter(reg, def, slab.Text, f, slab.Day)...)
	}
	return out
}
