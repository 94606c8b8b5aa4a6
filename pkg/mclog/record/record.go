// Package record defines the core record types for server log parsing.
//
// This package is separated from the main mclog package to avoid import cycles
// between pkg/mclog and the internal pipeline packages.
package record

import (
	"sort"
	"strings"
	"time"
)

// Type identifies an event type in the server log.
type Type string

const (
	// Death is a player death, optionally followed by indented lines
	// listing dropped inventory and experience.
	Death Type = "death"

	// ItemAction is an item pickup or drop.
	ItemAction Type = "item_action"

	// RareSpawn is a rare mob spawn announcement.
	RareSpawn Type = "rare_spawn"

	// Trade is an item trade between two players.
	Trade Type = "trade"

	// Connection is a player joining or leaving the server.
	Connection Type = "connection"

	// Chat is a chat message. Its last variant is a permissive
	// catch-all, so Chat must stay lowest priority.
	Chat Type = "chat"
)

// allTypes lists all event types in classification priority order
// (highest first). The order is load-bearing: Chat's catch-all variant
// matches almost any non-empty line and must be tried last.
var allTypes = []Type{Death, ItemAction, RareSpawn, Trade, Connection, Chat}

// PriorityOrder returns all event types in classification priority
// order, highest first. The returned slice is a copy.
func PriorityOrder() []Type {
	out := make([]Type, len(allTypes))
	copy(out, allTypes)
	return out
}

// TypeNames returns a sorted list of all valid event type names.
func TypeNames() []string {
	names := make([]string, len(allTypes))
	for i, t := range allTypes {
		names[i] = string(t)
	}
	sort.Strings(names)
	return names
}

// typeByName maps lowercase names to Type, built once at init.
var typeByName = func() map[string]Type {
	m := make(map[string]Type, len(allTypes))
	for _, t := range allTypes {
		m[string(t)] = t
	}
	return m
}()

// ParseType converts a string to Type if valid.
// It is case-insensitive and trims leading/trailing whitespace.
func ParseType(name string) (Type, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	t, ok := typeByName[name]
	return t, ok
}

// DayLayout is the canonical calendar-day format used for fetch keys
// and date fallback.
const DayLayout = "2006-01-02"

// Day is a calendar day, the resolution at which log files are keyed.
// The zero Day is "no day known".
type Day struct {
	Year  int
	Month time.Month
	DayN  int
}

// DayOf truncates a wall-clock time to its calendar day.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, DayN: d}
}

// ParseDay parses a day in DayLayout format ("2006-01-02").
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, err
	}
	return DayOf(t), nil
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.DayN == 0
}

// Time returns the day as a time.Time at midnight UTC.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.DayN, 0, 0, 0, 0, time.UTC)
}

// Next returns the following calendar day.
func (d Day) Next() Day {
	return DayOf(d.Time().AddDate(0, 0, 1))
}

// Before reports whether d is earlier than other.
func (d Day) Before(other Day) bool {
	return d.Time().Before(other.Time())
}

// String formats the day in DayLayout format. The zero Day formats
// as the empty string.
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DayLayout)
}

// DaysBetween enumerates every calendar day from start to end
// inclusive, in order. Returns nil if end is before start.
func DaysBetween(start, end Day) []Day {
	if end.Before(start) {
		return nil
	}
	var days []Day
	for d := start; !end.Before(d); d = d.Next() {
		days = append(days, d)
	}
	return days
}

// RawRecord is one logical unit of log text: a single line for most
// event types, or a header line plus continuation lines for grouped
// types (deaths). SourceDay is the calendar day of the containing
// file, used as a date fallback when the line carries no inline date.
type RawRecord struct {
	Lines     []string
	SourceDay Day
}

// Header returns the record's primary line.
func (r RawRecord) Header() string {
	if len(r.Lines) == 0 {
		return ""
	}
	return r.Lines[0]
}

// Raw returns the record's full original text, joined with newlines.
func (r RawRecord) Raw() string {
	return strings.Join(r.Lines, "\n")
}

// InventoryEntry is one parsed continuation line of a grouped record:
// a dropped item stack or an experience amount.
type InventoryEntry struct {
	Count int    `json:"count"`
	Name  string `json:"name"`
}

// StructuredRecord is the extractor's output for one RawRecord.
type StructuredRecord struct {
	// Type is the event type this record classified as.
	Type Type `json:"type"`

	// Fields holds the named capture groups from the matched variant's
	// extractor pattern (time, player, coordinates, message, ...).
	Fields map[string]string `json:"fields"`

	// Items holds parsed continuation-line entries for grouped types.
	Items []InventoryEntry `json:"items,omitempty"`

	// Date is the resolved calendar day: the inline date field if the
	// extractor produced one, otherwise the RawRecord's source day.
	Date Day `json:"date"`

	// Raw is the untouched original text, kept as an audit trail.
	Raw string `json:"raw"`
}

// Field returns the named field, or "" if absent.
func (r StructuredRecord) Field(name string) string {
	return r.Fields[name]
}

// DaySlab is one fetched day of raw log text. A failed fetch yields a
// slab with empty Text rather than an error.
type DaySlab struct {
	Day  Day
	Text string
}
