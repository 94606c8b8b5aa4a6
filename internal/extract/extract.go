// Package extract converts raw records into structured records using
// the matched variant's extraction pattern.
package extract

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/mclog/mclog-go/internal/registry"
	"github.com/mclog/mclog-go/pkg/mclog/record"
)

// Error reports a tester/extractor contract violation: a line the
// variant's tester accepted was rejected by its extractor. The record
// is skipped; the batch continues.
type Error struct {
	Type    record.Type
	Variant string
	Line    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract %s/%s: extractor rejected line accepted by tester: %q",
		e.Type, e.Variant, e.Line)
}

// Extract runs the variant's extractor against the record's header
// line and, for grouped types, the definition's item pattern against
// each continuation line. Named capture groups become Fields; empty
// captures are omitted. The resolved date is the inline date field if
// the extractor produced one, otherwise the record's source day.
func Extract(def *registry.Definition, v *registry.Variant, raw record.RawRecord) (record.StructuredRecord, error) {
	header := raw.Header()
	matches := v.Extractor.FindStringSubmatch(header)
	if matches == nil {
		return record.StructuredRecord{}, &Error{Type: def.Type, Variant: v.ID, Line: header}
	}

	fields := make(map[string]string)
	names := v.Extractor.SubexpNames()
	for i := 1; i < len(names); i++ {
		if names[i] != "" && i < len(matches) && matches[i] != "" {
			fields[names[i]] = matches[i]
		}
	}

	out := record.StructuredRecord{
		Type:   def.Type,
		Fields: fields,
		Date:   resolveDate(fields, raw.SourceDay),
		Raw:    raw.Raw(),
	}

	if def.Grouped && def.ItemPattern != nil {
		for _, line := range raw.Lines[1:] {
			if entry, ok := parseItem(def.ItemPattern, line); ok {
				out.Items = append(out.Items, entry)
			}
			// An unrecognized continuation line is skipped, not fatal.
		}
	}
	return out, nil
}

func resolveDate(fields map[string]string, sourceDay record.Day) record.Day {
	if inline := fields["date"]; inline != "" {
		if d, err := record.ParseDay(inline); err == nil {
			return d
		}
	}
	return sourceDay
}

// parseItem parses one continuation line into an inventory entry.
// Dropped experience is represented as an entry named "experience".
func parseItem(pat *regexp.Regexp, line string) (record.InventoryEntry, bool) {
	matches := pat.FindStringSubmatch(line)
	if matches == nil {
		return record.InventoryEntry{}, false
	}
	var entry record.InventoryEntry
	names := pat.SubexpNames()
	for i := 1; i < len(names); i++ {
		if i >= len(matches) || matches[i] == "" {
			continue
		}
		switch names[i] {
		case "count":
			entry.Count, _ = strconv.Atoi(matches[i])
		case "item":
			entry.Name = matches[i]
		case "xp":
			entry.Count, _ = strconv.Atoi(matches[i])
			entry.Name = "experience"
		}
	}
	if entry.Name == "" {
		return record.InventoryEntry{}, false
	}
	return entry, true
}
