package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mclog/mclog-go/pkg/mclog"
	"github.com/mclog/mclog-go/pkg/mclog/record"
	"github.com/mclog/mclog-go/pkg/mclog/view"
)

// ValidFormats lists all valid output formats.
var ValidFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
}

// OutputPage writes one derived page in the given format.
func OutputPage(format string, page mclog.Page, out io.Writer) error {
	switch format {
	case "jsonl":
		for _, rec := range page.Records {
			if err := OutputJSON(rec, out); err != nil {
				return err
			}
		}
		return nil
	case "pretty":
		for _, vm := range page.Views {
			if err := OutputPretty(vm, out); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputJSON writes a structured record as one JSON line.
func OutputJSON(rec record.StructuredRecord, out io.Writer) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// OutputPretty writes a view model in human-readable form. Watched
// runs are wrapped in «» so highlighting survives a terminal.
func OutputPretty(vm view.ViewModel, out io.Writer) error {
	ts := vm.Time
	if ts == "" {
		ts = "--:--:--"
	}

	var err error
	switch vm.Type {
	case record.Chat:
		_, err = fmt.Fprintf(out, "[%s] <%s> %s\n", ts, fieldText(vm, "player"), fieldText(vm, "message"))
	case record.Connection:
		_, err = fmt.Fprintf(out, "[%s] ~ %s\n", ts, strings.TrimSpace(stripTimestamp(vm.Raw)))
	case record.Death:
		cause := fieldText(vm, "killer")
		if cause == "" {
			cause = fieldText(vm, "cause")
		}
		_, err = fmt.Fprintf(out, "[%s] x %s (%s)%s\n", ts, fieldText(vm, "player"), cause, formatItems(vm.Items))
	default:
		_, err = fmt.Fprintf(out, "[%s] * %s: %s\n", ts, vm.Type, formatFields(vm))
	}
	return err
}

// fieldText renders one decorated field, marking watched runs.
func fieldText(vm view.ViewModel, name string) string {
	f, ok := vm.Fields[name]
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, seg := range f.Segments {
		if seg.Category != "" {
			b.WriteString("«")
			b.WriteString(seg.Text)
			b.WriteString("»")
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

// formatFields formats all fields except time/date as sorted
// key=value pairs.
func formatFields(vm view.ViewModel) string {
	keys := make([]string, 0, len(vm.Fields))
	for k := range vm.Fields {
		if k == "time" || k == "date" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, fieldText(vm, k)))
	}
	return strings.Join(parts, " ")
}

func formatItems(items []record.InventoryEntry) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%dx %s", it.Count, it.Name)
	}
	return " dropped " + strings.Join(parts, ", ")
}

// stripTimestamp drops the leading "[...]" block from a raw line.
func stripTimestamp(raw string) string {
	if strings.HasPrefix(raw, "[") {
		if end := strings.Index(raw, "]"); end >= 0 {
			return raw[end+1:]
		}
	}
	return raw
}
