package grouper

import (
	"testing"

	"github.com/mclog/mclog-go/internal/registry"
	"github.com/mclog/mclog-go/pkg/mclog/record"
)

func day(s string) record.Day {
	d, err := record.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		expr string
		line string
		want bool
	}{
		{"zero filter passes everything", "", "anything", true},
		{"substring match", "alice", "[10:00:00] <Alice> hi", true},
		{"substring is case-insensitive", "ALICE", "[10:00:00] <alice> hi", true},
		{"substring miss", "bob", "[10:00:00] <Alice> hi", false},
		{"regex match", "Al.ce", "[10:00:00] <Alice> hi", true},
		{"regex alternation", "Alice|Bob", "[10:00:00] <Bob> hi", true},
		{"malformed regex degrades to substring", "[Alice", "join [Alice here", true},
		{"malformed regex substring miss", "[Alice", "[10:00:00] <Alice> hi", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilter(tt.expr)
			if got := f.Match(tt.line); got != tt.want {
				t.Errorf("NewFilter(%q).Match(%q) = %v, want %v", tt.expr, tt.line, got, tt.want)
			}
		})
	}
}

func TestGroupAndFilter_SingleLine(t *testing.T) {
	reg := registry.Builtin()
	def, _ := reg.Definition(record.Connection)

	text := "[06:00:00] Alice logged in\n" +
		"[06:05:00] <Alice> good morning\n" + // chat, skipped
		"[07:00:00] Bob logged in from 10.0.0.2\n" +
		"\n" +
		"[23:00:00] Alice left the game\n"

	got := GroupAndFilter(reg, def, text, Filter{}, day("2026-08-30"))
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	if got[0].Header() != "[06:00:00] Alice logged in" {
		t.Errorf("first record = %q", got[0].Header())
	}
	if got[2].Header() != "[23:00:00] Alice left the game" {
		t.Errorf("last record = %q", got[2].Header())
	}
	if got[0].SourceDay != day("2026-08-30") {
		t.Errorf("source day = %v", got[0].SourceDay)
	}
}

func TestGroupAndFilter_Grouped(t *testing.T) {
	reg := registry.Builtin()
	def, _ := reg.Definition(record.Death)

	text := "[12:30:00] Alice was slain by Zombie at (10, 64, -20)\n" +
		"    - 5x Iron Ingot\n" +
		"    - 120 experience\n" +
		"[12:31:00] <Bob> ouch\n" +
		"[12:32:00] Bob drowned\n" +
		"    - 1x Boat\n"

	got := GroupAndFilter(reg, def, text, Filter{}, day("2026-08-30"))
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if len(got[0].Lines) != 3 {
		t.Errorf("first record has %d lines, want 3: %q", len(got[0].Lines), got[0].Lines)
	}
	if len(got[1].Lines) != 2 {
		t.Errorf("second record has %d lines, want 2: %q", len(got[1].Lines), got[1].Lines)
	}
}

// A non-continuation line closes the open group, so continuations
// arriving after an interleaved line are dropped as orphans.
func TestGroupAndFilter_InterveningLineClosesGroup(t *testing.T) {
	reg := registry.Builtin()
	def, _ := reg.Definition(record.Death)

	text := "[12:30:00] Alice was slain by Zombie\n" +
		"    - 5x Iron Ingot\n" +
		"[12:30:01] <Bob> rip\n" +
		"    - 3x Gold Ingot\n" // orphan, no open group

	got := GroupAndFilter(reg, def, text, Filter{}, day("2026-08-30"))
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if len(got[0].Lines) != 2 {
		t.Errorf("record lines = %q, want header plus one continuation", got[0].Lines)
	}
}

// Filtering happens per raw line before grouping: a continuation must
// independently pass the filter even when its header did.
func TestGroupAndFilter_FilterAppliesToContinuations(t *testing.T) {
	reg := registry.Builtin()
	def, _ := reg.Definition(record.Death)

	text := "[12:30:00] Alice was slain by Zombie\n" +
		"    - 5x Iron Ingot\n" +
		"    - 2x Alice Totem\n"

	got := GroupAndFilter(reg, def, text, NewFilter("Alice"), day("2026-08-30"))
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	want := []string{
		"[12:30:00] Alice was slain by Zombie",
		"    - 2x Alice Totem",
	}
	if len(got[0].Lines) != len(want) {
		t.Fatalf("lines = %q, want %q", got[0].Lines, want)
	}
	for i := range want {
		if got[0].Lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[0].Lines[i], want[i])
		}
	}
}

// A header that fails the filter opens no group, so its continuations
// are dropped even when they pass.
func TestGroupAndFilter_FilteredHeaderDropsGroup(t *testing.T) {
	reg := registry.Builtin()
	def, _ := reg.Definition(record.Death)

	text := "[12:30:00] Alice was slain by Zombie\n" +
		"    - 5x Zombie Flesh\n"

	got := GroupAndFilter(reg, def, text, NewFilter("Bob"), day("2026-08-30"))
	if len(got) != 0 {
		t.Fatalf("got %d records, want 0", len(got))
	}
}

func TestCollect_PreservesDayOrder(t *testing.T) {
	reg := registry.Builtin()
	def, _ := reg.Definition(record.Chat)

	slabs := []record.DaySlab{
		{Day: day("2026-08-29"), Text: "[10:00:00] <Alice> day one\n"},
		{Day: day("2026-08-30"), Text: "[10:00:00] <Alice> day two\n"},
	}
	got := Collect(reg, def, slabs, Filter{})
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].SourceDay != slabs[0].Day || got[1].SourceDay != slabs[1].Day {
		t.Errorf("day order not preserved: %v, %v", got[0].SourceDay, got[1].SourceDay)
	}
}
