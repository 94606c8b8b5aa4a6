// Package view decorates structured records into render-agnostic view
// models: watch-list substitution, drag-source annotations and inline
// color-code expansion. The concrete markup syntax is left to the
// caller's UI layer.
package view

import (
	"sort"
	"strings"

	"github.com/mclog/mclog-go/pkg/mclog/record"
)

// Category is one watch-list category: an ordered set of watched
// strings with a render template name and a priority weight.
// Categories apply in ascending weight order.
type Category struct {
	Name     string
	Template string
	Weight   int
	Terms    []string
}

// Context carries everything the decoration pass needs. It is built
// once per render and passed by reference through the pipeline.
type Context struct {
	Categories []Category
}

// NewContext builds a decoration context with categories sorted by
// ascending weight. Sorting is stable so equal-weight categories keep
// their given order.
func NewContext(categories []Category) *Context {
	sorted := make([]Category, len(categories))
	copy(sorted, categories)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight < sorted[j].Weight
	})
	return &Context{Categories: sorted}
}

// Segment is a run of text with uniform decoration. A segment claimed
// by a watch category is never re-claimed by a later one; this is the
// guard that keeps higher-weight substitutions out of text a
// lower-weight category already wrapped.
type Segment struct {
	Text     string
	Category string   // claiming watch category name, "" if none
	Template string   // the claiming category's render template
	Styles   []string // style-code span names, outermost first
}

// Drag is an opaque drag-source payload carrying the raw player name.
type Drag struct {
	Name string
}

// Field is one decorated textual field.
type Field struct {
	Segments []Segment
	Drag     *Drag // non-nil for player-name fields
}

// Plain returns the field's undecorated text.
func (f Field) Plain() string {
	var b strings.Builder
	for _, s := range f.Segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// ViewModel is the renderable form of one structured record.
type ViewModel struct {
	Type   record.Type
	Date   record.Day
	Time   string
	Fields map[string]Field
	Items  []record.InventoryEntry
	Raw    string // original text, used as tooltip / audit trail
}

// Decorate produces the view model for one structured record.
// decorateFields lists the fields receiving watch-list substitution;
// playerFields additionally receive a drag-source annotation.
// Decoration reads only the record's raw source fields and the
// context; it holds no state across calls, so re-running it yields
// identical output.
func Decorate(rec record.StructuredRecord, decorateFields, playerFields []string, ctx *Context) ViewModel {
	vm := ViewModel{
		Type:   rec.Type,
		Date:   rec.Date,
		Time:   rec.Field("time"),
		Fields: make(map[string]Field, len(rec.Fields)),
		Items:  rec.Items,
		Raw:    rec.Raw,
	}

	decorated := make(map[string]bool, len(decorateFields))
	for _, name := range decorateFields {
		decorated[name] = true
	}
	player := make(map[string]bool, len(playerFields))
	for _, name := range playerFields {
		player[name] = true
	}

	for name, value := range rec.Fields {
		segs := expandStyleCodes(value)
		if decorated[name] && ctx != nil {
			segs = applyWatchLists(segs, ctx.Categories)
		}
		f := Field{Segments: segs}
		if player[name] {
			f.Drag = &Drag{Name: value}
		}
		vm.Fields[name] = f
	}
	return vm
}

// applyWatchLists runs each category's terms over the unclaimed
// segments, splitting them so matched runs carry the category name.
func applyWatchLists(segs []Segment, categories []Category) []Segment {
	for _, cat := range categories {
		for _, term := range cat.Terms {
			if term == "" {
				continue
			}
			segs = claimTerm(segs, term, cat)
		}
	}
	return segs
}

// claimTerm splits every unclaimed segment around case-insensitive
// occurrences of term, marking the matched runs with cat.
func claimTerm(segs []Segment, term string, cat Category) []Segment {
	lowTerm := strings.ToLower(term)
	var out []Segment
	for _, seg := range segs {
		if seg.Category != "" {
			out = append(out, seg)
			continue
		}
		rest := seg.Text
		for rest != "" {
			idx := strings.Index(strings.ToLower(rest), lowTerm)
			if idx < 0 || idx+len(term) > len(rest) {
				out = append(out, Segment{Text: rest, Styles: seg.Styles})
				break
			}
			if idx > 0 {
				out = append(out, Segment{Text: rest[:idx], Styles: seg.Styles})
			}
			out = append(out, Segment{
				Text:     rest[idx : idx+len(term)],
				Category: cat.Name,
				Template: cat.Template,
				Styles:   seg.Styles,
			})
			rest = rest[idx+len(term):]
		}
	}
	return out
}
