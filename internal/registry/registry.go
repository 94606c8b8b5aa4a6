// Package registry holds the ordered catalog of event-type definitions
// and the line classifier.
package registry

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mclog/mclog-go/pkg/mclog/record"
)

// Variant is one recognized textual shape within an event type.
// Tester is a cheap membership check; Extractor is the full pattern
// with named capture groups, run only once membership is confirmed.
// Every line Tester accepts must also be accepted by Extractor.
type Variant struct {
	ID        string
	Tester    *regexp.Regexp
	Extractor *regexp.Regexp
}

// Definition is the capability table for one event type: its ordered
// variants plus the per-type behaviors the pipeline needs (grouping,
// per-item parsing, page sizing, decoration targets).
type Definition struct {
	Type     record.Type
	Variants []Variant

	// Grouped marks multi-line types. Continuation recognizes a
	// continuation line; ItemPattern extracts one inventory entry
	// from it. Both are nil for single-line types.
	Grouped      bool
	Continuation *regexp.Regexp
	ItemPattern  *regexp.Regexp

	// PageSize overrides the configured default page size when > 0.
	PageSize int

	// DecorateFields lists the extracted fields that receive
	// watch-list decoration. PlayerFields additionally receive a
	// drag-source annotation.
	DecorateFields []string
	PlayerFields   []string
}

// Registry is an ordered, immutable-after-build catalog of event-type
// definitions. Catalog order is the classification priority order.
type Registry struct {
	defs   []*Definition
	byType map[record.Type]*Definition
}

// New builds a registry from definitions in priority order.
func New(defs []*Definition) *Registry {
	byType := make(map[record.Type]*Definition, len(defs))
	for _, d := range defs {
		byType[d.Type] = d
	}
	return &Registry{defs: defs, byType: byType}
}

// Definitions returns the catalog in priority order.
func (r *Registry) Definitions() []*Definition {
	return r.defs
}

// Definition returns the definition for an event type.
func (r *Registry) Definition(t record.Type) (*Definition, bool) {
	d, ok := r.byType[t]
	return d, ok
}

// Classify returns the first matching (type, variant) for a line,
// trying types in catalog order and variants in definition order.
// Returns ok=false if nothing matches; callers must treat such lines
// as ignorable, not as errors.
//
// Classification is a pure function of the line text: no state is
// read or written, so repeated calls always agree.
func (r *Registry) Classify(line string) (record.Type, *Variant, bool) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return "", nil, false
	}
	for _, d := range r.defs {
		for i := range d.Variants {
			if d.Variants[i].Tester.MatchString(line) {
				return d.Type, &d.Variants[i], true
			}
		}
	}
	return "", nil, false
}

// AddVariant appends a variant to an existing type's definition.
// User-supplied variants always sort after built-ins of the same type
// so built-in priority is preserved.
func (r *Registry) AddVariant(t record.Type, v Variant) error {
	d, ok := r.byType[t]
	if !ok {
		return fmt.Errorf("unknown event type %q", t)
	}
	for _, existing := range d.Variants {
		if existing.ID == v.ID {
			return fmt.Errorf("duplicate variant id %q for type %q", v.ID, t)
		}
	}
	d.Variants = append(d.Variants, v)
	return nil
}
