package mclog

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"

	"github.com/mclog/mclog-go/internal/extract"
	"github.com/mclog/mclog-go/internal/grouper"
	"github.com/mclog/mclog-go/internal/paginate"
	"github.com/mclog/mclog-go/internal/registry"
	"github.com/mclog/mclog-go/pkg/mclog/record"
	"github.com/mclog/mclog-go/pkg/mclog/view"
)

// discardLogger returns a logger that discards all output.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Query selects one page of one event type out of the current text.
type Query struct {
	// Type is the event type to view.
	Type record.Type

	// Filter is the user's free-text filter expression. A malformed
	// regular expression silently degrades to substring matching.
	Filter string

	// Page is the requested page index; page 0 is the most recent.
	// Out-of-range values clamp.
	Page int

	// PageSize overrides the page size when > 0. Otherwise the type's
	// own page size applies (50 for grouped/multi-entity types), then
	// the engine's configured message count.
	PageSize int
}

// Page is one derived window: the structured records of the current
// page (oldest first), their decorated view models, and the total
// page count under the current filter.
type Page struct {
	Records   []record.StructuredRecord
	Views     []view.ViewModel
	PageCount int
}

// Engine runs the derivation pipeline: filter, group, paginate,
// extract, decorate. Every step is pure and synchronous; the whole
// pipeline re-runs on each page, filter or watch-list change.
type Engine struct {
	reg      *registry.Registry
	pageSize int
	log      *slog.Logger
}

// NewEngine creates an engine over the built-in event-type catalog.
// messageCount is the page size for types without their own override;
// values <= 0 use the default of 500. A nil logger disables logging.
func NewEngine(messageCount int, log *slog.Logger) *Engine {
	return newEngine(registry.Builtin(), messageCount, log)
}

func newEngine(reg *registry.Registry, messageCount int, log *slog.Logger) *Engine {
	if messageCount <= 0 {
		messageCount = paginate.DefaultPageSize
	}
	if log == nil {
		log = discardLogger
	}
	return &Engine{reg: reg, pageSize: messageCount, log: log}
}

// AddVariant compiles and registers a user-defined variant for an
// existing event type. User variants always sort after the type's
// built-in variants, so built-in classification priority is
// preserved.
func (e *Engine) AddVariant(t record.Type, id, tester, extractor string) error {
	tre, err := regexp.Compile(tester)
	if err != nil {
		return fmt.Errorf("variant %q: compiling tester: %w", id, err)
	}
	ere, err := regexp.Compile(extractor)
	if err != nil {
		return fmt.Errorf("variant %q: compiling extractor: %w", id, err)
	}
	return e.reg.AddVariant(t, registry.Variant{ID: id, Tester: tre, Extractor: ere})
}

// Classify returns the classification of a single line, if any.
func (e *Engine) Classify(line string) (record.Type, bool) {
	t, _, ok := e.reg.Classify(line)
	return t, ok
}

// Derive computes the page window for a query over the given day
// slabs. Records that fail extraction (a tester/extractor contract
// gap) are logged and skipped; they never abort the batch.
func (e *Engine) Derive(slabs []record.DaySlab, q Query, dctx *view.Context) (Page, error) {
	def, ok := e.reg.Definition(q.Type)
	if !ok {
		return Page{}, fmt.Errorf("%w: %q", ErrUnknownType, q.Type)
	}

	filter := grouper.NewFilter(q.Filter)
	raws := grouper.Collect(e.reg, def, slabs, filter)
	pageRaws, pageCount := paginate.Page(raws, q.Page, e.resolvePageSize(def, q.PageSize))

	out := Page{PageCount: pageCount}
	for _, raw := range pageRaws {
		t, variant, ok := e.reg.Classify(raw.Header())
		if !ok || t != def.Type {
			// Cannot happen for records the grouper admitted; guard
			// against future drift between grouper and classifier.
			continue
		}
		rec, err := extract.Extract(def, variant, raw)
		if err != nil {
			e.log.Debug("skipping record", "type", def.Type, "error", err)
			continue
		}
		out.Records = append(out.Records, rec)
		out.Views = append(out.Views, view.Decorate(rec, def.DecorateFields, def.PlayerFields, dctx))
	}
	return out, nil
}

// View decorates a single structured record, for callers that stream
// records one at a time instead of deriving pages.
func (e *Engine) View(rec record.StructuredRecord, dctx *view.Context) view.ViewModel {
	if def, ok := e.reg.Definition(rec.Type); ok {
		return view.Decorate(rec, def.DecorateFields, def.PlayerFields, dctx)
	}
	return view.Decorate(rec, nil, nil, dctx)
}

func (e *Engine) resolvePageSize(def *registry.Definition, override int) int {
	if override > 0 {
		return override
	}
	if def.PageSize > 0 {
		return def.PageSize
	}
	return e.pageSize
}
