package mclog

import (
	"github.com/mclog/mclog-go/internal/extract"
	"github.com/mclog/mclog-go/internal/registry"
	"github.com/mclog/mclog-go/pkg/mclog/record"
)

// Assembler turns a live line stream into structured records,
// holding grouped records open until their continuation lines stop.
// It is the streaming counterpart of the batch grouper: follow mode
// feeds it one line at a time as the server writes them.
type Assembler struct {
	engine    *Engine
	sourceDay record.Day

	pendingDef *registry.Definition
	pending    *record.RawRecord
}

// NewAssembler creates an assembler tagging records with sourceDay.
func (e *Engine) NewAssembler(sourceDay record.Day) *Assembler {
	return &Assembler{engine: e, sourceDay: sourceDay}
}

// Feed processes one line and returns any records it completed. A
// grouped record is completed by the first line that is not one of
// its continuations, so Feed may return the previous record while
// opening a new one. Unclassifiable lines and extraction failures
// yield no records.
func (a *Assembler) Feed(line string) []record.StructuredRecord {
	if a.pending != nil && a.pendingDef.Continuation.MatchString(line) {
		a.pending.Lines = append(a.pending.Lines, line)
		return nil
	}

	out := a.Flush()

	t, _, ok := a.engine.reg.Classify(line)
	if !ok {
		return out
	}
	def, _ := a.engine.reg.Definition(t)
	raw := record.RawRecord{Lines: []string{line}, SourceDay: a.sourceDay}

	if def.Grouped {
		a.pendingDef = def
		a.pending = &raw
		return out
	}
	if rec, extracted := a.extract(def, raw); extracted {
		out = append(out, rec)
	}
	return out
}

// Flush completes any open grouped record. Call it when the stream
// ends or goes quiet.
func (a *Assembler) Flush() []record.StructuredRecord {
	if a.pending == nil {
		return nil
	}
	def, raw := a.pendingDef, *a.pending
	a.pendingDef, a.pending = nil, nil

	if rec, ok := a.extract(def, raw); ok {
		return []record.StructuredRecord{rec}
	}
	return nil
}

func (a *Assembler) extract(def *registry.Definition, raw record.RawRecord) (record.StructuredRecord, bool) {
	_, variant, ok := a.engine.reg.Classify(raw.Header())
	if !ok {
		return record.StructuredRecord{}, false
	}
	rec, err := extract.Extract(def, variant, raw)
	if err != nil {
		a.engine.log.Debug("skipping record", "type", def.Type, "error", err)
		return record.StructuredRecord{}, false
	}
	return rec, true
}
