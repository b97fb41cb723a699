package doc

import (
	"github.com/xheldon-t/prosemirror-history/pkg/document"
	"github.com/xheldon-t/prosemirror-history/pkg/history"
	"github.com/xheldon-t/prosemirror-history/pkg/stepalg"
)

// Transform threads a sequence of stepalg steps through successive
// StringDocument states, matching history.Transform.
type Transform struct {
	cur       *document.StringDocument
	steps     []history.Step
	docs      []history.Document
	mapping   history.Mapping
	sel       history.SelectionBookmark
	hasSel    bool
	meta      map[string]any
	timestamp int64
}

func newTransform(base *document.StringDocument, timestamp int64) *Transform {
	return &Transform{
		cur:       base,
		mapping:   history.NewMapping(),
		meta:      make(map[string]any),
		timestamp: timestamp,
	}
}

// MaybeStep attempts to apply step (which must be a *stepalg.OpStep) to the
// transform's current document.
func (t *Transform) MaybeStep(step history.Step) (history.Document, bool) {
	os, ok := step.(*stepalg.OpStep)
	if !ok {
		return t.cur, false
	}
	newText, err := os.Op.Apply(t.cur.String())
	if err != nil {
		return t.cur, false
	}
	t.docs = append(t.docs, t.cur)
	t.steps = append(t.steps, step)
	t.mapping.AppendMap(step.GetMap(), history.NoMirror)
	t.cur = document.NewStringDocument(newText)
	return t.cur, true
}

func (t *Transform) Steps() []history.Step       { return t.steps }
func (t *Transform) Docs() []history.Document     { return t.docs }
func (t *Transform) Mapping() history.Mapping     { return t.mapping }
func (t *Transform) SetSelection(sel history.SelectionBookmark) {
	t.sel, t.hasSel = sel, true
}
func (t *Transform) Selection() (history.SelectionBookmark, bool) { return t.sel, t.hasSel }
func (t *Transform) ScrollIntoView()                              {}
func (t *Transform) Meta(key string) (any, bool)                  { v, ok := t.meta[key]; return v, ok }
func (t *Transform) SetMeta(key string, value any)                { t.meta[key] = value }
func (t *Transform) Time() int64                                  { return t.timestamp }

// Doc returns the document produced by every step applied so far.
func (t *Transform) Doc() *document.StringDocument { return t.cur }

// InsertText appends a step inserting text at pos.
func (t *Transform) InsertText(pos int, text string) *Transform {
	text = document.Normalize(text)
	op := stepalg.NewOperation().Retain(pos).Insert(text).Retain(t.cur.Length() - pos)
	t.MaybeStep(stepalg.NewStep(op))
	return t
}

// DeleteRange appends a step deleting the runes [from, to).
func (t *Transform) DeleteRange(from, to int) *Transform {
	op := stepalg.NewOperation().Retain(from).Delete(to - from).Retain(t.cur.Length() - to)
	t.MaybeStep(stepalg.NewStep(op))
	return t
}

// ReplaceRange appends a step replacing the runes [from, to) with text.
func (t *Transform) ReplaceRange(from, to int, text string) *Transform {
	text = document.Normalize(text)
	op := stepalg.NewOperation().Retain(from).Delete(to - from).Insert(text).Retain(t.cur.Length() - to)
	t.MaybeStep(stepalg.NewStep(op))
	return t
}
