package doc

import (
	"github.com/xheldon-t/prosemirror-history/pkg/document"
	"github.com/xheldon-t/prosemirror-history/pkg/history"
)

// Bookmark is a single cursor position that survives edits by remapping
// through a history.Mapping. It implements history.SelectionBookmark.
type Bookmark struct {
	Pos   int
	Assoc history.Assoc
}

// NewBookmark returns a cursor bookmark at pos.
func NewBookmark(pos int) Bookmark {
	return Bookmark{Pos: pos, Assoc: history.AssocAfter}
}

func (b Bookmark) Map(m history.Mapping) history.SelectionBookmark {
	return Bookmark{Pos: m.Map(b.Pos, b.Assoc), Assoc: b.Assoc}
}

// Resolve clamps the bookmark's position to doc's current bounds, producing
// a live Selection.
func (b Bookmark) Resolve(d *document.StringDocument) Selection {
	pos := b.Pos
	if pos < 0 {
		pos = 0
	}
	if pos > d.Length() {
		pos = d.Length()
	}
	return Selection{Pos: pos}
}

// Selection is a resolved cursor position in a live document.
type Selection struct {
	Pos int
}
