package doc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xheldon-t/prosemirror-history/pkg/document"
	"github.com/xheldon-t/prosemirror-history/pkg/history"
)

func clock() int64 { return 1000 }

func newTestState(content string) *State {
	return NewState(document.NewStringDocument(content), NewBookmark(0), nil, clock)
}

func TestTransform_InsertText(t *testing.T) {
	tr := newTransform(document.NewStringDocument("Hello"), clock())
	tr.InsertText(5, " World")
	assert.Equal(t, "Hello World", tr.Doc().String())
	assert.Len(t, tr.Steps(), 1)
}

func TestTransform_DeleteRange(t *testing.T) {
	tr := newTransform(document.NewStringDocument("Hello World"), clock())
	tr.DeleteRange(5, 11)
	assert.Equal(t, "Hello", tr.Doc().String())
}

func TestTransform_ReplaceRange(t *testing.T) {
	tr := newTransform(document.NewStringDocument("Hello World"), clock())
	tr.ReplaceRange(6, 11, "Go")
	assert.Equal(t, "Hello Go", tr.Doc().String())
}

func TestTransform_ChainedEditsAccumulateMapping(t *testing.T) {
	tr := newTransform(document.NewStringDocument("Hello"), clock())
	tr.InsertText(5, " World").InsertText(11, "!")
	assert.Equal(t, "Hello World!", tr.Doc().String())
	assert.Len(t, tr.Steps(), 2)
	assert.Len(t, tr.Docs(), 2)
	assert.Equal(t, "Hello", tr.Docs()[0].(*document.StringDocument).String())
}

func TestState_ApplyAdvancesDocumentAndRemapsSelection(t *testing.T) {
	s := newTestState("Hello World")
	s2 := s.Apply(func() *Transform {
		tr := s.Tr().(*Transform)
		tr.InsertText(0, ">> ")
		return tr
	}())

	assert.Equal(t, ">> Hello World", s2.Document.String())
	remapped := s2.Selection().(Bookmark)
	assert.Equal(t, 3, remapped.Pos)
}

func TestState_ApplyUsesSetSelectionWhenPresent(t *testing.T) {
	s := newTestState("Hello")
	tr := s.Tr().(*Transform)
	tr.InsertText(5, "!")
	tr.SetSelection(NewBookmark(2))

	s2 := s.Apply(tr)
	assert.Equal(t, Bookmark{Pos: 2, Assoc: history.AssocAfter}, s2.Selection())
}

func TestBookmark_ResolveClampsToBounds(t *testing.T) {
	d := document.NewStringDocument("Hi")
	assert.Equal(t, Selection{Pos: 0}, NewBookmark(-5).Resolve(d))
	assert.Equal(t, Selection{Pos: 2}, NewBookmark(50).Resolve(d))
	assert.Equal(t, Selection{Pos: 1}, NewBookmark(1).Resolve(d))
}

func TestPlugin_Collaborative(t *testing.T) {
	p := NewPlugin("collab", true)
	assert.True(t, p.Collaborative())
	q := NewPlugin("local", false)
	assert.False(t, q.Collaborative())
}

func TestState_TrRootsAtCurrentDocument(t *testing.T) {
	s := newTestState("abc")
	tr := s.Tr()
	require.NotNil(t, tr)
	dt := tr.(*Transform)
	assert.Equal(t, "abc", dt.Doc().String())
}
