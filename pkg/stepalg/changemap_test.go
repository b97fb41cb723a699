package stepalg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xheldon-t/prosemirror-history/pkg/history"
)

func TestChangeMap_MapAroundDelete(t *testing.T) {
	op := NewOperation().Retain(2).Delete(3).Retain(1) // "abcdef" -> "abf"
	cm := newChangeMap(op)

	assert.Equal(t, 0, cm.Map(0, history.AssocAfter))
	assert.Equal(t, 2, cm.Map(2, history.AssocBefore))
	assert.Equal(t, 2, cm.Map(2, history.AssocAfter))
	assert.Equal(t, 2, cm.Map(3, history.AssocBefore))
	assert.Equal(t, 2, cm.Map(3, history.AssocAfter))
	assert.Equal(t, 2, cm.Map(5, history.AssocBefore))
	assert.Equal(t, 2, cm.Map(5, history.AssocAfter))
	assert.Equal(t, 3, cm.Map(6, history.AssocAfter))
}

func TestChangeMap_MapAroundInsert(t *testing.T) {
	op := NewOperation().Retain(5).Insert(" World") // "Hello" -> "Hello World"
	cm := newChangeMap(op)

	assert.Equal(t, 0, cm.Map(0, history.AssocAfter))
	assert.Equal(t, 5, cm.Map(5, history.AssocBefore))
	// At a pure insertion's boundary, AssocAfter skips past the inserted
	// text rather than landing immediately before it.
	assert.Equal(t, 11, cm.Map(5, history.AssocAfter))
}

func TestChangeMap_ForEach(t *testing.T) {
	op := NewOperation().Retain(2).Delete(3).Retain(1)
	cm := newChangeMap(op)

	var spans [][4]int
	cm.ForEach(func(startOld, endOld, startNew, endNew int) {
		spans = append(spans, [4]int{startOld, endOld, startNew, endNew})
	})
	assert.Equal(t, [][4]int{{2, 5, 2, 2}}, spans)
}

func TestChangeMap_Invert(t *testing.T) {
	op := NewOperation().Retain(5).Insert(" World")
	cm := newChangeMap(op)
	inv := cm.Invert()

	// The insert's forward span was {5,5,5,11}; inverted it should read as
	// a deletion of [5,11) collapsing to 5.
	assert.Equal(t, 5, inv.Map(5, history.AssocBefore))
	assert.Equal(t, 5, inv.Map(8, history.AssocAfter))
}
