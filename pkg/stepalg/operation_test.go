package stepalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperation_ApplyInsert(t *testing.T) {
	op := NewOperation().Retain(5).Insert(" World").Retain(0)
	out, err := op.Apply("Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello World", out)
}

func TestOperation_ApplyDelete(t *testing.T) {
	op := NewOperation().Retain(5).Delete(6)
	out, err := op.Apply("Hello World")
	require.NoError(t, err)
	assert.Equal(t, "Hello", out)
}

func TestOperation_ApplyBaseLengthMismatch(t *testing.T) {
	op := NewOperation().Retain(5)
	_, err := op.Apply("Hi")
	assert.ErrorIs(t, err, ErrBaseLengthMismatch)
}

func TestOperation_FusesAdjacentRuns(t *testing.T) {
	op := NewOperation().Retain(2).Retain(3).Insert("a").Insert("b")
	assert.Len(t, op.Runs(), 2)
	assert.Equal(t, 5, op.Runs()[0].N)
	assert.Equal(t, "ab", op.Runs()[1].Text)
}

func TestOperation_InsertAfterDeleteReordered(t *testing.T) {
	op := NewOperation().Retain(2).Delete(1).Insert("x")
	runs := op.Runs()
	require.Len(t, runs, 3)
	assert.Equal(t, KindInsert, runs[1].Kind)
	assert.Equal(t, KindDelete, runs[2].Kind)
}

func TestOperation_Invert(t *testing.T) {
	op := NewOperation().Retain(5).Insert(" World")
	inv := op.Invert("Hello")
	out, err := inv.Apply("Hello World")
	require.NoError(t, err)
	assert.Equal(t, "Hello", out)
}

func TestOperation_InvertDelete(t *testing.T) {
	op := NewOperation().Retain(5).Delete(6)
	inv := op.Invert("Hello World")
	out, err := inv.Apply("Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello World", out)
}

func TestOperation_IsNoop(t *testing.T) {
	assert.True(t, NewOperation().Retain(3).IsNoop())
	assert.False(t, NewOperation().Insert("x").IsNoop())
}

func TestOperation_ShouldBeComposedWith_Typing(t *testing.T) {
	a := NewOperation().Retain(5).Insert("H")
	b := NewOperation().Retain(6).Insert("i")
	assert.True(t, a.ShouldBeComposedWith(b))
}

func TestOperation_ShouldBeComposedWith_DisjointInserts(t *testing.T) {
	a := NewOperation().Retain(0).Insert("H")
	b := NewOperation().Retain(10).Insert("i")
	assert.False(t, a.ShouldBeComposedWith(b))
}

func TestOperation_ShouldBeComposedWith_Backspacing(t *testing.T) {
	a := NewOperation().Retain(5).Delete(1)
	b := NewOperation().Retain(4).Delete(1)
	assert.True(t, a.ShouldBeComposedWith(b))
}
