package stepalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffOperation_AppliesToOldText(t *testing.T) {
	old := "Hello World"
	next := "Hello, World!"

	op := DiffOperation(old, next)
	out, err := op.Apply(old)
	require.NoError(t, err)
	assert.Equal(t, next, out)
}

func TestDiffOperation_NoChange(t *testing.T) {
	op := DiffOperation("same", "same")
	assert.True(t, op.IsNoop())
}

func TestDiffStep_InvertRoundTrips(t *testing.T) {
	old := "one two three"
	next := "one three"

	step := DiffStep(old, next)
	out, err := step.Op.Apply(old)
	require.NoError(t, err)
	assert.Equal(t, next, out)

	inv := step.Op.Invert(old)
	back, err := inv.Apply(out)
	require.NoError(t, err)
	assert.Equal(t, old, back)
}
