package stepalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform_ConcurrentInserts(t *testing.T) {
	base := "Hello World"
	a := NewOperation().Retain(5).Insert(",").Retain(6)
	b := NewOperation().Retain(11).Insert("!")

	aPrime, bPrime, err := Transform(a, b)
	require.NoError(t, err)

	viaA, err := a.Apply(base)
	require.NoError(t, err)
	viaAB, err := bPrime.Apply(viaA)
	require.NoError(t, err)

	viaB, err := b.Apply(base)
	require.NoError(t, err)
	viaBA, err := aPrime.Apply(viaB)
	require.NoError(t, err)

	assert.Equal(t, viaAB, viaBA)
	assert.Equal(t, "Hello, World!", viaAB)
}

func TestTransform_ConcurrentDeletes(t *testing.T) {
	base := "Hello World"
	a := NewOperation().Retain(5).Delete(1).Retain(5)
	b := NewOperation().Retain(6).Delete(5)

	aPrime, bPrime, err := Transform(a, b)
	require.NoError(t, err)

	viaA, err := a.Apply(base)
	require.NoError(t, err)
	viaAB, err := bPrime.Apply(viaA)
	require.NoError(t, err)

	viaB, err := b.Apply(base)
	require.NoError(t, err)
	viaBA, err := aPrime.Apply(viaB)
	require.NoError(t, err)

	assert.Equal(t, viaAB, viaBA)
	assert.Equal(t, "Hello", viaAB)
}

func TestCompose_InsertThenInsert(t *testing.T) {
	a := NewOperation().Retain(5).Insert(" World")
	b := NewOperation().Retain(11).Insert("!")

	composed, err := Compose(a, b)
	require.NoError(t, err)

	out, err := composed.Apply("Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello World!", out)
}

func TestCompose_InsertThenDeleteCancels(t *testing.T) {
	a := NewOperation().Retain(5).Insert(" World")
	b := NewOperation().Retain(5).Delete(6)

	composed, err := Compose(a, b)
	require.NoError(t, err)

	out, err := composed.Apply("Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello", out)
}
