package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterAndLookup(t *testing.T) {
	tb := New(23)
	h := func() {}
	tb.Register(3, 2, h)

	e := tb.Lookup(3)
	if assert.NotNil(t, e) {
		assert.EqualValues(t, 3, e.ID)
		assert.EqualValues(t, 2, e.ExpectedLen)
	}
	assert.Nil(t, tb.Lookup(4))
}

func TestRegisterIsIdempotent(t *testing.T) {
	tb := New(23)
	h1 := "first"
	h2 := "second"
	tb.Register(3, 2, h1)
	tb.Register(3, 99, h2)

	e := tb.Lookup(3)
	assert.Equal(t, h1, e.Handler)
	assert.EqualValues(t, 2, e.ExpectedLen, "second registration must not overwrite the first")
}

func TestCollisionChaining(t *testing.T) {
	tb := New(4)
	// ids 1 and 5 collide on a 4-slot table.
	tb.Register(1, -1, "one")
	tb.Register(5, -1, "five")

	assert.Equal(t, "one", tb.Lookup(1).Handler)
	assert.Equal(t, "five", tb.Lookup(5).Handler)
}

func TestDeinitClearsChains(t *testing.T) {
	tb := New(8)
	tb.Register(2, -1, "x")
	tb.Deinit()
	assert.Nil(t, tb.Lookup(2))
}
