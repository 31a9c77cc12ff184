package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoord_Arithmetic(t *testing.T) {
	a := C(4, 8)
	b := C(-1, 2)

	assert.Equal(t, C(3, 10), a.Add(b))
	assert.Equal(t, C(5, 6), a.Sub(b))
	assert.Equal(t, C(8, 4), a.Swap())
}

func TestCoord_Less(t *testing.T) {
	assert.True(t, C(0, 9).Less(C(1, 0)))
	assert.True(t, C(1, 0).Less(C(1, 2)))
	assert.False(t, C(1, 2).Less(C(1, 2)))
	assert.False(t, C(2, -1).Less(C(1, 5)))
}

func TestUnique_SortsAndDeduplicates(t *testing.T) {
	got := Unique(
		[]Coord{C(4, 0), C(0, 4), C(0, 0)},
		[]Coord{C(0, 4), C(-1, 6)},
	)
	assert.Equal(t, []Coord{C(-1, 6), C(0, 0), C(0, 4), C(4, 0)}, got)
}

func TestPresent_KeepsArgumentOrder(t *testing.T) {
	got := Present(Some(C(4, 4)), None(), Some(C(0, 0)))
	assert.Equal(t, []Coord{C(4, 4), C(0, 0)}, got)

	assert.Empty(t, Present(None(), None()))
	assert.True(t, AllPresent(Some(C(0, 0)), Some(C(1, 1))))
	assert.False(t, AllPresent(Some(C(0, 0)), None()))
}

func TestOpt_Get(t *testing.T) {
	c, ok := Some(C(2, 3)).Get()
	assert.True(t, ok)
	assert.Equal(t, C(2, 3), c)

	_, ok = None().Get()
	assert.False(t, ok)
	assert.Equal(t, None(), Opt{})
}
