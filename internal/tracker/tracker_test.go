package tracker

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/parsurf/internal/coord"
	"github.com/roach88/parsurf/internal/key"
)

var (
	q0 = coord.C(0, 0)
	q1 = coord.C(1, 0)
	q2 = coord.C(2, 0)
)

// =============================================================================
// Record / Bind / Resolve
// =============================================================================

func TestTracker_Record_AdvancesTotal(t *testing.T) {
	tr := New()

	ev := tr.Record(q0, q1, q2)
	assert.Equal(t, 0, ev.Pos)
	assert.Equal(t, 3, ev.Outcomes)
	assert.Equal(t, 3, tr.Total())

	ev = tr.RecordProduct(q0, q1)
	assert.Equal(t, 3, ev.Pos)
	assert.Equal(t, 1, ev.Outcomes)
	assert.Equal(t, 4, tr.Total())
}

func TestTracker_Resolve_OffsetsTrackLaterMeasurements(t *testing.T) {
	for extra := 0; extra < 20; extra++ {
		t.Run(fmt.Sprintf("extra=%d", extra), func(t *testing.T) {
			tr := New()
			tr.Record(q0, q1)
			ev := tr.Record(q2)
			k := key.L(key.At(q2), 3)
			require.NoError(t, tr.Bind(k, ev))

			for i := 0; i < extra; i++ {
				tr.Record(q0)
			}

			got, err := tr.Resolve([]key.Layered{k})
			require.NoError(t, err)
			assert.Equal(t, []int{2 - tr.Total()}, got)
			assert.Equal(t, []int{-1 - extra}, got)
		})
	}
}

func TestTracker_Bind_SelectsOutcomes(t *testing.T) {
	tr := New()
	ev := tr.Record(q0, q1, q2)

	require.NoError(t, tr.Bind(key.L(key.At(q0), 0), ev, 0))
	require.NoError(t, tr.Bind(key.L(key.At(q2), 0), ev, 2))
	require.NoError(t, tr.Bind(key.L(key.Label("all"), 0), ev))

	got, err := tr.Resolve([]key.Layered{key.L(key.At(q2), 0), key.L(key.At(q0), 0)})
	require.NoError(t, err)
	assert.Equal(t, []int{-1, -3}, got)

	got, err = tr.Resolve([]key.Layered{key.L(key.Label("all"), 0)})
	require.NoError(t, err)
	assert.Equal(t, []int{-3, -2, -1}, got)

	err = tr.Bind(key.L(key.At(q1), 0), ev, 3)
	require.Error(t, err)
	assert.False(t, tr.Has(key.L(key.At(q1), 0)))
}

func TestTracker_Resolve_LayersAreDistinct(t *testing.T) {
	tr := New()
	k0 := key.L(key.At(q0), 0)
	k1 := key.L(key.At(q0), 1)

	require.NoError(t, tr.Bind(k0, tr.Record(q0)))
	require.NoError(t, tr.Bind(k1, tr.Record(q0)))

	got, err := tr.Resolve([]key.Layered{k0, k1})
	require.NoError(t, err)
	assert.Equal(t, []int{-2, -1}, got)
}

func TestTracker_Resolve_Unknown(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Bind(key.L(key.At(q0), 0), tr.Record(q0)))

	_, err := tr.Resolve([]key.Layered{key.L(key.At(q0), 0), key.L(key.At(q0), 1)})
	require.Error(t, err)
	assert.True(t, IsUnknownKey(err))
	assert.Contains(t, err.Error(), "(0, 0)@1")
}

// =============================================================================
// Groups
// =============================================================================

func TestTracker_DefineGroup_ConcatenatesInDeclarationOrder(t *testing.T) {
	tr := New()
	a := key.L(key.Label("a"), 0)
	b := key.L(key.Label("b"), 0)
	c := key.L(key.Label("c"), 0)
	require.NoError(t, tr.Bind(a, tr.RecordProduct(q0, q1)))
	require.NoError(t, tr.Bind(b, tr.RecordProduct(q1, q2)))
	require.NoError(t, tr.Bind(c, tr.RecordProduct(q0, q2)))

	g := key.L(key.Label("g"), 0)
	require.NoError(t, tr.DefineGroup(g, []key.Layered{c, a}))

	got, err := tr.Resolve([]key.Layered{g})
	require.NoError(t, err)
	assert.Equal(t, []int{-1, -3}, got)
}

func TestTracker_DefineGroup_Nested(t *testing.T) {
	tr := New()
	a := key.L(key.Label("a"), 0)
	b := key.L(key.Label("b"), 0)
	require.NoError(t, tr.Bind(a, tr.Record(q0)))
	require.NoError(t, tr.Bind(b, tr.Record(q1)))

	inner := key.L(key.Label("inner"), 0)
	outer := key.L(key.Label("outer"), 0)
	require.NoError(t, tr.DefineGroup(inner, []key.Layered{a, b}))
	require.NoError(t, tr.DefineGroup(outer, []key.Layered{inner, a}))

	tr.Record(q2)

	got, err := tr.Resolve([]key.Layered{outer})
	require.NoError(t, err)
	assert.Equal(t, []int{-3, -2, -3}, got, "duplicates are preserved")
}

func TestTracker_DefineGroup_UnknownConstituent(t *testing.T) {
	tr := New()
	a := key.L(key.Label("a"), 0)
	require.NoError(t, tr.Bind(a, tr.Record(q0)))

	g := key.L(key.Label("g"), 0)
	err := tr.DefineGroup(g, []key.Layered{a, key.L(key.Label("missing"), 0)})
	require.Error(t, err)
	assert.True(t, IsUnknownKey(err))
	assert.False(t, tr.Has(g))
}

// =============================================================================
// Duplicates
// =============================================================================

func TestTracker_Bind_DuplicateLeavesStateUnchanged(t *testing.T) {
	tr := New()
	k := key.L(key.At(q0), 0)
	require.NoError(t, tr.Bind(k, tr.Record(q0)))

	ev := tr.Record(q0)
	err := tr.Bind(k, ev)
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))

	// The original binding is intact.
	got, err := tr.Resolve([]key.Layered{k})
	require.NoError(t, err)
	assert.Equal(t, []int{-2}, got)

	// And an unrelated operation still succeeds.
	other := key.L(key.At(q0), 1)
	require.NoError(t, tr.Bind(other, ev))
	got, err = tr.Resolve([]key.Layered{other})
	require.NoError(t, err)
	assert.Equal(t, []int{-1}, got)
}

func TestTracker_DefineGroup_Duplicate(t *testing.T) {
	tr := New()
	a := key.L(key.Label("a"), 0)
	require.NoError(t, tr.Bind(a, tr.Record(q0)))

	err := tr.DefineGroup(a, []key.Layered{a})
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))

	g := key.L(key.Label("g"), 0)
	require.NoError(t, tr.DefineGroup(g, []key.Layered{a}))
	err = tr.DefineGroup(g, []key.Layered{a})
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
}
