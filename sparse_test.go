package slotmap

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/slotmap/testutil"
)

func TestSparseStorage_Scenario(t *testing.T) {
	g := NewGenerator()
	ss := NewSparseStorage[string]()

	k1 := g.Acquire()
	k2 := g.Acquire()
	ss.Assign(k1, "a")
	ss.Assign(k2, "b")
	ss.Erase(k1)

	assert.False(t, ss.Has(k1))
	require.True(t, ss.Has(k2))
	assert.Equal(t, "b", *ss.At(k2))
	require.NoError(t, ss.Validate())
}

func TestSparseStorage_Has(t *testing.T) {
	g := NewGenerator()
	ss := NewSparseStorage[int]()

	slots := make([]Slot, 10)
	for i := range slots {
		slots[i] = g.Acquire()
		assert.False(t, ss.Has(slots[i]))
	}
	for i, s := range slots {
		if i%2 == 0 {
			ss.Assign(s, i)
		}
	}
	for i, s := range slots {
		assert.Equal(t, i%2 == 0, ss.Has(s), "slot %d", i)
	}

	assert.False(t, ss.Has(Slot{}))
	assert.False(t, ss.Has(Slot{Index: 1 << 20, Generation: 1}))
}

func TestSparseStorage_Access(t *testing.T) {
	g := NewGenerator()
	ss := NewSparseStorage[int](WithPageSize(8))

	const n = 100
	slots := make([]Slot, n)
	for i := range slots {
		slots[i] = g.Acquire()
		ss.Assign(slots[i], i*i)
	}
	for i, s := range slots {
		assert.Equal(t, i*i, *ss.At(s))
	}

	*ss.At(slots[3]) = -1
	v, ok := ss.Get(slots[3])
	require.True(t, ok)
	assert.Equal(t, -1, *v)
	assert.Equal(t, n, ss.Len())
}

func TestSparseStorage_EraseFixesMovedOwner(t *testing.T) {
	g := NewGenerator()
	ss := NewSparseStorage[string]()

	keys := []Slot{g.Acquire(), g.Acquire(), g.Acquire(), g.Acquire()}
	for i, v := range []string{"a", "b", "c", "d"} {
		ss.Assign(keys[i], v)
	}

	// "d" moves into the hole left by "a".
	ss.Erase(keys[0])
	assert.Equal(t, "d", *ss.At(keys[3]))
	r, ok := ss.redirects.Lookup(keys[3].Index)
	require.True(t, ok)
	assert.Equal(t, uint32(0), r.index)

	// Erasing "d" afterwards must free dense 0, not its original position.
	ss.Erase(keys[3])
	assert.Equal(t, "b", *ss.At(keys[1]))
	assert.Equal(t, "c", *ss.At(keys[2]))
	assert.Equal(t, 2, ss.Len())
	require.NoError(t, ss.Validate())
}

func TestSparseStorage_LazyRedirects(t *testing.T) {
	ss := NewSparseStorage[int]()
	assert.Zero(t, ss.Stats().IndexPages)

	high := Slot{Index: 100 * SlotsPerPage, Generation: 1}
	ss.Assign(high, 42)

	st := ss.Stats()
	assert.Equal(t, 1, st.IndexPages, "only the touched page is allocated")
	assert.Equal(t, 1, st.Len)
	assert.Equal(t, 42, *ss.At(high))

	low := Slot{Index: 3, Generation: 1}
	assert.False(t, ss.Has(low))
	assert.Equal(t, 1, ss.Stats().IndexPages, "lookups do not allocate")
	require.NoError(t, ss.Validate())
}

func TestSparseStorage_Violations(t *testing.T) {
	g := NewGenerator()
	ss := NewSparseStorage[int](WithName("health"))
	k := g.Acquire()
	ss.Assign(k, 1)

	cv := requireViolation(t, ErrAlreadyAssigned, func() { ss.Assign(k, 2) })
	assert.Equal(t, "health", cv.Container)
	assert.Equal(t, "assign", cv.Op)
	assert.Equal(t, 1, *ss.At(k), "failed assign leaves the value alone")

	other := g.Acquire()
	requireViolation(t, ErrNotAssigned, func() { ss.At(other) })
	requireViolation(t, ErrNotAssigned, func() { ss.Erase(other) })
	requireViolation(t, ErrInvalidSlot, func() { ss.Assign(Slot{}, 3) })

	ss.Erase(k)
	requireViolation(t, ErrNotAssigned, func() { ss.Erase(k) })
	assert.Equal(t, 0, ss.Len())
}

func TestSparseStorage_StaleGeneration(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	g := NewGenerator()
	ss := NewSparseStorage[string](WithLogger(logger))

	old := g.Acquire()
	ss.Assign(old, "old")
	g.Release(old) // released without detaching the value
	fresh := g.Acquire()
	require.Equal(t, old.Index, fresh.Index)

	ss.Assign(fresh, "new")
	assert.False(t, ss.Has(old))
	assert.Equal(t, "new", *ss.At(fresh))
	assert.Equal(t, 1, ss.Len())
	assert.Contains(t, buf.String(), "stale value evicted")

	// Going back to the older generation is a bug.
	requireViolation(t, ErrInvalidSlot, func() { ss.Assign(old, "again") })
	require.NoError(t, ss.Validate())
}

func TestSparseStorage_SharedGenerator(t *testing.T) {
	g := NewGenerator()
	names := NewSparseStorage[string]()
	ages := NewSparseStorage[int]()

	alice := g.Acquire()
	bob := g.Acquire()
	names.Assign(alice, "alice")
	names.Assign(bob, "bob")
	ages.Assign(bob, 42)

	assert.True(t, names.Has(alice))
	assert.False(t, ages.Has(alice))
	assert.Equal(t, 42, *ages.At(bob))

	ages.Erase(bob)
	assert.Equal(t, "bob", *names.At(bob))
}

func TestSparseStorage_Iteration(t *testing.T) {
	g := NewGenerator()
	ss := NewSparseStorage[string]()
	want := map[Slot]string{}
	for _, v := range []string{"x", "y", "z"} {
		k := g.Acquire()
		ss.Assign(k, v)
		want[k] = v
	}

	got := map[Slot]string{}
	for k, v := range ss.All() {
		got[k] = *v
	}
	assert.Equal(t, want, got)

	var keys []Slot
	for k := range ss.Keys() {
		keys = append(keys, k)
	}
	assert.Len(t, keys, 3)

	for v := range ss.Values() {
		*v = strings.ToUpper(*v)
	}
	for k, v := range want {
		assert.Equal(t, strings.ToUpper(v), *ss.At(k))
	}
}

func TestSparseStorage_AssignFunc(t *testing.T) {
	g := NewGenerator()
	ss := NewSparseStorage[[]int]()
	k := g.Acquire()

	ss.AssignFunc(k, func(v *[]int) { *v = append(*v, 1, 2) })
	assert.Equal(t, []int{1, 2}, *ss.At(k))

	k2 := g.Acquire()
	ss.AssignFunc(k2, nil)
	assert.Nil(t, *ss.At(k2))
}

func TestSparseStorage_ChurnAgainstShadow(t *testing.T) {
	rng := testutil.NewRNG(99)
	g := NewGenerator()
	ss := NewSparseStorage[int](WithPageSize(16))
	shadow := testutil.NewShadow[Slot, int]()

	for i, op := range rng.Churn(4000, 0.45) {
		if op.Kind == testutil.OpErase && shadow.Len() > 0 {
			k := shadow.Delete(op.Pick)
			ss.Erase(k)
			g.Release(k)
			continue
		}
		k := g.Acquire()
		ss.Assign(k, i)
		require.True(t, shadow.Put(k, i))
	}

	require.Equal(t, shadow.Len(), ss.Len())
	require.Equal(t, shadow.Len(), g.Len())
	for k, v := range shadow.All() {
		require.Equal(t, v, *ss.At(k))
	}
	for _, k := range shadow.Dead() {
		require.False(t, ss.Has(k))
	}
	require.NoError(t, ss.Validate())
	require.NoError(t, g.Validate())
}

func TestSparseStorage_ValidateDetectsCorruption(t *testing.T) {
	g := NewGenerator()
	ss := NewSparseStorage[int]()
	a := g.Acquire()
	b := g.Acquire()
	ss.Assign(a, 1)
	ss.Assign(b, 2)

	r, _ := ss.redirects.Lookup(a.Index)
	r.index = 1
	require.ErrorIs(t, ss.Validate(), ErrCorrupted)
}
