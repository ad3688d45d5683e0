package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// A later snapshot's new keys are invisible through an earlier
// snapshot, and the earlier snapshot's own keys are unaffected.
func TestScenarioPersistence(t *testing.T) {
	t0 := New()
	t1 := PutAs(t0, "abc", 1)
	t2 := PutAs(t1, "abd", 2)

	_, ok := GetAs[int](t1, "abd")
	assert.False(t, ok)

	v, ok := GetAs[int](t2, "abc")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestGetMissing(t *testing.T) {
	tr := New()
	_, ok := GetAs[int](tr, "nope")
	assert.False(t, ok)
}

func TestGetWrongType(t *testing.T) {
	tr := PutAs(New(), "k", "a string")
	_, ok := GetAs[int](tr, "k")
	assert.False(t, ok)
}

func TestPutOverwrite(t *testing.T) {
	tr := PutAs(New(), "k", 1)
	tr = PutAs(tr, "k", 2)
	v, ok := GetAs[int](tr, "k")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestPutPreservesDeeperKeys(t *testing.T) {
	tr := PutAs(New(), "abc", 1)
	tr = PutAs(tr, "ab", 2)

	v, ok := GetAs[int](tr, "abc")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = GetAs[int](tr, "ab")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestPutEmptyKeySetsRoot(t *testing.T) {
	tr := PutAs(New(), "", 42)
	v, ok := GetAs[int](tr, "")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestPutEmptyKeyPreservesChildren(t *testing.T) {
	tr := PutAs(New(), "a", 1)
	tr = PutAs(tr, "", 99)

	v, ok := GetAs[int](tr, "")
	assert.True(t, ok)
	assert.Equal(t, 99, v)

	v, ok = GetAs[int](tr, "a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestRemoveClearsValueAndPreservesChildren(t *testing.T) {
	tr := PutAs(New(), "ab", 1)
	tr = PutAs(tr, "abc", 2)

	tr = Remove(tr, "ab")
	_, ok := GetAs[int](tr, "ab")
	assert.False(t, ok)

	v, ok := GetAs[int](tr, "abc")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestRemoveAbsentKeyIsNoop(t *testing.T) {
	tr := PutAs(New(), "abc", 1)
	tr2 := Remove(tr, "xyz")

	v, ok := GetAs[int](tr2, "abc")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestRemoveOnPlainTerminalIsNoop(t *testing.T) {
	tr := PutAs(New(), "abc", 1)
	tr2 := Remove(tr, "ab") // "ab" is a plain routing node, not value-bearing

	v, ok := GetAs[int](tr2, "abc")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

// Put(k,v).Remove(k).Get(k) returns not found.
func TestPutThenRemoveThenGet(t *testing.T) {
	tr := PutAs(New(), "k", 1)
	tr = Remove(tr, "k")
	_, ok := GetAs[int](tr, "k")
	assert.False(t, ok)
}

func TestRemovePrunesEmptyRootToEmptyTrie(t *testing.T) {
	tr := PutAs(New(), "a", 1)
	tr = Remove(tr, "a")

	assert.Nil(t, tr.root)
	_, ok := GetAs[int](tr, "a")
	assert.False(t, ok)
}

func TestRemovePrunesOnlyDeadBranch(t *testing.T) {
	tr := PutAs(New(), "ab", 1)
	tr = PutAs(tr, "ac", 2)
	tr = Remove(tr, "ab")

	_, ok := GetAs[int](tr, "ab")
	assert.False(t, ok)

	v, ok := GetAs[int](tr, "ac")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	// "a" survives with its remaining child even though it never held a value.
	assert.NotNil(t, tr.root)
}

func TestPriorSnapshotUnaffectedByLaterMutation(t *testing.T) {
	t0 := PutAs(New(), "k", 1)
	t1 := PutAs(t0, "k", 2)
	t2 := Remove(t1, "k")

	v, ok := GetAs[int](t0, "k")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = GetAs[int](t2, "k")
	assert.False(t, ok)
}
