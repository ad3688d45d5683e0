package buffer

import (
	"testing"

	"github.com/latticedb/lattice/common"
	"github.com/latticedb/lattice/log"
	"github.com/latticedb/lattice/storage/disk"
	"github.com/latticedb/lattice/types"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, poolSize uint32) (*PoolManager, disk.DiskManager) {
	t.Helper()
	dm := disk.NewMemManager()
	bpm, err := NewPoolManager(common.Config{PoolSize: poolSize, K: 2}, dm, log.NewManager())
	require.NoError(t, err)
	return bpm, dm
}

// checkPartition asserts that every frame index is in exactly one of
// {free list, page table}, and their sizes sum to pool size.
func checkPartition(t *testing.T, bpm *PoolManager) {
	t.Helper()
	seen := mapset.NewSet[FrameID]()
	for _, fid := range bpm.freeList {
		assert.False(t, seen.Contains(fid), "frame %d appears twice", fid)
		seen.Add(fid)
	}
	for _, fid := range bpm.pageTable {
		assert.False(t, seen.Contains(fid), "frame %d appears twice", fid)
		seen.Add(fid)
	}
	assert.Equal(t, bpm.PoolSize(), seen.Cardinality())
	assert.Equal(t, bpm.PoolSize(), len(bpm.freeList)+len(bpm.pageTable))
}

// Fresh frames come off the free list in order before any eviction
// is attempted.
func TestScenarioFreeListFill(t *testing.T) {
	bpm, _ := newTestPool(t, 3)

	p0 := bpm.NewPage()
	require.NotNil(t, p0)
	assert.Equal(t, types.PageID(0), p0.ID())

	p1 := bpm.NewPage()
	require.NotNil(t, p1)
	assert.Equal(t, types.PageID(1), p1.ID())

	p2 := bpm.NewPage()
	require.NotNil(t, p2)
	assert.Equal(t, types.PageID(2), p2.ID())
	checkPartition(t, bpm)

	assert.Nil(t, bpm.NewPage()) // pool full, all pinned

	require.True(t, bpm.UnpinPage(types.PageID(1), false))
	p3 := bpm.NewPage()
	require.NotNil(t, p3)
	assert.Equal(t, types.PageID(3), p3.ID())
	checkPartition(t, bpm)
}

// Evicting a dirty victim writes it back before its frame is reused.
func TestScenarioDirtyEviction(t *testing.T) {
	bpm, dm := newTestPool(t, 1)

	p0 := bpm.NewPage()
	require.NotNil(t, p0)
	p0.Copy(0, []byte("X"))
	require.True(t, bpm.UnpinPage(types.PageID(0), true))

	writesBefore := dm.GetNumWrites()
	p1 := bpm.FetchPage(types.PageID(1)) // forces eviction of page 0
	require.NotNil(t, p1)
	assert.Greater(t, dm.GetNumWrites(), writesBefore, "dirty victim must be written back before reuse")
}

// A pinned frame is never selected as an eviction victim.
func TestScenarioPinBlocksEviction(t *testing.T) {
	bpm, _ := newTestPool(t, 1)

	p0 := bpm.NewPage()
	require.NotNil(t, p0) // still pinned: pin_count == 1

	assert.Nil(t, bpm.NewPage())
	assert.Nil(t, bpm.FetchPage(types.PageID(1)))
}

func TestUnpinPageNotResident(t *testing.T) {
	bpm, _ := newTestPool(t, 2)
	assert.False(t, bpm.UnpinPage(types.PageID(42), false))
}

func TestUnpinPageAtZero(t *testing.T) {
	bpm, _ := newTestPool(t, 2)
	p0 := bpm.NewPage()
	require.NotNil(t, p0)
	require.True(t, bpm.UnpinPage(p0.ID(), false))
	assert.False(t, bpm.UnpinPage(p0.ID(), false))
}

func TestFlushPageAndFlushAll(t *testing.T) {
	bpm, dm := newTestPool(t, 2)

	p0 := bpm.NewPage()
	p0.Copy(0, []byte("hello"))
	p0.SetIsDirty(true)
	p1 := bpm.NewPage()
	p1.Copy(0, []byte("world"))
	p1.SetIsDirty(true)

	assert.False(t, bpm.FlushPage(types.PageID(99)))

	writesBefore := dm.GetNumWrites()
	assert.True(t, bpm.FlushPage(p0.ID()))
	assert.False(t, p0.IsDirty())
	assert.Equal(t, writesBefore+1, dm.GetNumWrites())

	bpm.FlushAllPages()
	assert.False(t, p1.IsDirty())
}

func TestDeletePage(t *testing.T) {
	bpm, _ := newTestPool(t, 2)

	assert.True(t, bpm.DeletePage(types.PageID(7))) // absent: trivially true

	p0 := bpm.NewPage()
	require.NotNil(t, p0)
	assert.False(t, bpm.DeletePage(p0.ID())) // still pinned

	require.True(t, bpm.UnpinPage(p0.ID(), false))
	assert.True(t, bpm.DeletePage(p0.ID()))
	checkPartition(t, bpm)

	assert.Nil(t, bpm.FetchPage(p0.ID()))
}

func TestFetchPageIncrementsPinAndReusesResident(t *testing.T) {
	bpm, _ := newTestPool(t, 2)

	p0 := bpm.NewPage()
	require.NotNil(t, p0)
	require.True(t, bpm.UnpinPage(p0.ID(), false))

	fetched := bpm.FetchPage(p0.ID())
	require.NotNil(t, fetched)
	assert.EqualValues(t, 1, fetched.PinCount())
	assert.Same(t, p0, fetched)
}

func TestFetchPageAfterEvictionSetsPinCountToOne(t *testing.T) {
	bpm, _ := newTestPool(t, 1)

	p0 := bpm.NewPage()
	require.NotNil(t, p0)
	require.True(t, bpm.UnpinPage(p0.ID(), false))

	p1 := bpm.FetchPage(types.PageID(1)) // evicts page 0's frame
	require.NotNil(t, p1)
	assert.EqualValues(t, 1, p1.PinCount())
}

func TestBinaryDataRoundtrip(t *testing.T) {
	bpm, _ := newTestPool(t, 4)

	p0 := bpm.NewPage()
	require.NotNil(t, p0)

	data := make([]byte, 5)
	copy(data, "Hello")
	p0.Copy(0, data)

	require.True(t, bpm.UnpinPage(p0.ID(), true))
	require.True(t, bpm.FlushPage(p0.ID()))

	fetched := bpm.FetchPage(p0.ID())
	require.NotNil(t, fetched)
	var want [Size]byte
	copy(want[:], "Hello")
	assert.Equal(t, want, *fetched.Data())
}

const Size = 4096
