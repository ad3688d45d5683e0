// this code is grounded on a Go port of bustub's buffer_pool_manager.cpp,
// fixing two bugs found in that port: FetchPage-after-eviction now sets
// pin_count to 1 instead of incrementing the evicted frame's stale
// count, and UnpinPage/FlushPage/FlushAllPages/DeletePage/guard
// factories are fully implemented rather than left as stubs.

package buffer

import (
	"fmt"

	"github.com/latticedb/lattice/common"
	"github.com/latticedb/lattice/errkind"
	"github.com/latticedb/lattice/log"
	"github.com/latticedb/lattice/storage/disk"
	"github.com/latticedb/lattice/storage/page"
	"github.com/latticedb/lattice/types"
	pair "github.com/notEpsilon/go-pair"
	"github.com/sasha-s/go-deadlock"
)

// PoolManager is the single point of residence for disk pages in
// memory: it maps page ids to frames, pins/unpins them on callers'
// behalf, and drives the LRU-K replacer.
type PoolManager struct {
	latch deadlock.Mutex

	diskManager disk.DiskManager
	logManager  *log.Manager
	replacer    *LRUKReplacer

	pages     []*page.Page
	pageTable map[types.PageID]FrameID
	freeList  []FrameID

	nextPageID types.PageID
}

// NewPoolManager constructs a buffer pool of cfg.PoolSize frames, all
// initially free.
func NewPoolManager(cfg common.Config, diskManager disk.DiskManager, logManager *log.Manager) (*PoolManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	freeList := make([]FrameID, cfg.PoolSize)
	for i := range freeList {
		freeList[i] = FrameID(i)
	}

	return &PoolManager{
		diskManager: diskManager,
		logManager:  logManager,
		replacer:    NewLRUKReplacer(cfg.PoolSize, cfg.K),
		pages:       make([]*page.Page, cfg.PoolSize),
		pageTable:   make(map[types.PageID]FrameID, cfg.PoolSize),
		freeList:    freeList,
	}, nil
}

// PoolSize returns the fixed number of frames.
func (b *PoolManager) PoolSize() int {
	return len(b.pages)
}

// trackResident records fid's access and pins it against eviction. Both
// replacer calls take an fid the PoolManager itself just allocated or
// looked up in pageTable, so an error here means the pool's own
// bookkeeping has drifted out of sync with the replacer's, a condition
// no caller can recover from.
func (b *PoolManager) trackResident(fid FrameID) {
	if err := b.replacer.RecordAccess(fid); err != nil {
		panic(fmt.Sprintf("buffer: RecordAccess(%d): %v", fid, err))
	}
	if err := b.replacer.SetEvictable(fid, false); err != nil {
		panic(fmt.Sprintf("buffer: SetEvictable(%d, false): %v", fid, err))
	}
}

// frameForNewResident returns a frame ready to hold a new resident
// page: the free list is tried first, and only then does it fall back
// to evicting a replacer victim. Called with b.latch held.
func (b *PoolManager) frameForNewResident() (FrameID, bool) {
	if p := b.getFrame(); p.Second {
		return p.First, true
	}

	fid, ok := b.replacer.Evict()
	if !ok {
		return 0, false
	}

	victim := b.pages[fid]
	if victim != nil {
		if victim.IsDirty() {
			data := victim.Data()
			b.diskManager.WritePage(victim.ID(), data[:])
		}
		delete(b.pageTable, victim.ID())
	}
	return fid, true
}

// getFrame pops the free list if non-empty. The bool in the returned
// pair reports whether a frame was available from the free list.
func (b *PoolManager) getFrame() *pair.Pair[FrameID, bool] {
	if len(b.freeList) == 0 {
		return pair.New(FrameID(0), false)
	}
	fid := b.freeList[0]
	b.freeList = b.freeList[1:]
	return pair.New(fid, true)
}

// NewPage allocates a fresh page id and returns a pinned frame
// containing zeroed bytes, or nil if no frame is available.
func (b *PoolManager) NewPage() *page.Page {
	b.latch.Lock()
	defer b.latch.Unlock()

	fid, ok := b.frameForNewResident()
	if !ok {
		common.ShPrintf(common.DEBUG_INFO, "buffer: NewPage: %v\n", errkind.NoFrameAvailable)
		return nil
	}

	id := b.diskManager.AllocatePage()
	p := b.pages[fid]
	if p == nil {
		p = page.NewEmpty(id)
		b.pages[fid] = p
	} else {
		p.Reset(id)
	}

	b.pageTable[id] = fid
	b.trackResident(fid)

	return p
}

// FetchPage returns the (possibly freshly loaded) pinned frame for
// pageID, or nil if it is not resident and no frame is available.
func (b *PoolManager) FetchPage(pageID types.PageID) *page.Page {
	b.latch.Lock()
	defer b.latch.Unlock()

	if fid, ok := b.pageTable[pageID]; ok {
		p := b.pages[fid]
		p.IncPinCount()
		b.trackResident(fid)
		return p
	}

	fid, ok := b.frameForNewResident()
	if !ok {
		common.ShPrintf(common.DEBUG_INFO, "buffer: FetchPage(%d): %v\n", pageID, errkind.NoFrameAvailable)
		return nil
	}

	p := b.pages[fid]
	if p == nil {
		p = page.NewEmpty(pageID)
		b.pages[fid] = p
	} else {
		p.Reset(pageID)
	}
	data := p.Data()
	if err := b.diskManager.ReadPage(pageID, data[:]); err != nil {
		common.ShPrintf(common.ERROR, "buffer: FetchPage read error for page %d: %v\n", pageID, err)
	}

	b.pageTable[pageID] = fid
	b.trackResident(fid)

	return p
}

// UnpinPage decrements pageID's pin count, marking it dirty if dirty is
// true or it already was. Returns false if pageID is not resident or
// already at pin count zero.
func (b *PoolManager) UnpinPage(pageID types.PageID, dirty bool) bool {
	b.latch.Lock()
	defer b.latch.Unlock()

	fid, ok := b.pageTable[pageID]
	if !ok {
		common.ShPrintf(common.DEBUG_INFO, "buffer: UnpinPage(%d): %v\n", pageID, errkind.PageNotResident)
		return false
	}
	p := b.pages[fid]
	if p.PinCount() == 0 {
		common.ShPrintf(common.DEBUG_INFO, "buffer: UnpinPage(%d): already at pin count zero\n", pageID)
		return false
	}

	p.DecPinCount()
	if dirty {
		p.SetIsDirty(true)
	}
	if p.PinCount() == 0 {
		b.replacer.SetEvictable(fid, true)
	}
	return true
}

// FlushPage unconditionally writes pageID's frame to disk and clears
// its dirty bit. Returns false if pageID is not resident.
func (b *PoolManager) FlushPage(pageID types.PageID) bool {
	b.latch.Lock()
	defer b.latch.Unlock()
	return b.flushLocked(pageID)
}

func (b *PoolManager) flushLocked(pageID types.PageID) bool {
	fid, ok := b.pageTable[pageID]
	if !ok {
		common.ShPrintf(common.DEBUG_INFO, "buffer: FlushPage(%d): %v\n", pageID, errkind.PageNotResident)
		return false
	}
	p := b.pages[fid]
	data := p.Data()
	b.diskManager.WritePage(pageID, data[:])
	p.SetIsDirty(false)
	return true
}

// FlushAllPages flushes every resident page regardless of its dirty bit.
func (b *PoolManager) FlushAllPages() {
	b.latch.Lock()
	defer b.latch.Unlock()
	for pageID := range b.pageTable {
		b.flushLocked(pageID)
	}
}

// DeletePage removes pageID from the pool, returning true if it is
// either already absent or was successfully removed. Returns false if
// pageID is resident and pinned.
func (b *PoolManager) DeletePage(pageID types.PageID) bool {
	b.latch.Lock()
	defer b.latch.Unlock()

	fid, ok := b.pageTable[pageID]
	if !ok {
		return true
	}
	p := b.pages[fid]
	if p.PinCount() > 0 {
		common.ShPrintf(common.DEBUG_INFO, "buffer: DeletePage(%d): %v\n", pageID, errkind.PagePinnedForDelete)
		return false
	}

	delete(b.pageTable, pageID)
	if err := b.replacer.Remove(fid); err != nil && err != errkind.Unevictable {
		common.ShPrintf(common.ERROR, "buffer: unexpected replacer error on DeletePage: %v\n", err)
	}
	b.diskManager.DeallocatePage(pageID)
	p.SetIsDirty(false)
	b.freeList = append(b.freeList, fid)
	return true
}

// FetchPageBasic returns a BasicPageGuard wrapping FetchPage(pageID).
func (b *PoolManager) FetchPageBasic(pageID types.PageID) BasicPageGuard {
	return newBasicGuard(b, b.FetchPage(pageID))
}

// FetchPageRead returns a ReadPageGuard wrapping FetchPage(pageID),
// additionally holding the page's shared latch.
func (b *PoolManager) FetchPageRead(pageID types.PageID) ReadPageGuard {
	p := b.FetchPage(pageID)
	if p == nil {
		return ReadPageGuard{inner: BasicPageGuard{dropped: true}}
	}
	return newReadGuard(b, p)
}

// FetchPageWrite returns a WritePageGuard wrapping FetchPage(pageID),
// additionally holding the page's exclusive latch.
func (b *PoolManager) FetchPageWrite(pageID types.PageID) WritePageGuard {
	p := b.FetchPage(pageID)
	if p == nil {
		return WritePageGuard{inner: BasicPageGuard{dropped: true}}
	}
	return newWriteGuard(b, p)
}

// NewPageGuarded returns a BasicPageGuard wrapping NewPage().
func (b *PoolManager) NewPageGuarded() BasicPageGuard {
	return newBasicGuard(b, b.NewPage())
}
