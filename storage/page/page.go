// this code is adapted from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

// Package page defines the buffer pool's fixed-size frame/page type.
package page

import (
	"sync/atomic"

	"github.com/latticedb/lattice/common"
	"github.com/latticedb/lattice/types"
)

// Size is the fixed width, in bytes, of every page's data buffer.
const Size = common.PageSize

// Page is a single frame in the buffer pool: a fixed-size byte buffer
// plus the bookkeeping the buffer pool manager and replacer need
// (resident page id, pin count, dirty bit, per-frame latch).
type Page struct {
	id       types.PageID
	pinCount int32
	isDirty  bool
	data     *[Size]byte
	rwlatch  common.ReaderWriterLatch
}

// New wraps an existing byte buffer as a pinned, clean page.
func New(id types.PageID, data *[Size]byte) *Page {
	return &Page{
		id:       id,
		pinCount: 1,
		data:     data,
		rwlatch:  common.NewRWLatch(),
	}
}

// NewEmpty allocates a pinned, clean, zero-filled page.
func NewEmpty(id types.PageID) *Page {
	return New(id, &[Size]byte{})
}

// Reset reinitializes the frame in place for a new resident page id,
// zeroing its buffer the way the reference ResetMemory call does.
func (p *Page) Reset(id types.PageID) {
	p.id = id
	atomic.StoreInt32(&p.pinCount, 1)
	p.isDirty = false
	for i := range p.data {
		p.data[i] = 0
	}
}

// IncPinCount increments the pin count.
func (p *Page) IncPinCount() {
	atomic.AddInt32(&p.pinCount, 1)
}

// DecPinCount decrements the pin count, floored at zero.
func (p *Page) DecPinCount() {
	for {
		cur := atomic.LoadInt32(&p.pinCount)
		if cur <= 0 {
			return
		}
		if atomic.CompareAndSwapInt32(&p.pinCount, cur, cur-1) {
			return
		}
	}
}

// PinCount returns the current pin count.
func (p *Page) PinCount() int32 {
	return atomic.LoadInt32(&p.pinCount)
}

// ID returns the resident page id.
func (p *Page) ID() types.PageID {
	return p.id
}

// Data returns the page's underlying byte buffer.
func (p *Page) Data() *[Size]byte {
	return p.data
}

// Copy writes data into the page's buffer at offset.
func (p *Page) Copy(offset int, data []byte) {
	copy(p.data[offset:], data)
}

func (p *Page) SetIsDirty(isDirty bool) {
	p.isDirty = isDirty
}

func (p *Page) IsDirty() bool {
	return p.isDirty
}

// WLatch/WUnlatch/RLatch/RUnlatch guard the page's data buffer for the
// Write/Read page guard variants; the pin count itself is managed
// separately by the buffer pool manager's own latch.
func (p *Page) WLatch()   { p.rwlatch.WLock() }
func (p *Page) WUnlatch() { p.rwlatch.WUnlock() }
func (p *Page) RLatch()   { p.rwlatch.RLock() }
func (p *Page) RUnlatch() { p.rwlatch.RUnlock() }
