// this code is grounded on bustub's storage/page/page_guard.h, giving
// FetchPageBasic/FetchPageRead/FetchPageWrite/NewPageGuarded real RAII-
// style behavior instead of the stub guards some ports leave in place.

package buffer

import "github.com/latticedb/lattice/storage/page"

// BasicPageGuard holds a pin on a page and releases it exactly once,
// on Drop. A guard that is never dropped keeps its pin; garbage
// collection of the guard does not release it.
type BasicPageGuard struct {
	bpm     *PoolManager
	page    *page.Page
	dropped bool
}

func newBasicGuard(bpm *PoolManager, p *page.Page) BasicPageGuard {
	return BasicPageGuard{bpm: bpm, page: p}
}

// Page returns the guarded page, or nil if the guard is empty (e.g. the
// pool had no frame available).
func (g *BasicPageGuard) Page() *page.Page {
	return g.page
}

// Drop releases the pin. Safe to call multiple times; only the first
// call has an effect.
func (g *BasicPageGuard) Drop() {
	if g.dropped || g.page == nil {
		return
	}
	g.dropped = true
	g.bpm.UnpinPage(g.page.ID(), false)
}

// ReadPageGuard holds a pin plus the page's shared (reader) latch.
type ReadPageGuard struct {
	inner BasicPageGuard
}

func newReadGuard(bpm *PoolManager, p *page.Page) ReadPageGuard {
	p.RLatch()
	return ReadPageGuard{inner: newBasicGuard(bpm, p)}
}

func (g *ReadPageGuard) Page() *page.Page {
	return g.inner.page
}

// Drop releases the reader latch and the pin.
func (g *ReadPageGuard) Drop() {
	if g.inner.dropped || g.inner.page == nil {
		return
	}
	g.inner.page.RUnlatch()
	g.inner.Drop()
}

// Downgrade drops the reader latch but keeps the pin, converting this
// into a BasicPageGuard.
func (g *ReadPageGuard) Downgrade() BasicPageGuard {
	if g.inner.page != nil && !g.inner.dropped {
		g.inner.page.RUnlatch()
	}
	basic := g.inner
	g.inner = BasicPageGuard{dropped: true}
	return basic
}

// WritePageGuard holds a pin plus the page's exclusive (writer) latch.
// Dropping it marks the page dirty, since a writer guard is only ever
// handed out so a caller can mutate the buffer.
type WritePageGuard struct {
	inner BasicPageGuard
}

func newWriteGuard(bpm *PoolManager, p *page.Page) WritePageGuard {
	p.WLatch()
	return WritePageGuard{inner: newBasicGuard(bpm, p)}
}

func (g *WritePageGuard) Page() *page.Page {
	return g.inner.page
}

// Drop marks the page dirty, releases the writer latch, and unpins it.
func (g *WritePageGuard) Drop() {
	if g.inner.dropped || g.inner.page == nil {
		return
	}
	g.inner.page.SetIsDirty(true)
	g.inner.page.WUnlatch()
	g.inner.Drop()
}
