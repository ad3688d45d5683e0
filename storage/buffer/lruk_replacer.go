// this code is grounded on bustub's lru_k_replacer.cpp, with node
// lookup done through an intrusive doubly-linked list keyed by a map so
// a node can be found and spliced between queues in O(1) without
// iterator invalidation.

// Package buffer holds the LRU-K replacer and buffer pool manager.
package buffer

import (
	"fmt"

	"github.com/latticedb/lattice/common"
	"github.com/latticedb/lattice/errkind"
	"github.com/latticedb/lattice/types"
	"github.com/sasha-s/go-deadlock"
)

// FrameID identifies a slot tracked by the replacer.
type FrameID = types.FrameID

// lruNode is one entry in an intrusive doubly-linked list. next/prev are
// nil at the ends of whichever list currently owns the node.
type lruNode struct {
	fid         FrameID
	k           uint32 // history_count, saturated at replacer.k
	lastTS      uint64
	isEvictable bool
	isOld       bool
	next, prev  *lruNode
}

// lruList is a small intrusive doubly-linked list with O(1) append,
// remove, and pop-front, used for young_list/old_list/pin_list.
type lruList struct {
	head, tail *lruNode
	size       int
}

func (l *lruList) pushBack(n *lruNode) {
	n.prev, n.next = l.tail, nil
	if l.tail != nil {
		l.tail.next = n
	} else {
		l.head = n
	}
	l.tail = n
	l.size++
}

func (l *lruList) remove(n *lruNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.next, n.prev = nil, nil
	l.size--
}

func (l *lruList) popFront() *lruNode {
	n := l.head
	if n == nil {
		return nil
	}
	l.remove(n)
	return n
}

// LRUKReplacer selects eviction victims using backward-K-distance
// semantics. It is safe to use standalone.
type LRUKReplacer struct {
	latch deadlock.Mutex

	replacerSize uint32
	k            uint32
	clock        uint64 // monotonic logical tick, advances on every RecordAccess

	young, old, pin lruList
	nodeStore       map[FrameID]*lruNode
}

// NewLRUKReplacer constructs a replacer tracking up to numFrames frame
// ids, graduating a frame to the old queue after k accesses.
func NewLRUKReplacer(numFrames uint32, k uint32) *LRUKReplacer {
	return &LRUKReplacer{
		replacerSize: numFrames,
		k:            k,
		nodeStore:    make(map[FrameID]*lruNode, numFrames),
	}
}

func (r *LRUKReplacer) checkFrame(fid FrameID) error {
	if uint32(fid) >= r.replacerSize {
		return errkind.InvalidFrame
	}
	return nil
}

// RecordAccess records one access of fid, creating a tracking node on
// first sight.
func (r *LRUKReplacer) RecordAccess(fid FrameID) error {
	r.latch.Lock()
	defer r.latch.Unlock()

	if err := r.checkFrame(fid); err != nil {
		return err
	}

	r.clock++
	now := r.clock

	n, ok := r.nodeStore[fid]
	if !ok {
		// New frames start non-evictable, so they belong on pin_list
		// until SetEvictable(true).
		n = &lruNode{fid: fid, k: 1, lastTS: now}
		r.nodeStore[fid] = n
		r.pin.pushBack(n)
		return nil
	}

	if n.k < r.k {
		n.k++
	}
	n.lastTS = now

	if n.k < r.k {
		return nil
	}

	if n.isOld {
		// Already graduated: a fresh access moves it to the most-recently-
		// used end of old_list so Evict's head stays the true LRU victim.
		if n.isEvictable {
			r.old.remove(n)
			r.old.pushBack(n)
		}
		return nil
	}

	// Graduating to "old" for the first time this access.
	n.isOld = true
	if !n.isEvictable {
		// Stays in pin_list; only the is_old flag changes.
		return nil
	}
	r.young.remove(n)
	r.old.pushBack(n)
	return nil
}

// SetEvictable toggles whether fid may be chosen by Evict.
func (r *LRUKReplacer) SetEvictable(fid FrameID, evictable bool) error {
	r.latch.Lock()
	defer r.latch.Unlock()

	if err := r.checkFrame(fid); err != nil {
		return err
	}
	n, ok := r.nodeStore[fid]
	if !ok {
		return errkind.UnknownFrame
	}

	if n.isEvictable == evictable {
		return nil // idempotent
	}

	if evictable {
		r.pin.remove(n)
		if n.isOld {
			r.old.pushBack(n)
		} else {
			r.young.pushBack(n)
		}
	} else {
		if n.isOld {
			r.old.remove(n)
		} else {
			r.young.remove(n)
		}
		r.pin.pushBack(n)
	}
	n.isEvictable = evictable
	return nil
}

// Remove drops an evictable frame from tracking entirely. It is a no-op
// if fid is unknown, and fails with errkind.Unevictable if fid is
// currently pinned.
func (r *LRUKReplacer) Remove(fid FrameID) error {
	r.latch.Lock()
	defer r.latch.Unlock()

	if err := r.checkFrame(fid); err != nil {
		return err
	}
	n, ok := r.nodeStore[fid]
	if !ok {
		return nil
	}
	if !n.isEvictable {
		return errkind.Unevictable
	}

	if n.isOld {
		r.old.remove(n)
	} else {
		r.young.remove(n)
	}
	delete(r.nodeStore, fid)
	return nil
}

// Evict chooses a victim by precedence: the head of young_list, else
// the head of old_list, else "no victim".
func (r *LRUKReplacer) Evict() (FrameID, bool) {
	r.latch.Lock()
	defer r.latch.Unlock()

	n := r.young.popFront()
	fromOld := false
	if n == nil {
		n = r.old.popFront()
		fromOld = true
	}
	if n == nil {
		return 0, false
	}
	delete(r.nodeStore, n.fid)
	common.DumpState("replacer", fmt.Sprintf("evict frame=%d fromOld=%v k=%d", n.fid, fromOld, n.k))
	return n.fid, true
}

// Size returns the number of currently evictable frames.
func (r *LRUKReplacer) Size() int {
	r.latch.Lock()
	defer r.latch.Unlock()
	return r.young.size + r.old.size
}
