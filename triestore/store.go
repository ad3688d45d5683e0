// this code is grounded on bustub's primer/trie_store.h/.cpp: a
// root_lock_ guarding the root pointer plus a write_lock_ serializing
// writers, with readers snapshotting the root and then working
// lock-free.

// Package triestore wraps trie.Trie in a concurrent facade: readers
// never block writers or each other, and writers are serialized
// against one another.
package triestore

import (
	"fmt"

	"github.com/latticedb/lattice/common"
	"github.com/latticedb/lattice/trie"
	"github.com/sasha-s/go-deadlock"
	"github.com/spaolacci/murmur3"
)

// Guard keeps a snapshot root alive for as long as the caller holds a
// reference to a looked-up value, mirroring bustub's ValueGuard. Since
// Go is garbage collected the "keep root alive" half is automatic; the
// guard exists to hand back the value alongside the root it came from.
type Guard[T any] struct {
	root  trie.Trie
	value T
}

// Value returns the guarded value.
func (g Guard[T]) Value() T {
	return g.value
}

// Store publishes a single current trie.Trie root and lets concurrent
// readers and writers operate on it: readers snapshot the root under
// rootLatch and then work lock-free, writers hold writeLatch end to
// end to serialize against each other.
type Store struct {
	rootLatch  deadlock.Mutex
	writeLatch deadlock.Mutex
	root       trie.Trie
}

// New returns a Store publishing the empty trie.
func New() *Store {
	return &Store{root: trie.New()}
}

func (s *Store) snapshot() trie.Trie {
	s.rootLatch.Lock()
	defer s.rootLatch.Unlock()
	return s.root
}

func (s *Store) publish(root trie.Trie) {
	s.rootLatch.Lock()
	defer s.rootLatch.Unlock()
	s.root = root
}

// Get snapshots the current root under the root latch, releases it,
// then looks up key against the immutable snapshot. Readers never
// block writers and vice versa.
func Get[T any](s *Store, key string) (Guard[T], bool) {
	root := s.snapshot()
	value, ok := trie.GetAs[T](root, key)
	if !ok {
		return Guard[T]{}, false
	}
	return Guard[T]{root: root, value: value}, true
}

// Put installs key → value as the new published root. At most one
// writer runs at a time; readers are never blocked by it.
func Put[T any](s *Store, key string, value T) {
	s.writeLatch.Lock()
	defer s.writeLatch.Unlock()

	root := s.snapshot()
	next := trie.PutAs(root, key, value)
	s.publish(next)
	logFingerprint("Put", key, next)
}

// Remove clears key from the published root, if present. Same
// single-writer protocol as Put.
func (s *Store) Remove(key string) {
	s.writeLatch.Lock()
	defer s.writeLatch.Unlock()

	root := s.snapshot()
	next := trie.Remove(root, key)
	s.publish(next)
	logFingerprint("Remove", key, next)
}

// logFingerprint emits a 128-bit murmur3 hash of the new root's key
// set at debug level, so an operator can tell which root version a
// concurrent reader observed without ever taking a lock to do it.
// Logging only: it has no bearing on Get/Put/Remove semantics.
func logFingerprint(op, key string, root trie.Trie) {
	h := murmur3.New128()
	for _, k := range trie.Keys(root) {
		h.Write([]byte(k))
		h.Write([]byte{0})
	}
	hi, lo := h.Sum128()
	common.DumpState("triestore", fmt.Sprintf("%s(%q) root fingerprint=%016x%016x", op, key, hi, lo))
}
