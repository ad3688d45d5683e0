package trie

import (
	"sort"

	"github.com/golang-collections/collections/stack"
)

// Trie is an immutable snapshot of a persistent prefix tree. The zero
// value is the empty trie. Every operation is pure: it never mutates
// the receiver and is safe to call from multiple goroutines against
// the same Trie without synchronization.
type Trie struct {
	root *Node
}

// New returns the empty trie.
func New() Trie {
	return Trie{}
}

// GetAs looks up key and reports whether it holds a value assignable
// to T. A key that is absent, terminates at a plain node, or holds a
// value of a different type all report false, matching bustub's
// dynamic_cast-based miss handling in trie.cpp.
func GetAs[T any](t Trie, key string) (T, bool) {
	cur := t.root
	for i := 0; i < len(key); i++ {
		if cur == nil {
			var zero T
			return zero, false
		}
		cur = cur.FindNext(key[i])
	}
	if cur == nil || !cur.hasValue {
		var zero T
		return zero, false
	}
	v, ok := cur.value.(T)
	if !ok {
		var zero T
		return zero, false
	}
	return v, true
}

// PutAs returns a new Trie with key mapped to value, cloning every
// node on the path from root to the terminal position and sharing
// every other subtree by reference with t.
func PutAs[T any](t Trie, key string, value T) Trie {
	l := len(key)
	newNodes := make([]*Node, l+1)

	cur := t.root
	for i := 0; i < l; i++ {
		if cur != nil {
			newNodes[i] = cur.Clone()
			cur = cur.FindNext(key[i])
		} else {
			newNodes[i] = newPlainNode()
		}
	}

	if cur != nil {
		newNodes[l] = newValueNode(cur.children, value)
	} else {
		newNodes[l] = newValueNode(nil, value)
	}

	for i := 0; i < l; i++ {
		newNodes[i].children[key[i]] = newNodes[i+1]
	}

	return Trie{root: newNodes[0]}
}

// Remove returns a new Trie with key's value cleared, if present. If
// key is absent or its terminal node holds no value, t is returned
// unchanged (by value, not by pointer, since Trie is immutable either
// way). Nodes that become empty as a result are pruned bottom-up so
// the tree does not grow without bound under repeated Put/Remove of
// the same keys.
func Remove(t Trie, key string) Trie {
	l := len(key)
	newNodes := make([]*Node, l+1)

	cur := t.root
	for i := 0; i < l; i++ {
		if cur == nil {
			return t
		}
		newNodes[i] = cur.Clone()
		cur = cur.FindNext(key[i])
	}

	if cur == nil || !cur.hasValue {
		return t
	}

	newNodes[l] = &Node{children: cloneChildren(cur.children)}

	for i := 0; i < l; i++ {
		newNodes[i].children[key[i]] = newNodes[i+1]
	}

	return Trie{root: pruneChain(newNodes, key)}
}

// Keys returns every value-bearing key in t, sorted lexicographically.
// It exists for diagnostics (fingerprinting a root's key set) rather
// than as a hot-path operation; the source has no equivalent, since
// bustub's Trie is never enumerated wholesale.
func Keys(t Trie) []string {
	var out []string
	var walk func(n *Node, prefix []byte)
	walk = func(n *Node, prefix []byte) {
		if n == nil {
			return
		}
		if n.hasValue {
			out = append(out, string(prefix))
		}
		for b, child := range n.children {
			walk(child, append(prefix, b))
		}
	}
	walk(t.root, nil)
	sort.Strings(out)
	return out
}

type pruneFrame struct {
	parent *Node
	key    byte
}

// pruneChain walks the freshly-cloned root-to-leaf chain backwards,
// dropping the edge into any trailing node that ended up with no
// children and no value, and stops at the first node that still has
// either. This keeps Remove from leaving dead nodes behind under
// repeated Put/Remove of the same keys.
func pruneChain(nodes []*Node, key string) *Node {
	l := len(key)
	s := stack.New()
	for i := 0; i < l; i++ {
		s.Push(pruneFrame{parent: nodes[i], key: key[i]})
	}

	child := nodes[l]
	for s.Len() > 0 {
		if len(child.children) > 0 || child.hasValue {
			return nodes[0]
		}
		f := s.Pop().(pruneFrame)
		delete(f.parent.children, f.key)
		child = f.parent
	}

	if len(child.children) == 0 && !child.hasValue {
		return nil
	}
	return child
}
