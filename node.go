package rstar

// node is the tree's single node representation: a tagged sum of "leaf"
// (wrapping exactly one stored item) and "parent" (holding child nodes,
// each of which is itself either a leaf or a parent), discriminated by the
// leaf field rather than represented as two implementations of a shared
// interface. A struct-with-discriminant is the idiomatic Go shape for a
// closed two-variant sum type, avoiding virtual dispatch on every descent.
//
// The root of a tree is always a parent node, even an empty one: a bare leaf
// can never be the root, so descent code never has to special-case "root is
// actually a single item".
type node[T Scalar, O RTreeObject[T]] struct {
	leaf     bool
	envelope Envelope[T]

	item     O             // populated iff leaf
	children []*node[T, O] // populated iff !leaf
}

func newLeaf[T Scalar, O RTreeObject[T]](item O) *node[T, O] {
	return &node[T, O]{leaf: true, envelope: item.Envelope(), item: item}
}

func newParent[T Scalar, O RTreeObject[T]](dim int, children []*node[T, O]) *node[T, O] {
	n := &node[T, O]{children: children}
	n.envelope = envelopeForChildren[T, O](dim, children)
	return n
}

// newEmptyRoot returns the root of a brand-new, empty tree: a parent with no
// children, per the invariant that the root is always a parent.
func newEmptyRoot[T Scalar, O RTreeObject[T]](dim int) *node[T, O] {
	return newParent[T, O](dim, nil)
}

func envelopeForChildren[T Scalar, O RTreeObject[T]](dim int, children []*node[T, O]) Envelope[T] {
	e := NewEmptyEnvelope[T](dim)
	for _, c := range children {
		e.Merge(c.envelope)
	}
	return e
}

// recomputeEnvelope recalculates n's cached envelope from its current
// children. Called after in-place mutation (insertion, removal, reinsertion)
// to keep the cache consistent. A leaf's envelope never changes after
// construction, so this is a no-op for leaves.
func (n *node[T, O]) recomputeEnvelope(dim int) {
	if n.leaf {
		return
	}
	n.envelope = envelopeForChildren[T, O](dim, n.children)
}

// isEmpty reports whether n is a parent holding no children. A leaf always
// holds its one item and so is never empty.
func (n *node[T, O]) isEmpty() bool {
	return !n.leaf && len(n.children) == 0
}
