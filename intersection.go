package rstar

// IntersectingPair is one matched pair of items whose envelopes intersect,
// one drawn from each of two trees.
type IntersectingPair[T Scalar, OA RTreeObject[T], OB RTreeObject[T]] struct {
	A OA
	B OB
}

// nodePair is a pending pair of subtrees (one from each side) still to be
// checked against each other.
type nodePair[T Scalar, OA RTreeObject[T], OB RTreeObject[T]] struct {
	a *node[T, OA]
	b *node[T, OB]
}

// IntersectionIterator performs a dual-tree join: it walks both trees
// together, descending only into subtree pairs whose envelopes intersect, and
// yields every pair of items whose own envelopes intersect. When both sides
// of a pair are parents, each parent's children are first filtered against
// the other parent's envelope before being paired up, which avoids the
// quadratic blowup a naive cross-product of children would cause when most
// subtrees are disjoint.
type IntersectionIterator[T Scalar, OA RTreeObject[T], OB RTreeObject[T]] struct {
	todo    []nodePair[T, OA, OB]
	pending []IntersectingPair[T, OA, OB]
}

func newIntersectionIter[T Scalar, OA RTreeObject[T], OB RTreeObject[T]](rootA *node[T, OA], rootB *node[T, OB]) *IntersectionIterator[T, OA, OB] {
	it := &IntersectionIterator[T, OA, OB]{}
	if rootA != nil && rootB != nil && rootA.envelope.Intersects(rootB.envelope) {
		it.todo = append(it.todo, nodePair[T, OA, OB]{a: rootA, b: rootB})
	}
	return it
}

func pushIfIntersecting[T Scalar, OA RTreeObject[T], OB RTreeObject[T]](todo *[]nodePair[T, OA, OB], a *node[T, OA], b *node[T, OB]) {
	if a.envelope.Intersects(b.envelope) {
		*todo = append(*todo, nodePair[T, OA, OB]{a: a, b: b})
	}
}

// Next returns the next intersecting item pair, or (zero pair, false) once
// the join is exhausted.
func (it *IntersectionIterator[T, OA, OB]) Next() (IntersectingPair[T, OA, OB], bool) {
	for {
		if len(it.pending) > 0 {
			p := it.pending[0]
			it.pending = it.pending[1:]
			return p, true
		}

		if len(it.todo) == 0 {
			return IntersectingPair[T, OA, OB]{}, false
		}
		cur := it.todo[len(it.todo)-1]
		it.todo = it.todo[:len(it.todo)-1]

		switch {
		case cur.a.leaf && cur.b.leaf:
			if cur.a.envelope.Intersects(cur.b.envelope) {
				it.pending = append(it.pending, IntersectingPair[T, OA, OB]{A: cur.a.item, B: cur.b.item})
			}
		case cur.a.leaf && !cur.b.leaf:
			for _, cb := range cur.b.children {
				pushIfIntersecting[T, OA, OB](&it.todo, cur.a, cb)
			}
		case !cur.a.leaf && cur.b.leaf:
			for _, ca := range cur.a.children {
				pushIfIntersecting[T, OA, OB](&it.todo, ca, cur.b)
			}
		default:
			var bs []*node[T, OB]
			for _, cb := range cur.b.children {
				if cb.envelope.Intersects(cur.a.envelope) {
					bs = append(bs, cb)
				}
			}
			for _, ca := range cur.a.children {
				if !ca.envelope.Intersects(cur.b.envelope) {
					continue
				}
				for _, cb := range bs {
					pushIfIntersecting[T, OA, OB](&it.todo, ca, cb)
				}
			}
		}
	}
}

// intersectionCandidates drains an IntersectionIter into a slice, for the
// non-iterator facade method.
func intersectionCandidates[T Scalar, OA RTreeObject[T], OB RTreeObject[T]](rootA *node[T, OA], rootB *node[T, OB]) []IntersectingPair[T, OA, OB] {
	it := newIntersectionIter[T, OA, OB](rootA, rootB)
	var out []IntersectingPair[T, OA, OB]
	for {
		p, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, p)
	}
}
