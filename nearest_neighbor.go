package rstar

// itemDistance2 returns the best available squared distance from item to p:
// the item's own Distance2 when it implements PointDistance, otherwise the
// squared distance to its bounding envelope (an approximation, but the best
// information available for a plain RTreeObject).
func itemDistance2[T Scalar, O RTreeObject[T]](item O, p Point[T]) T {
	if pd, ok := asPointDistance[T, O](item); ok {
		return pd.Distance2(p)
	}
	return item.Envelope().Distance2(p)
}

// NearestNeighborIteratorWithDistance2 performs best-first traversal ranked
// by Roussopoulos MINDIST, yielding items together with their squared
// distance to the query point in non-decreasing order. The heap holds
// both unexpanded subtrees and already-reached items so that an item is
// only popped once every subtree that could contain something closer has
// been ruled out.
type NearestNeighborIteratorWithDistance2[T Scalar, O RTreeObject[T]] struct {
	point Point[T]
	heap  *nnHeap[T, O]
}

func newNearestNeighborIteratorWithDistance2[T Scalar, O RTreeObject[T]](root *node[T, O], p Point[T]) *NearestNeighborIteratorWithDistance2[T, O] {
	it := &NearestNeighborIteratorWithDistance2[T, O]{point: p, heap: newNNHeap[T, O]()}
	if root != nil {
		it.heap.pushEntry(nnEntry[T, O]{dist2: root.envelope.Distance2(p), n: root})
	}
	return it
}

// Next returns the next-nearest (item, dist2) pair, or (zero, zero, false)
// once every item has been yielded.
func (it *NearestNeighborIteratorWithDistance2[T, O]) Next() (O, T, bool) {
	for it.heap.Len() > 0 {
		e := it.heap.popEntry()
		if e.isItem {
			return e.item, e.dist2, true
		}
		n := e.n
		if n.leaf {
			it.heap.pushEntry(nnEntry[T, O]{dist2: itemDistance2[T](n.item, it.point), isItem: true, item: n.item})
			continue
		}
		for _, child := range n.children {
			it.heap.pushEntry(nnEntry[T, O]{dist2: child.envelope.Distance2(it.point), n: child})
		}
	}
	var zero O
	var zeroT T
	return zero, zeroT, false
}

// NearestNeighborIterator is NearestNeighborIteratorWithDistance2 without
// the distance, for callers that only need the items themselves.
type NearestNeighborIterator[T Scalar, O RTreeObject[T]] struct {
	inner *NearestNeighborIteratorWithDistance2[T, O]
}

func newNearestNeighborIterator[T Scalar, O RTreeObject[T]](root *node[T, O], p Point[T]) *NearestNeighborIterator[T, O] {
	return &NearestNeighborIterator[T, O]{inner: newNearestNeighborIteratorWithDistance2[T, O](root, p)}
}

// Next returns the next-nearest item, or (zero, false) once exhausted.
func (it *NearestNeighborIterator[T, O]) Next() (O, bool) {
	item, _, ok := it.inner.Next()
	return item, ok
}

// nearestNeighbor finds the single closest item to p, pruning subtrees whose
// MINDIST already exceeds the best MINMAXDIST bound seen so far
// (smallestMinMax, seeded at the largest finite scalar value and tightened
// whenever a closer upper
// bound is found) - the classic Roussopoulos branch-and-bound, rather than
// draining the full best-first iterator for a single result.
func nearestNeighbor[T Scalar, O RTreeObject[T]](root *node[T, O], p Point[T]) (O, T, bool) {
	var none O
	if root == nil || root.isEmpty() {
		return none, zero[T](), false
	}
	best, bestDist2, found := none, maxValue[T](), false
	smallestMinMax := maxValue[T]()

	var recurse func(n *node[T, O])
	recurse = func(n *node[T, O]) {
		if n.leaf {
			d2 := itemDistance2[T](n.item, p)
			if !found || d2 < bestDist2 {
				best, bestDist2, found = n.item, d2, true
			}
			return
		}

		type scored struct {
			child *node[T, O]
			d2    T
		}
		candidates := make([]scored, 0, len(n.children))
		for _, c := range n.children {
			d2 := c.envelope.Distance2(p)
			if d2 <= smallestMinMax {
				candidates = append(candidates, scored{child: c, d2: d2})
			}
		}
		sortBy(candidates, func(a, b scored) bool { return a.d2 < b.d2 })

		for _, cand := range candidates {
			if found && cand.d2 > bestDist2 {
				continue
			}
			if mm := cand.child.envelope.MinMaxDist2(p); mm < smallestMinMax {
				smallestMinMax = mm
			}
			recurse(cand.child)
		}
	}
	recurse(root)
	return best, bestDist2, found
}

// nearestNeighbors returns every item tied for closest to p: it drains the
// best-first iterator and keeps every item whose distance exactly equals the
// first-yielded distance (exact equality, not within epsilon), stopping as
// soon as a strictly farther item is reached.
func nearestNeighbors[T Scalar, O RTreeObject[T]](root *node[T, O], p Point[T]) []O {
	it := newNearestNeighborIteratorWithDistance2[T, O](root, p)
	item, dist2, ok := it.Next()
	if !ok {
		return nil
	}
	out := []O{item}
	for {
		next, d2, ok := it.Next()
		if !ok || d2 != dist2 {
			return out
		}
		out = append(out, next)
	}
}
