package rstar

// removeOne descends into the subtree rooted at n (a parent) looking for the
// first item matching sel, removes it via swap-remove of its wrapping leaf,
// and recomputes every ancestor envelope it bubbles back through. Any child
// left empty by the removal is itself swap-removed from its own parent
// (cascading empty-parent removal), so a chain of now-empty parents never
// lingers in the tree.
func removeOne[T Scalar, O RTreeObject[T]](dim int, n *node[T, O], sel SelectionFunction[T, O]) (O, bool) {
	for i, c := range n.children {
		if c.leaf {
			if sel.ShouldUnpackLeaf(c.item) {
				item := c.item
				n.children[i] = n.children[len(n.children)-1]
				n.children = n.children[:len(n.children)-1]
				n.recomputeEnvelope(dim)
				return item, true
			}
			continue
		}
		if !sel.ShouldUnpackParent(c.envelope) {
			continue
		}
		if item, ok := removeOne[T](dim, c, sel); ok {
			if c.isEmpty() {
				n.children[i] = n.children[len(n.children)-1]
				n.children = n.children[:len(n.children)-1]
			}
			n.recomputeEnvelope(dim)
			return item, true
		}
	}
	var zero O
	return zero, false
}

// selectEnvelopeEqualFunc matches the single item whose envelope is exactly
// equal to a target's, used by popNearestNeighbor to remove the item that
// nearestNeighbor just located (items are assumed to carry a distinguishing
// envelope; if several items share an identical envelope, one of them -
// unspecified which - is removed, which callers who need precise identity
// should avoid by using RemoveWithSelectionFunction and ByAddress instead).
type selectEnvelopeEqualFunc[T Scalar, O RTreeObject[T]] struct {
	target Envelope[T]
}

func (f selectEnvelopeEqualFunc[T, O]) ShouldUnpackParent(e Envelope[T]) bool {
	return e.Intersects(f.target)
}
func (f selectEnvelopeEqualFunc[T, O]) ShouldUnpackLeaf(item O) bool {
	e := item.Envelope()
	return e.Lower.Equal(f.target.Lower) && e.Upper.Equal(f.target.Upper)
}

// popNearestNeighbor finds the item nearest to p and removes it from the
// tree in the same operation, returning the removed item and its squared
// distance to p.
func popNearestNeighbor[T Scalar, O RTreeObject[T]](dim int, root *node[T, O], p Point[T]) (O, T, bool) {
	item, d2, found := nearestNeighbor[T](root, p)
	if !found {
		var zero O
		var zeroT T
		return zero, zeroT, false
	}
	sel := selectEnvelopeEqualFunc[T, O]{target: item.Envelope()}
	removed, ok := removeOne[T](dim, root, sel)
	return removed, d2, ok
}

// drainFrame is one level of the iterative DFS that DrainIterator walks: n
// is the parent currently being visited, and childIdx is the index of the
// next child of n still to be examined.
type drainFrame[T Scalar, O RTreeObject[T]] struct {
	n        *node[T, O]
	childIdx int
}

// DrainIterator yields every item matching a SelectionFunction while
// removing it from the tree as it goes. Unlike calling RemoveWithSelectionFunction
// in a loop - which re-walks from the root for every single removal - it
// keeps an explicit DFS path on its own stack and only ever visits each node
// once. After every removal it recomputes the envelopes along that path and
// detaches any non-root parent the removal left empty, so the tree is fully
// consistent between any two calls to Next and stopping the iterator before
// it is exhausted (a partial drain) is always safe - there is no separate
// "reattach" step to run.
type DrainIterator[T Scalar, O RTreeObject[T]] struct {
	dim     int
	sel     SelectionFunction[T, O]
	stack   []*drainFrame[T, O]
	pending []O
}

func newDrainIterator[T Scalar, O RTreeObject[T]](dim int, root *node[T, O], sel SelectionFunction[T, O]) *DrainIterator[T, O] {
	it := &DrainIterator[T, O]{dim: dim, sel: sel}
	if root != nil {
		it.stack = append(it.stack, &drainFrame[T, O]{n: root})
	}
	return it
}

// Next returns the next removed item, or (zero, false) once draining is
// complete.
func (it *DrainIterator[T, O]) Next() (O, bool) {
	for {
		if len(it.pending) > 0 {
			item := it.pending[0]
			it.pending = it.pending[1:]
			return item, true
		}

		if len(it.stack) == 0 {
			var zero O
			return zero, false
		}
		top := it.stack[len(it.stack)-1]

		if top.childIdx >= len(top.n.children) {
			filtered := top.n.children[:0]
			for _, c := range top.n.children {
				if !c.isEmpty() {
					filtered = append(filtered, c)
				}
			}
			top.n.children = filtered
			top.n.recomputeEnvelope(it.dim)
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}

		child := top.n.children[top.childIdx]

		if child.leaf {
			if it.sel.ShouldUnpackLeaf(child.item) {
				it.pending = append(it.pending, child.item)
				last := len(top.n.children) - 1
				top.n.children[top.childIdx] = top.n.children[last]
				top.n.children = top.n.children[:last]
				for i := len(it.stack) - 1; i >= 0; i-- {
					f := it.stack[i]
					if i > 0 && f.n.isEmpty() {
						// f.n sits just before its parent's next index.
						p := it.stack[i-1]
						idx, end := p.childIdx-1, len(p.n.children)-1
						p.n.children[idx] = p.n.children[end]
						p.n.children = p.n.children[:end]
						p.childIdx = idx
						continue
					}
					f.n.recomputeEnvelope(it.dim)
				}
				continue // re-examine this index, now holding the swapped-in child
			}
			top.childIdx++
			continue
		}

		top.childIdx++
		if it.sel.ShouldUnpackParent(child.envelope) {
			it.stack = append(it.stack, &drainFrame[T, O]{n: child})
		}
	}
}
