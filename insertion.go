package rstar

import "github.com/go-logr/logr"

// insertionKind discriminates the three outcomes a single insertion step
// into a parent node can produce, mirroring the reference R*-tree
// algorithm's three-way result instead of threading ad-hoc booleans through
// the recursion.
type insertionKind int

const (
	insertionComplete insertionKind = iota
	insertionSplit
	insertionReinsert
)

// insertionResult is what recursiveInsert/forcedInsertion return: either
// nothing further to do, a sibling node produced by a split that the caller
// must slot in alongside the node it split, or a batch of evicted nodes that
// must be reinserted from the tree root at the given target height.
type insertionResult[T Scalar, O RTreeObject[T]] struct {
	kind         insertionKind
	split        *node[T, O]
	reinsert     []*node[T, O]
	targetHeight int
}

// insertItem inserts item into the tree rooted at root, returning the
// (possibly new, possibly taller) root. It follows the R* strategy: an
// initial top-down descent (recursiveInsert) places the item and resolves
// the first overflow it meets by forced reinsertion; every node on the
// stack this produces is then reinserted starting back at the root
// (forcedInsertion), targeting the height at which the original overflow
// happened, with any further overflow along the way resolved purely by
// splitting - mirroring the original R*-tree paper's "treat overflow
// specially only the first time, for the whole Insert call" rule.
func insertItem[T Scalar, O RTreeObject[T]](dim int, root *node[T, O], item O, params Params, log logr.Logger) *node[T, O] {
	type action struct {
		split    *node[T, O]
		reinsert *node[T, O]
	}

	first := recursiveInsert(dim, root, newLeaf[T, O](item), 0, params, log)

	targetHeight := 0
	var stack []action
	switch first.kind {
	case insertionSplit:
		stack = append(stack, action{split: first.split})
	case insertionReinsert:
		for _, n := range first.reinsert {
			stack = append(stack, action{reinsert: n})
		}
		targetHeight = first.targetHeight
	}

	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if next.split != nil {
			old := root
			root = newParent[T, O](dim, []*node[T, O]{old, next.split})
			targetHeight++
			log.V(1).Info("root grew", "height", targetHeight)
			continue
		}

		res := forcedInsertion(dim, root, next.reinsert, targetHeight, params, log)
		if res.kind == insertionSplit {
			stack = append(stack, action{split: res.split})
		}
	}
	return root
}

// recursiveInsert inserts t (the leaf wrapping the new item; evicted nodes
// are reinserted by forcedInsertion instead) into the subtree rooted at n, which sits
// at currentHeight below the tree root. It returns whatever resolveOverflow
// decides once n's own entry count is updated.
func recursiveInsert[T Scalar, O RTreeObject[T]](dim int, n *node[T, O], t *node[T, O], currentHeight int, params Params, log logr.Logger) insertionResult[T, O] {
	n.envelope.Merge(t.envelope)
	idx := chooseSubtreeIndex(n, t)

	if idx >= len(n.children) {
		n.children = append(n.children, t)
		return resolveOverflow(dim, n, currentHeight, params, log)
	}

	expand := recursiveInsert(dim, n.children[idx], t, currentHeight+1, params, log)
	switch expand.kind {
	case insertionSplit:
		n.envelope.Merge(expand.split.envelope)
		n.children = append(n.children, expand.split)
		return resolveOverflow(dim, n, currentHeight, params, log)
	case insertionReinsert:
		n.recomputeEnvelope(dim)
		return expand
	default:
		return expand
	}
}

// forcedInsertion re-inserts a node evicted by forced reinsertion, starting
// back at the tree root and descending via the same ChooseSubtree rule as a
// fresh insert, but stopping once it reaches targetHeight - the level the
// node was evicted from - so it re-enters the tree at the same height it
// left. Unlike recursiveInsert, it never triggers a second round of forced
// reinsertion: any overflow it causes on the way back up is resolved purely
// by splitting, which is what makes "one forced reinsertion per Insert call"
// hold without any separate per-level bookkeeping.
func forcedInsertion[T Scalar, O RTreeObject[T]](dim int, n *node[T, O], t *node[T, O], targetHeight int, params Params, log logr.Logger) insertionResult[T, O] {
	n.envelope.Merge(t.envelope)
	idx := chooseSubtreeIndex(n, t)

	if targetHeight == 0 || idx >= len(n.children) {
		n.children = append(n.children, t)
		return resolveOverflowWithoutReinsertion(dim, n, params, log)
	}

	result := forcedInsertion(dim, n.children[idx], t, targetHeight-1, params, log)
	if result.kind == insertionSplit {
		n.envelope.Merge(result.split.envelope)
		n.children = append(n.children, result.split)
		return resolveOverflowWithoutReinsertion(dim, n, params, log)
	}
	return result
}

// chooseSubtreeIndex picks which child of n to descend into to place t,
// following the R* rule: if one or more children already fully contain t's
// envelope, restrict the search to those and pick the smallest by area
// (inserting into an envelope that already contains the new entry can never
// increase any sibling's overlap, so the overlap computation below is
// skipped entirely); otherwise, if n's children are themselves parents of
// leaves, minimize the overlap enlargement the new entry would cause among
// siblings (breaking ties by area enlargement, then by absolute area), and
// if not, minimize plain area enlargement to save the cost of the overlap
// computation deeper in the tree. Returns len(n.children) - a value never a
// valid index - to mean "insert directly into n, descend no further", used
// both when n.children is empty and when n.children are themselves leaves.
func chooseSubtreeIndex[T Scalar, O RTreeObject[T]](n *node[T, O], t *node[T, O]) int {
	if len(n.children) == 0 || n.children[0].leaf {
		return len(n.children)
	}

	e := t.envelope
	childrenAreLeaves := len(n.children[0].children) > 0 && n.children[0].children[0].leaf

	best := -1
	var bestArea T
	inclusionCount := 0
	for i, c := range n.children {
		if c.envelope.ContainsEnvelope(e) {
			inclusionCount++
			if area := c.envelope.Area(); best == -1 || area < bestArea {
				best, bestArea = i, area
			}
		}
	}
	if inclusionCount > 0 {
		return best
	}

	best = 0
	var bestOverlapInc, bestAreaInc, bestMergedArea T
	for i, c := range n.children {
		merged := c.envelope.Merged(e)
		areaInc := merged.Area() - c.envelope.Area()
		area := merged.Area()

		var overlapInc T
		if childrenAreLeaves {
			var before, after T
			for j, sibling := range n.children {
				if j == i {
					continue
				}
				before += c.envelope.IntersectionArea(sibling.envelope)
				after += merged.IntersectionArea(sibling.envelope)
			}
			overlapInc = after - before
		}

		if i == 0 || overlapInc < bestOverlapInc ||
			(overlapInc == bestOverlapInc && (areaInc < bestAreaInc ||
				(areaInc == bestAreaInc && area < bestMergedArea))) {
			best, bestOverlapInc, bestAreaInc, bestMergedArea = i, overlapInc, areaInc, area
		}
	}
	return best
}

// resolveOverflow handles a node n that may have just exceeded
// params.MaxSize children. If it has, this is the first time overflow is
// being resolved during the current Insert call (recursiveInsert never
// calls it again once a reinsert request has been produced further down),
// so overflow is resolved by evicting the farthest children and handing
// them back up for reinsertion from the root.
func resolveOverflow[T Scalar, O RTreeObject[T]](dim int, n *node[T, O], currentHeight int, params Params, log logr.Logger) insertionResult[T, O] {
	if len(n.children) <= params.MaxSize {
		return insertionResult[T, O]{kind: insertionComplete}
	}
	log.V(1).Info("forced reinsertion", "height", currentHeight, "size", len(n.children))
	evicted := nodesForReinsertion(dim, n, params)
	return insertionResult[T, O]{kind: insertionReinsert, reinsert: evicted, targetHeight: currentHeight}
}

// resolveOverflowWithoutReinsertion is resolveOverflow without the
// reinsertion option: used once forced reinsertion is already underway, so
// any further overflow it causes is resolved purely by splitting.
func resolveOverflowWithoutReinsertion[T Scalar, O RTreeObject[T]](dim int, n *node[T, O], params Params, log logr.Logger) insertionResult[T, O] {
	if len(n.children) <= params.MaxSize {
		return insertionResult[T, O]{kind: insertionComplete}
	}
	return insertionResult[T, O]{kind: insertionSplit, split: splitNode(dim, n, params, log)}
}

// nodesForReinsertion evicts the params.ReinsertionCount children of n
// farthest from n's own center (by center-to-center squared distance),
// shrinking n to the remainder and returning the evicted children for the
// caller to reinsert from the tree root.
func nodesForReinsertion[T Scalar, O RTreeObject[T]](dim int, n *node[T, O], params Params) []*node[T, O] {
	center := n.envelope.Center()
	sortBy(n.children, func(a, b *node[T, O]) bool {
		return a.envelope.Center().SquaredDistance(center) < b.envelope.Center().SquaredDistance(center)
	})
	cut := len(n.children) - params.ReinsertionCount
	evicted := append([]*node[T, O]{}, n.children[cut:]...)
	n.children = n.children[:cut]
	n.recomputeEnvelope(dim)
	return evicted
}

// splitNode splits an overflowing node n into two siblings: n is shrunk in
// place to the first half (ChooseSplitAxis then ChooseSplitIndex, the R*
// split heuristic) and the second half is returned as a new sibling for the
// caller to slot in alongside n - strictly better than R-tree's plain
// minimal-area split for query performance.
func splitNode[T Scalar, O RTreeObject[T]](dim int, n *node[T, O], params Params, log logr.Logger) *node[T, O] {
	log.V(1).Info("split", "size", len(n.children))
	axis := chooseSplitAxis(dim, n, params)
	sortBy(n.children, func(a, b *node[T, O]) bool { return a.envelope.Lower[axis] < b.envelope.Lower[axis] })

	k := chooseSplitIndex(dim, n.children, params)
	off := append([]*node[T, O]{}, n.children[k:]...)
	n.children = n.children[:k]
	n.recomputeEnvelope(dim)
	return newParent[T, O](dim, off)
}

// chooseSplitAxis scans every axis, and for each one sums the perimeter of
// the two groups over every valid split index k (with n's children first
// sorted by that axis); it returns the axis with the smallest such sum, on
// the premise that a tighter overall margin correlates with fewer future
// overlapping splits.
func chooseSplitAxis[T Scalar, O RTreeObject[T]](dim int, n *node[T, O], params Params) int {
	bestAxis := 0
	bestMargin := maxValue[T]()

	for axis := 0; axis < dim; axis++ {
		sortBy(n.children, func(a, b *node[T, O]) bool { return a.envelope.Lower[axis] < b.envelope.Lower[axis] })
		margin := marginSum[T](dim, n.children, params)
		if axis == 0 || margin < bestMargin {
			bestAxis, bestMargin = axis, margin
		}
	}
	return bestAxis
}

func marginSum[T Scalar, O RTreeObject[T]](dim int, sorted []*node[T, O], params Params) T {
	var sum T
	for k := params.MinSize; k <= len(sorted)-params.MinSize; k++ {
		left := envelopeForChildren[T, O](dim, sorted[:k])
		right := envelopeForChildren[T, O](dim, sorted[k:])
		sum += left.Perimeter() + right.Perimeter()
	}
	return sum
}

// chooseSplitIndex picks, among the valid split indices on the
// already-axis-sorted children, the one minimizing (overlap area, total
// area) lexicographically.
func chooseSplitIndex[T Scalar, O RTreeObject[T]](dim int, sorted []*node[T, O], params Params) int {
	bestK := params.MinSize
	bestOverlap, bestArea := maxValue[T](), maxValue[T]()

	for k := params.MinSize; k <= len(sorted)-params.MinSize; k++ {
		left := envelopeForChildren[T, O](dim, sorted[:k])
		right := envelopeForChildren[T, O](dim, sorted[k:])
		overlap := left.IntersectionArea(right)
		area := left.Area() + right.Area()
		if overlap < bestOverlap || (overlap == bestOverlap && area < bestArea) {
			bestK, bestOverlap, bestArea = k, overlap, area
		}
	}
	return bestK
}
