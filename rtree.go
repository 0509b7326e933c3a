package rstar

import (
	"github.com/go-logr/logr"
)

// RTree is an n-dimensional R*-tree over items of type O, whose coordinates
// use scalar type T. The coordinate dimension is passed explicitly at
// construction (New/NewWithParams/BulkLoad/BulkLoadWithParams) and every item
// stored must share it; the tree does not check item dimensions against it.
type RTree[T Scalar, O RTreeObject[T]] struct {
	params Params
	dim    int
	root   *node[T, O]
	size   int
	log    logr.Logger
}

// New creates an empty tree using DefaultParams. dim is the coordinate
// dimension every item's envelope must share.
func New[T Scalar, O RTreeObject[T]](dim int) *RTree[T, O] {
	return NewWithParams[T, O](dim, DefaultParams())
}

// NewWithParams creates an empty tree with custom branching parameters.
// Panics if params fails validation (see Params.validate).
func NewWithParams[T Scalar, O RTreeObject[T]](dim int, params Params) *RTree[T, O] {
	params.validate()
	return &RTree[T, O]{
		params: params,
		dim:    dim,
		root:   newEmptyRoot[T, O](dim),
		log:    logr.Discard(),
	}
}

// BulkLoad builds a tree from items in one pass using the overlap-
// minimizing top-down algorithm, which is substantially faster than (and
// produces a better-organized tree than) inserting the same items one by
// one.
func BulkLoad[T Scalar, O RTreeObject[T]](dim int, items []O) *RTree[T, O] {
	return BulkLoadWithParams[T, O](dim, items, DefaultParams())
}

// BulkLoadWithParams is BulkLoad with custom branching parameters.
func BulkLoadWithParams[T Scalar, O RTreeObject[T]](dim int, items []O, params Params) *RTree[T, O] {
	params.validate()
	owned := append([]O{}, items...)
	return &RTree[T, O]{
		params: params,
		dim:    dim,
		root:   bulkLoad[T, O](dim, owned, params),
		size:   len(owned),
		log:    logr.Discard(),
	}
}

// SetLogger installs a structured logger that receives V(1) trace events for
// reinsertion, split, root growth, and drain completion. Purely diagnostic:
// no log record is required for correctness. Defaults to logr.Discard().
func (r *RTree[T, O]) SetLogger(log logr.Logger) { r.log = log }

// Size returns the number of items currently stored.
func (r *RTree[T, O]) Size() int { return r.size }

// Dim returns the coordinate dimension this tree was constructed with.
func (r *RTree[T, O]) Dim() int { return r.dim }

// Root returns the envelope of the entire tree's contents, or the empty
// envelope if the tree holds no items.
func (r *RTree[T, O]) Root() Envelope[T] { return r.root.envelope }

// Height returns the number of levels in the tree, root to leaves inclusive
// (a root holding only leaf children has height 2; an empty tree - root
// alone - has height 1).
func (r *RTree[T, O]) Height() int {
	h := 1
	n := r.root
	for !n.isEmpty() && len(n.children) > 0 && !n.children[0].leaf {
		h++
		n = n.children[0]
	}
	if !n.isEmpty() {
		h++
	}
	return h
}

// VisitInternalNodes calls fn for every internal (non-leaf) node's envelope
// and number of children until fn returns Stop - useful for visualizing or
// instrumenting the tree's internal structure.
func (r *RTree[T, O]) VisitInternalNodes(fn func(envelope Envelope[T], children int) ControlFlow) {
	stack := []*node[T, O]{r.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.leaf {
			continue
		}
		if fn(n.envelope, len(n.children)) == Stop {
			return
		}
		stack = append(stack, n.children...)
	}
}

// Insert adds a single item to the tree.
func (r *RTree[T, O]) Insert(item O) {
	r.root = insertItem[T, O](r.dim, r.root, item, r.params, r.log)
	r.size++
}

// All returns every item in the tree.
func (r *RTree[T, O]) All() []O {
	return collectSelection[T](r.root, SelectAll[T, O]())
}

// Iter returns an iterator over every item in the tree.
func (r *RTree[T, O]) Iter() *SelectionIterator[T, O] {
	return newSelectionIterator[T](r.root, SelectAll[T, O]())
}

// LocateInEnvelope returns every item whose envelope lies entirely within
// query.
func (r *RTree[T, O]) LocateInEnvelope(query Envelope[T]) []O {
	return collectSelection[T](r.root, InEnvelope[T, O](query))
}

// LocateInEnvelopeIntersecting returns every item whose envelope merely
// overlaps query, unlike LocateInEnvelope which requires full containment.
func (r *RTree[T, O]) LocateInEnvelopeIntersecting(query Envelope[T]) []O {
	return collectSelection[T](r.root, InEnvelopeIntersecting[T, O](query))
}

// LocateWithSelectionFunction returns every item matched by a custom
// SelectionFunction.
func (r *RTree[T, O]) LocateWithSelectionFunction(sel SelectionFunction[T, O]) []O {
	return collectSelection[T](r.root, sel)
}

// LocateAtPoint returns one item containing the exact point p, or (zero,
// false) if none does.
func (r *RTree[T, O]) LocateAtPoint(p Point[T]) (O, bool) {
	var found O
	ok := false
	visitSelection[T](r.root, AtPoint[T, O](p), func(item O) ControlFlow {
		found, ok = item, true
		return Stop
	})
	return found, ok
}

// LocateAllAtPoint returns every item containing the exact point p.
func (r *RTree[T, O]) LocateAllAtPoint(p Point[T]) []O {
	return collectSelection[T](r.root, AtPoint[T, O](p))
}

// LocateWithinDistance returns every item within maxDist2 squared distance
// of p.
func (r *RTree[T, O]) LocateWithinDistance(p Point[T], maxDist2 T) []O {
	return collectSelection[T](r.root, WithinDistance[T, O](p, maxDist2))
}

// IterMut returns a mutable iterator over every item in the tree, yielding
// pointers into the tree's stored items. Mutating an item's coordinates
// through the returned pointer desynchronizes cached envelopes - see
// SelectionIteratorMut.
func (r *RTree[T, O]) IterMut() *SelectionIteratorMut[T, O] {
	return newSelectionIteratorMut[T](r.root, SelectAll[T, O]())
}

// LocateAtPointMut is LocateAtPoint, returning a pointer to the matched item
// for in-place mutation.
func (r *RTree[T, O]) LocateAtPointMut(p Point[T]) (*O, bool) {
	it := newSelectionIteratorMut[T](r.root, AtPoint[T, O](p))
	return it.Next()
}

// LocateAllAtPointMut is LocateAllAtPoint, returning pointers to every
// matched item for in-place mutation.
func (r *RTree[T, O]) LocateAllAtPointMut(p Point[T]) []*O {
	return collectSelectionMut[T](r.root, AtPoint[T, O](p))
}

// LocateInEnvelopeMut is LocateInEnvelope, returning pointers to every
// matched item for in-place mutation.
func (r *RTree[T, O]) LocateInEnvelopeMut(query Envelope[T]) []*O {
	return collectSelectionMut[T](r.root, InEnvelope[T, O](query))
}

// LocateInEnvelopeIntersectingMut is LocateInEnvelopeIntersecting, returning
// pointers to every matched item for in-place mutation.
func (r *RTree[T, O]) LocateInEnvelopeIntersectingMut(query Envelope[T]) []*O {
	return collectSelectionMut[T](r.root, InEnvelopeIntersecting[T, O](query))
}

// LocateWithSelectionFunctionMut is LocateWithSelectionFunction, returning an
// iterator over pointers to every matched item for in-place mutation.
func (r *RTree[T, O]) LocateWithSelectionFunctionMut(sel SelectionFunction[T, O]) *SelectionIteratorMut[T, O] {
	return newSelectionIteratorMut[T](r.root, sel)
}

// Contains reports whether an item with exactly item's envelope is present.
func (r *RTree[T, O]) Contains(item O) bool {
	found := false
	visitSelection[T](r.root, selectEnvelopeEqualFunc[T, O]{target: item.Envelope()}, func(O) ControlFlow {
		found = true
		return Stop
	})
	return found
}

// NearestNeighbor returns the single item closest to p, and its squared
// distance, or (zero, zero, false) if the tree is empty.
func (r *RTree[T, O]) NearestNeighbor(p Point[T]) (O, T, bool) {
	return nearestNeighbor[T](r.root, p)
}

// NearestNeighbors returns every item tied for closest to p: it drains the
// best-first iterator while the yielded distance equals the first-yielded
// distance, so the result can hold more than one item whenever several are
// exactly equidistant from p.
func (r *RTree[T, O]) NearestNeighbors(p Point[T]) []O {
	return nearestNeighbors[T](r.root, p)
}

// NearestNeighborIter returns a best-first iterator over every item in the
// tree, nearest to p first.
func (r *RTree[T, O]) NearestNeighborIter(p Point[T]) *NearestNeighborIterator[T, O] {
	return newNearestNeighborIterator[T](r.root, p)
}

// NearestNeighborIterWithDistance2 is NearestNeighborIter but also yields
// each item's squared distance to p.
func (r *RTree[T, O]) NearestNeighborIterWithDistance2(p Point[T]) *NearestNeighborIteratorWithDistance2[T, O] {
	return newNearestNeighborIteratorWithDistance2[T](r.root, p)
}

// PopNearestNeighbor removes and returns the item closest to p, along with
// its squared distance, or (zero, zero, false) if the tree is empty.
func (r *RTree[T, O]) PopNearestNeighbor(p Point[T]) (O, T, bool) {
	item, d2, ok := popNearestNeighbor[T](r.dim, r.root, p)
	if ok {
		r.size--
	}
	return item, d2, ok
}

// RemoveWithSelectionFunction removes and returns the first item matched by
// sel, or (zero, false) if nothing matched.
func (r *RTree[T, O]) RemoveWithSelectionFunction(sel SelectionFunction[T, O]) (O, bool) {
	item, ok := removeOne[T](r.dim, r.root, sel)
	if ok {
		r.size--
	}
	return item, ok
}

// Remove removes one item whose envelope exactly matches item's, using
// structural envelope equality (see selectEnvelopeEqualFunc).
func (r *RTree[T, O]) Remove(item O) bool {
	_, ok := r.RemoveWithSelectionFunction(selectEnvelopeEqualFunc[T, O]{target: item.Envelope()})
	return ok
}

// RemoveAtPoint removes one item containing the exact point p.
func (r *RTree[T, O]) RemoveAtPoint(p Point[T]) (O, bool) {
	return r.RemoveWithSelectionFunction(AtPoint[T, O](p))
}

// TrackedDrainIterator is a DrainIterator paired with the tree it is
// draining, so each yielded item keeps the tree's Size() accurate even if
// the caller stops consuming before exhaustion.
type TrackedDrainIterator[T Scalar, O RTreeObject[T]] struct {
	inner *DrainIterator[T, O]
	tree  *RTree[T, O]
}

// Next returns the next removed item, or (zero, false) once draining is
// complete.
func (it *TrackedDrainIterator[T, O]) Next() (O, bool) {
	item, ok := it.inner.Next()
	if ok {
		it.tree.size--
	}
	return item, ok
}

// DrainWithSelectionFunction returns an iterator that removes every item
// matched by sel from the tree as it is consumed.
func (r *RTree[T, O]) DrainWithSelectionFunction(sel SelectionFunction[T, O]) *TrackedDrainIterator[T, O] {
	return &TrackedDrainIterator[T, O]{inner: newDrainIterator[T](r.dim, r.root, sel), tree: r}
}

// DrainInEnvelopeIntersecting removes and returns every item whose envelope
// intersects query.
func (r *RTree[T, O]) DrainInEnvelopeIntersecting(query Envelope[T]) []O {
	return r.drainAll(InEnvelopeIntersecting[T, O](query))
}

// DrainWithinDistance removes and returns every item within maxDist2 squared
// distance of p.
func (r *RTree[T, O]) DrainWithinDistance(p Point[T], maxDist2 T) []O {
	return r.drainAll(WithinDistance[T, O](p, maxDist2))
}

// drainAll runs a DrainIterator to completion and returns everything it
// removed, logging completion once the tree has been fully walked.
func (r *RTree[T, O]) drainAll(sel SelectionFunction[T, O]) []O {
	it := newDrainIterator[T](r.dim, r.root, sel)
	var out []O
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, item)
		r.size--
	}
	r.log.V(1).Info("drain completed", "removed", len(out))
	return out
}

// IntersectionCandidatesWithOtherTree returns every pair of items, one from
// r and one from other, whose envelopes intersect.
func IntersectionCandidatesWithOtherTree[T Scalar, OA RTreeObject[T], OB RTreeObject[T]](r *RTree[T, OA], other *RTree[T, OB]) []IntersectingPair[T, OA, OB] {
	return intersectionCandidates[T](r.root, other.root)
}

// IntersectionIter returns an iterator over every intersecting item pair
// between r and other, without materializing them all up front.
func IntersectionIter[T Scalar, OA RTreeObject[T], OB RTreeObject[T]](r *RTree[T, OA], other *RTree[T, OB]) *IntersectionIterator[T, OA, OB] {
	return newIntersectionIter[T](r.root, other.root)
}
