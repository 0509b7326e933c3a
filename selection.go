package rstar

// SelectionFunction drives every traversal in the query engine: it decides
// which subtrees are worth descending into and which leaf items are actual
// matches. Splitting "should we open this subtree" from "is this item a
// match" lets locate, remove, and drain share one pruning contract without
// each reimplementing it.
type SelectionFunction[T Scalar, O RTreeObject[T]] interface {
	// ShouldUnpackParent reports whether a parent with the given envelope
	// might contain a match, and so is worth descending into.
	ShouldUnpackParent(envelope Envelope[T]) bool

	// ShouldUnpackLeaf reports whether a specific leaf item is a match.
	ShouldUnpackLeaf(item O) bool
}

// selectAllFunc matches every item; used by All()/Iter().
type selectAllFunc[T Scalar, O RTreeObject[T]] struct{}

func (selectAllFunc[T, O]) ShouldUnpackParent(Envelope[T]) bool { return true }
func (selectAllFunc[T, O]) ShouldUnpackLeaf(O) bool             { return true }

// SelectAll returns a selection function that matches every item in the tree.
func SelectAll[T Scalar, O RTreeObject[T]]() SelectionFunction[T, O] {
	return selectAllFunc[T, O]{}
}

// selectInEnvelopeFunc matches items whose envelope is fully contained by a
// query envelope. Parents are only pruned on non-intersection, since an
// item contained in query can still live inside a subtree that merely
// overlaps it.
type selectInEnvelopeFunc[T Scalar, O RTreeObject[T]] struct {
	query Envelope[T]
}

func (f selectInEnvelopeFunc[T, O]) ShouldUnpackParent(e Envelope[T]) bool {
	return f.query.Intersects(e)
}
func (f selectInEnvelopeFunc[T, O]) ShouldUnpackLeaf(item O) bool {
	return f.query.ContainsEnvelope(item.Envelope())
}

// InEnvelope matches items whose envelope lies entirely within query.
func InEnvelope[T Scalar, O RTreeObject[T]](query Envelope[T]) SelectionFunction[T, O] {
	return selectInEnvelopeFunc[T, O]{query: query}
}

// selectInEnvelopeIntersectingFunc matches items whose envelope merely
// overlaps a query envelope.
type selectInEnvelopeIntersectingFunc[T Scalar, O RTreeObject[T]] struct {
	query Envelope[T]
}

func (f selectInEnvelopeIntersectingFunc[T, O]) ShouldUnpackParent(e Envelope[T]) bool {
	return f.query.Intersects(e)
}
func (f selectInEnvelopeIntersectingFunc[T, O]) ShouldUnpackLeaf(item O) bool {
	return f.query.Intersects(item.Envelope())
}

// InEnvelopeIntersecting matches items whose envelope intersects query.
func InEnvelopeIntersecting[T Scalar, O RTreeObject[T]](query Envelope[T]) SelectionFunction[T, O] {
	return selectInEnvelopeIntersectingFunc[T, O]{query: query}
}

// selectAtPointFunc matches items containing p, using the item's own
// ContainsPoint when it implements PointDistance, and falling back to
// envelope containment otherwise.
type selectAtPointFunc[T Scalar, O RTreeObject[T]] struct {
	point Point[T]
}

func (f selectAtPointFunc[T, O]) ShouldUnpackParent(e Envelope[T]) bool {
	return e.ContainsPoint(f.point)
}
func (f selectAtPointFunc[T, O]) ShouldUnpackLeaf(item O) bool {
	if pd, ok := asPointDistance[T, O](item); ok {
		return pd.ContainsPoint(f.point)
	}
	return item.Envelope().ContainsPoint(f.point)
}

// AtPoint matches items containing the exact point p.
func AtPoint[T Scalar, O RTreeObject[T]](p Point[T]) SelectionFunction[T, O] {
	return selectAtPointFunc[T, O]{point: p}
}

// selectWithinDistanceFunc matches items within maxDist2 (squared distance)
// of a reference point, using exact item distance when available.
type selectWithinDistanceFunc[T Scalar, O RTreeObject[T]] struct {
	point    Point[T]
	maxDist2 T
}

func (f selectWithinDistanceFunc[T, O]) ShouldUnpackParent(e Envelope[T]) bool {
	return e.Distance2(f.point) <= f.maxDist2
}
func (f selectWithinDistanceFunc[T, O]) ShouldUnpackLeaf(item O) bool {
	if pd, ok := asPointDistance[T, O](item); ok {
		_, within := distance2IfLessOrEqual[T](pd, f.point, f.maxDist2)
		return within
	}
	return item.Envelope().Distance2(f.point) <= f.maxDist2
}

// WithinDistance matches items within maxDist2 squared distance of p.
func WithinDistance[T Scalar, O RTreeObject[T]](p Point[T], maxDist2 T) SelectionFunction[T, O] {
	return selectWithinDistanceFunc[T, O]{point: p, maxDist2: maxDist2}
}

// selectEqualsFunc matches items structurally equal to a target, via the
// supplied equality function (identity comparisons need caller-supplied
// equality since Go generics have no universal Eq constraint over arbitrary
// item types). Parents are pruned by envelope containment: target's envelope
// can only live inside a subtree whose envelope fully contains it.
type selectEqualsFunc[T Scalar, O RTreeObject[T]] struct {
	target O
	equal  func(a, b O) bool
}

func (f selectEqualsFunc[T, O]) ShouldUnpackParent(e Envelope[T]) bool {
	return e.ContainsEnvelope(f.target.Envelope())
}
func (f selectEqualsFunc[T, O]) ShouldUnpackLeaf(item O) bool {
	return f.equal(item, f.target)
}

// Equals matches the item equal to target under the given equality function.
func Equals[T Scalar, O RTreeObject[T]](target O, equal func(a, b O) bool) SelectionFunction[T, O] {
	return selectEqualsFunc[T, O]{target: target, equal: equal}
}

// selectByAddressFunc matches a specific item by identity, used when O is
// itself a pointer type. Parents are pruned by envelope containment, exactly
// as with Equals.
type selectByAddressFunc[T Scalar, O RTreeObject[T]] struct {
	target   O
	envelope Envelope[T]
	same     func(a, b O) bool
}

func (f selectByAddressFunc[T, O]) ShouldUnpackParent(e Envelope[T]) bool {
	return e.ContainsEnvelope(f.envelope)
}
func (f selectByAddressFunc[T, O]) ShouldUnpackLeaf(item O) bool {
	return f.same(item, f.target)
}

// ByAddress matches exactly the given item (by identity, via same), scoped
// to its own envelope to prune the search.
func ByAddress[T Scalar, O RTreeObject[T]](target O, same func(a, b O) bool) SelectionFunction[T, O] {
	return selectByAddressFunc[T, O]{target: target, envelope: target.Envelope(), same: same}
}
