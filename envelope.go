package rstar

import "math"

// Envelope is an axis-aligned bounding box (AABB): the sole envelope
// representation this tree uses, generic over the point type it bounds.
//
// An empty envelope has Lower set to +Inf and Upper to -Inf on every axis, so
// that merging it with any real envelope yields that envelope unchanged.
type Envelope[T Scalar] struct {
	Lower, Upper Point[T]
}

// NewEmptyEnvelope returns the empty envelope for the given dimension.
func NewEmptyEnvelope[T Scalar](dim int) Envelope[T] {
	return Envelope[T]{
		Lower: fill(dim, T(math.Inf(1))),
		Upper: fill(dim, T(math.Inf(-1))),
	}
}

// EnvelopeFromPoint returns the degenerate envelope containing only p.
func EnvelopeFromPoint[T Scalar](p Point[T]) Envelope[T] {
	return Envelope[T]{Lower: p.Clone(), Upper: p.Clone()}
}

// EnvelopeFromCorners returns the envelope spanning the two given corners,
// which need not already be ordered lower/upper per axis.
func EnvelopeFromCorners[T Scalar](a, b Point[T]) Envelope[T] {
	return Envelope[T]{Lower: a.MinPoint(b), Upper: a.MaxPoint(b)}
}

func (e Envelope[T]) dim() int { return e.Lower.Dim() }

// ContainsPoint reports whether every axis satisfies Lower[i] <= p[i] <= Upper[i].
func (e Envelope[T]) ContainsPoint(p Point[T]) bool {
	for i := 0; i < e.dim(); i++ {
		if e.Lower[i] > p[i] || e.Upper[i] < p[i] {
			return false
		}
	}
	return true
}

// ContainsEnvelope reports whether e fully contains other.
func (e Envelope[T]) ContainsEnvelope(other Envelope[T]) bool {
	for i := 0; i < e.dim(); i++ {
		if e.Lower[i] > other.Lower[i] || e.Upper[i] < other.Upper[i] {
			return false
		}
	}
	return true
}

// Merged returns the union of e and other.
func (e Envelope[T]) Merged(other Envelope[T]) Envelope[T] {
	return Envelope[T]{
		Lower: e.Lower.MinPoint(other.Lower),
		Upper: e.Upper.MaxPoint(other.Upper),
	}
}

// Merge updates e in place to the union of e and other.
func (e *Envelope[T]) Merge(other Envelope[T]) {
	*e = e.Merged(other)
}

// Intersects reports whether e and other overlap; touching counts as intersecting.
func (e Envelope[T]) Intersects(other Envelope[T]) bool {
	for i := 0; i < e.dim(); i++ {
		if e.Lower[i] > other.Upper[i] || e.Upper[i] < other.Lower[i] {
			return false
		}
	}
	return true
}

// Area returns the product, over axes, of max(Upper[i]-Lower[i], 0).
func (e Envelope[T]) Area() T {
	z := zero[T]()
	area := one[T]()
	for i := 0; i < e.dim(); i++ {
		d := e.Upper[i] - e.Lower[i]
		if d < z {
			d = z
		}
		area *= d
	}
	return area
}

// IntersectionArea returns the area of the clipped overlap of e and other,
// or 0 if they are disjoint.
func (e Envelope[T]) IntersectionArea(other Envelope[T]) T {
	clipped := Envelope[T]{
		Lower: e.Lower.MaxPoint(other.Lower),
		Upper: e.Upper.MinPoint(other.Upper),
	}
	return clipped.Area()
}

// Perimeter returns the sum, over axes, of max(Upper[i]-Lower[i], 0) - the
// R* "goodness" heuristic, proportional to (but not equal to) the geometric
// perimeter.
func (e Envelope[T]) Perimeter() T {
	z := zero[T]()
	sum := z
	for i := 0; i < e.dim(); i++ {
		d := e.Upper[i] - e.Lower[i]
		if d < z {
			d = z
		}
		sum += d
	}
	return sum
}

// Center returns the component-wise midpoint of e.
func (e Envelope[T]) Center() Point[T] {
	two := one[T]() + one[T]()
	return e.Lower.componentWise(e.Upper, func(l, u T) T { return (l + u) / two })
}

// MinPoint clamps p to lie within e, returning p unchanged if it is already inside.
func (e Envelope[T]) MinPoint(p Point[T]) Point[T] {
	return e.Upper.MinPoint(e.Lower.MaxPoint(p))
}

// Distance2 returns the squared Euclidean distance from p to the envelope
// (0 if p is inside e). This is the Roussopoulos MINDIST.
func (e Envelope[T]) Distance2(p Point[T]) T {
	if e.ContainsPoint(p) {
		return zero[T]()
	}
	return e.MinPoint(p).SquaredDistance(p)
}

// MinMaxDist2 returns the Roussopoulos MINMAXDIST upper bound: the smallest,
// over axes k, of rm_k^2 + sum_{j!=k} rM_j^2, where rm_k is the distance to
// the nearer face on axis k and rM_j the distance to the farther face on each
// other axis j.
//
// This must stay numerically identical to Distance2 applied to the
// corresponding corner point (see the MinMaxDist2 regression test) - a naive
// rewrite that looks equivalent can diverge under floating-point rounding.
func (e Envelope[T]) MinMaxDist2(p Point[T]) T {
	dim := e.dim()
	l := e.Lower.Sub(p)
	u := e.Upper.Sub(p)

	near := make(Point[T], dim)
	far := make(Point[T], dim)
	for i := 0; i < dim; i++ {
		if abs(l[i]) < abs(u[i]) {
			near[i] = l[i]
			far[i] = u[i]
		} else {
			near[i] = u[i]
			far[i] = l[i]
		}
	}

	var result T
	for i := 0; i < dim; i++ {
		cand := far.Clone()
		cand[i] = near[i]
		d := cand.SquaredLength()
		if i == 0 || d < result {
			result = d
		}
	}
	return result
}

func abs[T Scalar](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// SortEnvelopes sorts items in place by their envelope's lower bound on the
// given axis.
func SortEnvelopes[T Scalar, E any](axis int, items []E, envelopeOf func(E) Envelope[T]) {
	sortBy(items, func(a, b E) bool {
		return envelopeOf(a).Lower[axis] < envelopeOf(b).Lower[axis]
	})
}

// PartitionEnvelopes partially partitions items so that, after the call, the
// first k items are <= the remaining items by their envelope's lower bound
// on the given axis (an n-th-element selection; order within halves is
// unspecified). It is an O(n) alternative to a full O(n log n) sort, used by
// the OMT bulk loader and the R* split routines.
func PartitionEnvelopes[T Scalar, E any](axis int, items []E, k int, envelopeOf func(E) Envelope[T]) {
	if k <= 0 || k >= len(items) {
		return
	}
	quickselect(envelopeSliceView[T, E]{items: items, axis: axis, envelopeOf: envelopeOf}, k)
}
