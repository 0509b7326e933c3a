package rstar

import (
	"fmt"
	"reflect"
)

// Scalar is the coordinate type a tree is generic over. Only floating-point
// kinds are supported: the empty-envelope representation needs +Inf/-Inf
// (see Envelope), which integers cannot represent.
type Scalar interface {
	~float32 | ~float64
}

// zero and one are plain conversions. Go generics have no notion of a
// "Bounded" trait, so maxValue switches at run time on the float kind of T
// (which also covers named types such as `type meters float64`), and
// minValue is its negation.
func zero[T Scalar]() T { return T(0) }

func one[T Scalar]() T { return T(1) }

func maxValue[T Scalar]() T {
	var z T
	switch reflect.TypeOf(z).Kind() {
	case reflect.Float32:
		return T(maxFloat32)
	case reflect.Float64:
		var v float64 = maxFloat64
		return T(v)
	default:
		panic(fmt.Sprintf("rstar: unsupported scalar type %T", z))
	}
}

func minValue[T Scalar]() T {
	return -maxValue[T]()
}

const (
	maxFloat32 = 3.40282346638528859811704183484516925440e+38
	maxFloat64 = 1.797693134862315708145274237317043567981e+308
)

// Point is a fixed-dimensional coordinate tuple. Its dimension is decided at
// construction time (via NewPoint) rather than being a compile-time constant
// of the type: Go has no const-generic array length, so the dimension is
// carried as the length of the backing slice instead, per the "generic
// container keyed on the dimension as a small runtime integer" fallback.
type Point[T Scalar] []T

// NewPoint builds a Point of the given dimension using an index-mapped
// generator function, e.g. NewPoint(3, func(i int) float64 { return coords[i] }).
// Panics if dim < 2.
func NewPoint[T Scalar](dim int, gen func(i int) T) Point[T] {
	if dim < 2 {
		panic(fmt.Sprintf("rstar: point dimension must be >= 2, got %d", dim))
	}
	p := make(Point[T], dim)
	for i := range p {
		p[i] = gen(i)
	}
	return p
}

// fill returns a Point of the given dimension with every coordinate set to v.
func fill[T Scalar](dim int, v T) Point[T] {
	return NewPoint(dim, func(int) T { return v })
}

// Dim returns the point's dimension.
func (p Point[T]) Dim() int { return len(p) }

// Nth returns the nth coordinate.
func (p Point[T]) Nth(i int) T { return p[i] }

// SetNth writes the nth coordinate, returning the modified point for
// chaining (Point is a slice, so this also mutates the backing array).
func (p Point[T]) SetNth(i int, v T) Point[T] {
	p[i] = v
	return p
}

// Clone returns an independent copy.
func (p Point[T]) Clone() Point[T] {
	out := make(Point[T], len(p))
	copy(out, p)
	return out
}

func (p Point[T]) componentWise(q Point[T], f func(a, b T) T) Point[T] {
	return NewPoint(p.Dim(), func(i int) T { return f(p[i], q[i]) })
}

// MinPoint returns the component-wise minimum of p and q.
func (p Point[T]) MinPoint(q Point[T]) Point[T] {
	return p.componentWise(q, func(a, b T) T {
		if a < b {
			return a
		}
		return b
	})
}

// MaxPoint returns the component-wise maximum of p and q.
func (p Point[T]) MaxPoint(q Point[T]) Point[T] {
	return p.componentWise(q, func(a, b T) T {
		if a > b {
			return a
		}
		return b
	})
}

// Add returns the component-wise sum of p and q.
func (p Point[T]) Add(q Point[T]) Point[T] {
	return p.componentWise(q, func(a, b T) T { return a + b })
}

// Sub returns the component-wise difference p - q.
func (p Point[T]) Sub(q Point[T]) Point[T] {
	return p.componentWise(q, func(a, b T) T { return a - b })
}

// Mul returns p scaled component-wise by s.
func (p Point[T]) Mul(s T) Point[T] {
	return NewPoint(p.Dim(), func(i int) T { return p[i] * s })
}

// Dot returns the dot product of p and q.
func (p Point[T]) Dot(q Point[T]) T {
	return p.Fold(zero[T](), func(acc T, i int) T { return acc + p[i]*q[i] })
}

// Fold reduces over the point's coordinates in axis order.
func (p Point[T]) Fold(init T, f func(acc T, i int) T) T {
	acc := init
	for i := range p {
		acc = f(acc, i)
	}
	return acc
}

// SquaredLength returns the squared Euclidean length of p.
func (p Point[T]) SquaredLength() T {
	return p.Fold(zero[T](), func(acc T, i int) T { return acc + p[i]*p[i] })
}

// SquaredDistance returns the squared Euclidean distance between p and q.
func (p Point[T]) SquaredDistance(q Point[T]) T {
	return p.Sub(q).SquaredLength()
}

// Equal reports whether p and q have the same dimension and coordinates.
func (p Point[T]) Equal(q Point[T]) bool {
	if p.Dim() != q.Dim() {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}
