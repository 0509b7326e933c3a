package rstar

import "github.com/go-logr/logr"

func discardLogger() logr.Logger { return logr.Discard() }

// testPoint is the workhorse stored item for tests: a plain n-dimensional
// point that also implements PointDistance, so nearest-neighbor tests get
// exact (not envelope-bound) distances.
type testPoint struct {
	coords Point[float64]
}

func pt(coords ...float64) testPoint { return testPoint{coords: Point[float64](coords)} }

func (p testPoint) Envelope() Envelope[float64]       { return EnvelopeFromPoint(p.coords) }
func (p testPoint) Distance2(q Point[float64]) float64 { return p.coords.SquaredDistance(q) }
func (p testPoint) ContainsPoint(q Point[float64]) bool {
	return p.coords.Equal(q)
}

func testPointsEqual(a, b testPoint) bool { return a.coords.Equal(b.coords) }

// testBox is an envelope-only item (no PointDistance refinement), used to
// exercise the envelope-distance fallback paths.
type testBox struct {
	lower, upper Point[float64]
}

func box(lower, upper Point[float64]) testBox {
	return testBox{lower: lower, upper: upper}
}

func (b testBox) Envelope() Envelope[float64] {
	return Envelope[float64]{Lower: b.lower, Upper: b.upper}
}

// mutablePoint carries an auxiliary tag alongside its coordinates, so tests
// can verify the *Mut facade methods let a caller update auxiliary fields in
// place through the returned pointer without touching the envelope.
type mutablePoint struct {
	x, y float64
	tag  string
}

func (p mutablePoint) Envelope() Envelope[float64] {
	return EnvelopeFromPoint(Point[float64]{p.x, p.y})
}
