package rstar

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTree_InsertSingleItem mirrors scenario S1.
func TestTree_InsertSingleItem(t *testing.T) {
	tree := New[float64, testPoint](2)
	tree.Insert(pt(0.02, 0.4))

	assert.Equal(t, 1, tree.Size())
	assert.True(t, tree.Contains(pt(0.02, 0.4)))
	assert.False(t, tree.Contains(pt(0.3, 0.2)))
}

// TestTree_LocateInEnvelope mirrors scenario S3: a tree bulk-loaded from
// [0,0], [0,1], [1,1], queried with two nested envelopes of increasing size.
func TestTree_LocateInEnvelope(t *testing.T) {
	tree := BulkLoad[float64, testPoint](2, []testPoint{pt(0, 0), pt(0, 1), pt(1, 1)})

	e1 := EnvelopeFromCorners(p2(0, 0), p2(0.5, 1))
	assert.Len(t, tree.LocateInEnvelope(e1), 2)

	e2 := EnvelopeFromCorners(p2(0, 0), p2(1, 1))
	assert.Len(t, tree.LocateInEnvelope(e2), 3)
}

func TestTree_LocateInEnvelopeIntersecting_ThreeRectangles(t *testing.T) {
	left := box(p2(0, 0), p2(0.4, 1))
	right := box(p2(0.6, 0), p2(1, 1))
	middle := box(p2(0.25, 0), p2(0.75, 1))
	tree := BulkLoad[float64, testBox](2, []testBox{left, right, middle})

	assert.Len(t, tree.LocateInEnvelopeIntersecting(left.Envelope()), 2)
	assert.Len(t, tree.LocateInEnvelopeIntersecting(middle.Envelope()), 3)

	huge := EnvelopeFromCorners(p2(-100, -100), p2(100, 100))
	assert.Len(t, tree.LocateInEnvelopeIntersecting(huge), 3)
}

func TestTree_InsertThenRemove(t *testing.T) {
	tree := New[float64, testPoint](2)
	tree.Insert(pt(1, 1))
	tree.Insert(pt(2, 2))

	ok := tree.Remove(pt(1, 1))
	assert.True(t, ok)
	assert.Equal(t, 1, tree.Size())
	assert.False(t, tree.Contains(pt(1, 1)))
}

func TestTree_RemoveAtPoint(t *testing.T) {
	tree := New[float64, testPoint](2)
	tree.Insert(pt(1, 1))

	item, ok := tree.RemoveAtPoint(p2(1, 1))
	require.True(t, ok)
	assert.Equal(t, pt(1, 1), item)
	assert.Equal(t, 0, tree.Size())
}

func TestTree_NearestNeighbor(t *testing.T) {
	tree := BulkLoad[float64, testPoint](2, []testPoint{pt(0, 0), pt(10, 10)})
	got, _, ok := tree.NearestNeighbor(p2(1, 1))
	require.True(t, ok)
	assert.Equal(t, pt(0, 0), got)
}

func TestTree_PopNearestNeighbor_DecrementsSize(t *testing.T) {
	tree := BulkLoad[float64, testPoint](2, []testPoint{pt(0, 0), pt(10, 10)})
	_, _, ok := tree.PopNearestNeighbor(p2(1, 1))
	require.True(t, ok)
	assert.Equal(t, 1, tree.Size())
}

func TestTree_All_RoundTrips(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	var items []testPoint
	for i := 0; i < 200; i++ {
		items = append(items, pt(r.Float64()*20, r.Float64()*20))
	}
	tree := New[float64, testPoint](2)
	for _, it := range items {
		tree.Insert(it)
	}
	assert.ElementsMatch(t, items, tree.All())
	assert.Equal(t, len(items), tree.Size())
}

func TestTree_Iter_MatchesAll(t *testing.T) {
	tree := BulkLoad[float64, testPoint](2, []testPoint{pt(0, 0), pt(1, 1), pt(2, 2)})
	var fromIter []testPoint
	it := tree.Iter()
	for {
		item, ok := it.Next()
		if !ok {
			break
		}
		fromIter = append(fromIter, item)
	}
	assert.ElementsMatch(t, tree.All(), fromIter)
}

func TestTree_Height_GrowsWithInsertions(t *testing.T) {
	tree := NewWithParams[float64, testPoint](2, NewParams(2, 4, 1))
	h0 := tree.Height()
	for i := 0; i < 100; i++ {
		tree.Insert(pt(float64(i), float64(i)))
	}
	assert.Greater(t, tree.Height(), h0)
}

func TestTree_VisitInternalNodes_StopsEarly(t *testing.T) {
	tree := BulkLoadWithParams[float64, testPoint](2, bigPointSet(200), NewParams(2, 4, 1))
	visited := 0
	tree.VisitInternalNodes(func(Envelope[float64], int) ControlFlow {
		visited++
		return Stop
	})
	assert.Equal(t, 1, visited)
}

func TestTree_DimAndRoot(t *testing.T) {
	tree := New[float64, testPoint](3)
	assert.Equal(t, 3, tree.Dim())
}

// TestTree_NearestNeighbors mirrors scenario S2: a tree bulk-loaded from
// [0,0], [0,1], [1,0] has two co-nearest items at query [1,1] but only one
// unambiguous nearest item at query [0.01,0.01].
func TestTree_NearestNeighbors(t *testing.T) {
	tree := BulkLoad[float64, testPoint](2, []testPoint{pt(0, 0), pt(0, 1), pt(1, 0)})

	tied := tree.NearestNeighbors(p2(1, 1))
	assert.ElementsMatch(t, []testPoint{pt(0, 1), pt(1, 0)}, tied)

	unambiguous := tree.NearestNeighbors(p2(0.01, 0.01))
	assert.Equal(t, []testPoint{pt(0, 0)}, unambiguous)
}

func TestTree_LocateWithinDistance(t *testing.T) {
	tree := BulkLoad[float64, testPoint](2, []testPoint{pt(0, 0), pt(1, 0), pt(10, 0)})
	got := tree.LocateWithinDistance(p2(0, 0), 1)
	assert.ElementsMatch(t, []testPoint{pt(0, 0), pt(1, 0)}, got)
}

func TestTree_LocateAtPoint_AndLocateAllAtPoint(t *testing.T) {
	tree := New[float64, testPoint](2)
	tree.Insert(pt(1, 1))
	tree.Insert(pt(1, 1))
	tree.Insert(pt(2, 2))

	single, ok := tree.LocateAtPoint(p2(2, 2))
	require.True(t, ok)
	assert.Equal(t, pt(2, 2), single)

	all := tree.LocateAllAtPoint(p2(1, 1))
	assert.Len(t, all, 2)

	_, ok = tree.LocateAtPoint(p2(99, 99))
	assert.False(t, ok)
}

func TestTree_MutableLocateVariants_MutateInPlace(t *testing.T) {
	tree := New[float64, mutablePoint](2)
	tree.Insert(mutablePoint{x: 1, y: 1})
	tree.Insert(mutablePoint{x: 2, y: 2})

	for _, p := range tree.LocateAllAtPointMut(p2(1, 1)) {
		p.tag = "hit"
	}
	got, ok := tree.LocateAtPoint(p2(1, 1))
	require.True(t, ok)
	assert.Equal(t, "hit", got.tag)

	it := tree.IterMut()
	count := 0
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		p.tag = "visited"
		count++
	}
	assert.Equal(t, 2, count)
	for _, item := range tree.All() {
		assert.Equal(t, "visited", item.tag)
	}
}

func bigPointSet(n int) []testPoint {
	r := rand.New(rand.NewSource(int64(n)))
	items := make([]testPoint, n)
	for i := range items {
		items[i] = pt(r.Float64()*100, r.Float64()*100)
	}
	return items
}

func BenchmarkInsert(b *testing.B) {
	items := bigPointSet(b.N)
	tree := New[float64, testPoint](2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(items[i])
	}
}

func BenchmarkNearestNeighbor(b *testing.B) {
	tree := BulkLoad[float64, testPoint](2, bigPointSet(10000))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.NearestNeighbor(p2(50, 50))
	}
}
