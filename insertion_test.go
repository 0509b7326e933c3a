package rstar

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoot() *node[float64, testPoint] {
	return newEmptyRoot[float64, testPoint](2)
}

func TestInsertItem_SingleItem(t *testing.T) {
	root := newTestRoot()
	root = insertItem[float64](2, root, pt(1, 1), DefaultParams(), discardLogger())

	require.False(t, root.leaf)
	assert.Equal(t, 1, len(root.children))
	assert.True(t, root.envelope.ContainsPoint(p2(1, 1)))
}

// TestInsertItem_TriggersSplitOnOverflow checks that once a parent of leaves
// exceeds MaxSize, the tree grows a new root with two children, neither
// smaller than MinSize.
func TestInsertItem_TriggersSplitOnOverflow(t *testing.T) {
	params := NewParams(2, 4, 1)
	root := newTestRoot()
	log := discardLogger()

	points := []testPoint{pt(0, 0), pt(1, 0), pt(2, 0), pt(3, 0), pt(4, 0)}
	for _, p := range points {
		root = insertItem[float64](2, root, p, params, log)
	}

	require.False(t, root.leaf)
	require.False(t, root.children[0].leaf)
	for _, c := range root.children {
		assert.GreaterOrEqual(t, len(c.children), params.MinSize)
		assert.LessOrEqual(t, len(c.children), params.MaxSize)
	}
}

// TestInsertItem_AllItemsRetrievable is the fundamental round-trip property:
// every item inserted one at a time must be retrievable afterward, and
// nothing else.
func TestInsertItem_AllItemsRetrievable(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	params := DefaultParams()
	root := newTestRoot()
	log := discardLogger()

	var inserted []testPoint
	for i := 0; i < 500; i++ {
		item := pt(r.Float64()*50, r.Float64()*50)
		inserted = append(inserted, item)
		root = insertItem[float64](2, root, item, params, log)
	}

	got := collectSelection[float64](root, SelectAll[float64, testPoint]())
	assert.ElementsMatch(t, inserted, got)
}

// TestInsertItem_EveryParentWithinSizeBounds checks structural invariant:
// every non-root parent holds between MinSize and MaxSize children.
func TestInsertItem_EveryParentWithinSizeBounds(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	params := DefaultParams()
	root := newTestRoot()
	log := discardLogger()

	for i := 0; i < 300; i++ {
		root = insertItem[float64](2, root, pt(r.Float64()*100, r.Float64()*100), params, log)
	}

	var checkNonRoot func(n *node[float64, testPoint], isRoot bool)
	checkNonRoot = func(n *node[float64, testPoint], isRoot bool) {
		if n.leaf {
			return
		}
		if !isRoot {
			assert.GreaterOrEqual(t, len(n.children), params.MinSize)
			assert.LessOrEqual(t, len(n.children), params.MaxSize)
		}
		for _, c := range n.children {
			checkNonRoot(c, false)
		}
	}
	checkNonRoot(root, true)
}

func TestChooseSubtreeIndex_PrefersFullyContainingChild(t *testing.T) {
	a := newParent[float64, testPoint](2, []*node[float64, testPoint]{
		newLeaf[float64, testPoint](pt(0, 0)), newLeaf[float64, testPoint](pt(5, 5)),
	})
	b := newParent[float64, testPoint](2, []*node[float64, testPoint]{
		newLeaf[float64, testPoint](pt(10, 10)), newLeaf[float64, testPoint](pt(12, 12)),
	})
	parent := newParent[float64, testPoint](2, []*node[float64, testPoint]{a, b})

	// [1,1] lies inside a's envelope [0,0]-[5,5] only.
	idx := chooseSubtreeIndex[float64](parent, newLeaf[float64, testPoint](pt(1, 1)))
	assert.Equal(t, 0, idx)
}

func TestChooseSubtreeIndex_EmptyChildrenForcesInsertHere(t *testing.T) {
	root := newTestRoot()
	idx := chooseSubtreeIndex[float64](root, newLeaf[float64, testPoint](pt(1, 1)))
	assert.Equal(t, len(root.children), idx)
}

func TestNodesForReinsertion_EvictsFarthestFromCenter(t *testing.T) {
	params := NewParams(1, 10, 2)
	children := []*node[float64, testPoint]{
		newLeaf[float64, testPoint](pt(0, 0)),
		newLeaf[float64, testPoint](pt(1, 0)),
		newLeaf[float64, testPoint](pt(10, 0)),
		newLeaf[float64, testPoint](pt(-10, 0)),
	}
	n := newParent[float64, testPoint](2, children)

	evicted := nodesForReinsertion[float64](2, n, params)
	require.Len(t, evicted, 2)
	require.Len(t, n.children, 2)

	var evictedPts []testPoint
	for _, e := range evicted {
		evictedPts = append(evictedPts, e.item)
	}
	assert.ElementsMatch(t, []testPoint{pt(10, 0), pt(-10, 0)}, evictedPts)
}
