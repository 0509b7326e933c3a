package rstar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNNHeap_PopsInAscendingDistanceOrder(t *testing.T) {
	h := newNNHeap[float64, testPoint]()
	h.pushEntry(nnEntry[float64, testPoint]{dist2: 5, isItem: true, item: pt(0, 0)})
	h.pushEntry(nnEntry[float64, testPoint]{dist2: 1, isItem: true, item: pt(1, 1)})
	h.pushEntry(nnEntry[float64, testPoint]{dist2: 3, isItem: true, item: pt(2, 2)})

	var order []float64
	for h.Len() > 0 {
		order = append(order, h.popEntry().dist2)
	}
	assert.Equal(t, []float64{1, 3, 5}, order)
}

func TestNNHeap_Empty(t *testing.T) {
	h := newNNHeap[float64, testPoint]()
	assert.Equal(t, 0, h.Len())
}
