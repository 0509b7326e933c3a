package rstar

import "container/heap"

// nnEntry is one pending candidate in the best-first nearest-neighbor
// search: either an unexpanded subtree (n != nil) or a concrete item ready
// to be yielded, ranked by dist2 - MINDIST for a subtree, exact squared
// distance for an item.
type nnEntry[T Scalar, O RTreeObject[T]] struct {
	dist2  T
	isItem bool
	item   O
	n      *node[T, O]
}

// nnHeap is a container/heap.Interface min-heap ordered by ascending dist2.
// A small-stack-backed heap that only spills to a growable backing store
// past some inline capacity (as the reference implementation does) has no
// clean Go equivalent without unsafe tricks; this uses a plain
// preallocated-capacity slice throughout instead, trading a small constant
// factor for simplicity.
type nnHeap[T Scalar, O RTreeObject[T]] []nnEntry[T, O]

func (h nnHeap[T, O]) Len() int            { return len(h) }
func (h nnHeap[T, O]) Less(i, j int) bool  { return h[i].dist2 < h[j].dist2 }
func (h nnHeap[T, O]) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nnHeap[T, O]) Push(x any)         { *h = append(*h, x.(nnEntry[T, O])) }
func (h *nnHeap[T, O]) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func newNNHeap[T Scalar, O RTreeObject[T]]() *nnHeap[T, O] {
	h := make(nnHeap[T, O], 0, 16)
	return &h
}

func (h *nnHeap[T, O]) pushEntry(e nnEntry[T, O]) { heap.Push(h, e) }

func (h *nnHeap[T, O]) popEntry() nnEntry[T, O] { return heap.Pop(h).(nnEntry[T, O]) }
