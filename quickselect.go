package rstar

import (
	"math/rand"
	"sort"
)

// envelopeSliceView adapts a slice of items to sort.Interface, ordering by
// the lower bound of each item's envelope on a fixed axis. It is the plumbing
// PartitionEnvelopes uses to drive quickselect without requiring callers to
// hand-write comparators.
type envelopeSliceView[T Scalar, E any] struct {
	items      []E
	axis       int
	envelopeOf func(E) Envelope[T]
}

func (v envelopeSliceView[T, E]) Len() int { return len(v.items) }
func (v envelopeSliceView[T, E]) Less(i, j int) bool {
	return v.envelopeOf(v.items[i]).Lower[v.axis] < v.envelopeOf(v.items[j]).Lower[v.axis]
}
func (v envelopeSliceView[T, E]) Swap(i, j int) {
	v.items[i], v.items[j] = v.items[j], v.items[i]
}

// sortBy sorts items in place using the given less-than comparator.
func sortBy[E any](items []E, less func(a, b E) bool) {
	sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })
}

// quickselect performs a partial sort, ensuring that all elements before 'n' have a smaller value,
// and all elements after 'n' are bigger. This is equivalent to finding the nth smallest element.
//
// The used algorithm is a naive approach, but turned out to have better performance than existing
// libraries offering the same guarantee, and also beat a custom Floyd-Rivest selection
// implementation on this workload.
func quickselect(a sort.Interface, n int) {
	first := 0
	last := a.Len() - 1
	for {
		guess := rand.Intn(last-first+1) + first
		pivotIndex := partition(a, first, last, guess)
		if n == pivotIndex { // found nth element
			return
		} else if n < pivotIndex { // nth element is on the left side
			last = pivotIndex - 1
		} else { // nth element is on the right side
			first = pivotIndex + 1
		}
	}
}

// partition moves all elements smaller than the pivot to its left, and all bigger values to its right.
// Returns the new position of the pivot.
func partition(a sort.Interface, firstIdx, lastIdx, pivotIdx int) int {
	a.Swap(firstIdx, pivotIdx) // move to front
	pivotIdx = firstIdx

	left, right := firstIdx+1, lastIdx

	for left <= right { // move to center
		for left <= lastIdx && a.Less(left, pivotIdx) {
			left++
		}
		for right >= pivotIdx && a.Less(pivotIdx, right) {
			right--
		}
		if left <= right {
			a.Swap(left, right)
			left++
			right--
		}
	}
	a.Swap(pivotIdx, right) // swap into right place
	return right
}
