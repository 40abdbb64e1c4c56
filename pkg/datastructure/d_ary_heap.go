package datastructure

import (
	"errors"

	"github.com/transportlab/citypath/pkg"
)

type PriorityQueueNode[T comparable] struct {
	rank     float64
	tieBreak float64
	seq      int64
	item     T
	itemPos  int
}

func (p *PriorityQueueNode[T]) GetItem() T {
	return p.item
}

func (p *PriorityQueueNode[T]) GetRank() float64 {
	return p.rank
}

func (p *PriorityQueueNode[T]) SetRank(rank float64) {
	p.rank = rank
}

func (p *PriorityQueueNode[T]) SetTieBreak(tieBreak float64) {
	p.tieBreak = tieBreak
}

func (p *PriorityQueueNode[T]) SetPos(i int) {
	p.itemPos = i
}

func (p *PriorityQueueNode[T]) GetPos() int {
	return p.itemPos
}

func NewPriorityQueueNode[T comparable](rank float64, item T) *PriorityQueueNode[T] {
	return &PriorityQueueNode[T]{rank: rank, item: item}
}

func NewPriorityQueueNodeWithTieBreak[T comparable](rank, tieBreak float64, item T) *PriorityQueueNode[T] {
	return &PriorityQueueNode[T]{rank: rank, tieBreak: tieBreak, item: item}
}

// MinHeap is a d-ary heap priority queue. Equal-rank items pop in insertion
// (FIFO) order: every inserted node gets a monotonically increasing sequence
// number used as the final comparison key, so searches that rely on it are
// deterministic. tieBreak orders between rank and sequence (A* uses it for
// the heuristic value).
type MinHeap[T comparable] struct {
	heap []*PriorityQueueNode[T]
	d    int
	seq  int64
}

func NewBinaryHeap[T comparable]() *MinHeap[T] {
	return NewdAryHeap[T](2)
}

func NewFourAryHeap[T comparable]() *MinHeap[T] {
	return NewdAryHeap[T](4)
}

func NewdAryHeap[T comparable](d int) *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]*PriorityQueueNode[T], 0),
		d:    d,
	}
}

func (h *MinHeap[T]) Preallocate(maxSearchSize int) {
	h.heap = make([]*PriorityQueueNode[T], 0, maxSearchSize)
}

func (h *MinHeap[T]) less(a, b *PriorityQueueNode[T]) bool {
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	if a.tieBreak != b.tieBreak {
		return a.tieBreak < b.tieBreak
	}
	return a.seq < b.seq
}

func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / h.d
}

func (h *MinHeap[T]) heapifyUp(index int) {
	for index != 0 && h.less(h.heap[index], h.heap[h.parent(index)]) {
		h.Swap(index, h.parent(index))
		index = h.parent(index)
	}
}

func (h *MinHeap[T]) heapifyDown(index int) {
	leftMostChild := index*h.d + 1
	if leftMostChild >= len(h.heap) {
		return
	}

	sentinel := leftMostChild + h.d
	if sentinel > len(h.heap) {
		sentinel = len(h.heap)
	}

	smallest := leftMostChild
	for i := leftMostChild + 1; i < sentinel; i++ {
		if h.less(h.heap[i], h.heap[smallest]) {
			smallest = i
		}
	}

	if h.less(h.heap[smallest], h.heap[index]) {
		h.Swap(index, smallest)
		h.heapifyDown(smallest)
	}
}

func (h *MinHeap[T]) Swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]

	h.heap[i].SetPos(i)
	h.heap[j].SetPos(j)
}

func (h *MinHeap[T]) IsEmpty() bool {
	return len(h.heap) == 0
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

func (h *MinHeap[T]) GetMin() (*PriorityQueueNode[T], error) {
	if h.IsEmpty() {
		return &PriorityQueueNode[T]{}, errors.New("heap is empty")
	}
	return h.heap[0], nil
}

func (h *MinHeap[T]) GetMinRank() float64 {
	if h.IsEmpty() {
		return 2 * pkg.INF_WEIGHT
	}
	return h.heap[0].rank
}

func (h *MinHeap[T]) Insert(node *PriorityQueueNode[T]) {
	node.seq = h.seq
	h.seq++
	node.SetPos(len(h.heap))
	h.heap = append(h.heap, node)
	h.heapifyUp(len(h.heap) - 1)
}

func (h *MinHeap[T]) ExtractMin() (*PriorityQueueNode[T], error) {
	if h.IsEmpty() {
		return &PriorityQueueNode[T]{}, errors.New("heap is empty")
	}
	min := h.heap[0]
	last := len(h.heap) - 1
	h.Swap(0, last)
	h.heap = h.heap[:last]
	if last > 0 {
		h.heapifyDown(0)
	}
	return min, nil
}

// DecreaseKey lowers the rank of a node already in the queue. The caller
// must pass the same node pointer it inserted; the node keeps its original
// sequence number so the FIFO tie-break still reflects first discovery.
func (h *MinHeap[T]) DecreaseKey(node *PriorityQueueNode[T], newRank float64) {
	node.SetRank(newRank)
	h.heapifyUp(node.GetPos())
}

func (h *MinHeap[T]) DecreaseKeyWithTieBreak(node *PriorityQueueNode[T], newRank, newTieBreak float64) {
	node.SetRank(newRank)
	node.SetTieBreak(newTieBreak)
	h.heapifyUp(node.GetPos())
}
