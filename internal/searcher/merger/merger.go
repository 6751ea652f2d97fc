// Package merger selects the best-scoring candidates without sorting the full
// candidate set.
package merger

import (
	"container/heap"
)

// Candidate is one verified line awaiting ranking. Seq records encounter
// order and breaks score ties: earlier candidates rank first.
type Candidate struct {
	DocID string `json:"doc_id"`
	Line  int    `json:"line"`
	Text  string `json:"text"`
	Score int    `json:"score"`
	Seq   int    `json:"-"`
}

// ranksAbove reports whether a should be listed before b.
func ranksAbove(a, b Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Seq < b.Seq
}

// TopK returns up to k candidates ordered best first. The order equals a
// stable descending sort by score over the input order of Seq.
func TopK(candidates []Candidate, k int) []Candidate {
	if k <= 0 {
		return []Candidate{}
	}
	h := &candidateHeap{}
	for _, c := range candidates {
		if h.Len() < k {
			heap.Push(h, c)
			continue
		}
		if ranksAbove(c, (*h)[0]) {
			(*h)[0] = c
			heap.Fix(h, 0)
		}
	}
	result := make([]Candidate, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(h).(Candidate)
	}
	return result
}

// candidateHeap keeps the weakest retained candidate at the root.
type candidateHeap []Candidate

func (h candidateHeap) Len() int { return len(h) }

func (h candidateHeap) Less(i, j int) bool { return ranksAbove(h[j], h[i]) }

func (h candidateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x interface{}) {
	*h = append(*h, x.(Candidate))
}

func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
