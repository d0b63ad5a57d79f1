package engine

import (
	"container/heap"

	"github.com/fyerfyer/logicsim/pkg/circuit"
)

// Entry phases within one time unit: all net updates at time t are
// processed before any gate evaluation at time t.
const (
	phaseApply = iota
	phaseEval
)

// entry is one element of the single-list queue: either a pending net
// update or a pending gate evaluation. Net updates order by sequence
// number (insertion order), evaluations by gate index.
type entry struct {
	time  int
	phase int
	order int // Sequence number for updates, gate index for evaluations
	net   int
	value circuit.LogicValue
	gate  int
	seq   int // Identity for cancellation
	force bool
}

// eventQueue is a priority queue keyed by (time, phase, order).
type eventQueue []*entry

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.time != b.time {
		return a.time < b.time
	}
	if a.phase != b.phase {
		return a.phase < b.phase
	}
	return a.order < b.order
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x interface{}) { *q = append(*q, x.(*entry)) }

func (q *eventQueue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

func (q *eventQueue) push(e *entry) { heap.Push(q, e) }

func (q *eventQueue) pop() *entry { return heap.Pop(q).(*entry) }
