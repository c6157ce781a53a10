package scheduler

import "github.com/viant/kproc/runtime/task"

type entry struct {
	task *task.ControlBlock
	seq  uint64
}

// readyQueue is a container/heap min-heap. Keys are read live from each
// task, so a queued task's stride must only change through Fetch.
type readyQueue struct {
	entries []*entry
	seq     uint64
}

// Before reports whether stride a precedes b. Strides are compared modulo
// 2^64, which stays exact while live strides are less than 2^63 apart.
func Before(a, b uint64) bool {
	return int64(a-b) < 0
}

func less(a, b *entry) bool {
	strideA, strideB := a.task.Stride(), b.task.Stride()
	if strideA != strideB {
		return Before(strideA, strideB)
	}
	return a.seq < b.seq
}

func (q *readyQueue) Len() int { return len(q.entries) }

func (q *readyQueue) Less(i, j int) bool { return less(q.entries[i], q.entries[j]) }

func (q *readyQueue) Swap(i, j int) { q.entries[i], q.entries[j] = q.entries[j], q.entries[i] }

func (q *readyQueue) Push(x any) { q.entries = append(q.entries, x.(*entry)) }

func (q *readyQueue) Pop() any {
	last := len(q.entries) - 1
	ret := q.entries[last]
	q.entries[last] = nil
	q.entries = q.entries[:last]
	return ret
}
