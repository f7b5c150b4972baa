package ordering

import "container/heap"

// readyQueue is a min-heap of node IDs whose dependencies are satisfied.
type readyQueue struct {
	ids  []string
	less func(a, b string) bool
}

func (q *readyQueue) Len() int           { return len(q.ids) }
func (q *readyQueue) Less(i, j int) bool { return q.less(q.ids[i], q.ids[j]) }
func (q *readyQueue) Swap(i, j int)      { q.ids[i], q.ids[j] = q.ids[j], q.ids[i] }
func (q *readyQueue) Push(x any)         { q.ids = append(q.ids, x.(string)) }

func (q *readyQueue) Pop() any {
	old := q.ids
	n := len(old)
	id := old[n-1]
	q.ids = old[:n-1]
	return id
}

func (q *readyQueue) push(id string) { heap.Push(q, id) }

// pop returns the least ID not in skip. IDs emitted early as a cut or a
// forced root can still sit in the heap; they are discarded here.
func (q *readyQueue) pop(skip map[string]bool) (string, bool) {
	for q.Len() > 0 {
		id := heap.Pop(q).(string)
		if !skip[id] {
			return id, true
		}
	}
	return "", false
}
