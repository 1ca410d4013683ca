// internal/sched/queue.go

package sched

import (
	"sync"

	"github.com/emirpasic/gods/trees/redblacktree"
)

// TaskQueue holds pending one-shot tasks ordered by priority. Within one
// priority band tasks come out in insertion order; across bands the higher
// priority always comes out first regardless of insertion order.
type TaskQueue struct {
	mu      sync.Mutex // protects the tree and counters
	rbt     *redblacktree.Tree
	nextSeq uint64
	nextID  TaskID
}

// NewTaskQueue creates an empty queue.
func NewTaskQueue() *TaskQueue {
	return &TaskQueue{
		rbt: redblacktree.NewWith(queueCmp),
	}
}

// Push enqueues a task, assigning its ID and insertion sequence.
// Enqueueing never fails; a bad action only surfaces when the task runs.
func (q *TaskQueue) Push(t *Task) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextID++
	q.nextSeq++
	t.ID = q.nextID
	t.seq = q.nextSeq
	q.rbt.Put(queueKey{priority: t.Priority, seq: t.seq}, t)
}

// PeekPriority returns the best pending priority without removing the task.
// The bool is false when the queue is empty.
func (q *TaskQueue) PeekPriority() (Priority, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	node := q.rbt.Left()
	if node == nil {
		return 0, false
	}
	return node.Key.(queueKey).priority, true
}

// PopIfPriority removes and returns the oldest task at priority p, or nil
// if the best pending task is not at exactly that priority.
func (q *TaskQueue) PopIfPriority(p Priority) *Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	node := q.rbt.Left()
	if node == nil {
		return nil
	}
	key := node.Key.(queueKey)
	if key.priority != p {
		return nil
	}
	t := node.Value.(*Task)
	q.rbt.Remove(key)
	return t
}

// Len returns the number of pending tasks.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.rbt.Size()
}

// queueKey orders the red-black tree: highest priority first, then oldest
// insertion first within a band.
type queueKey struct {
	priority Priority
	seq      uint64
}

func queueCmp(a, b any) int {
	ka, kb := a.(queueKey), b.(queueKey)
	switch {
	case ka.priority > kb.priority:
		return -1
	case ka.priority < kb.priority:
		return 1
	case ka.seq < kb.seq:
		return -1
	case ka.seq > kb.seq:
		return 1
	default:
		return 0
	}
}
