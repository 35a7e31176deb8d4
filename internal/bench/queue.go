package bench

import "sync"

// TaskQueue is a thread-safe FIFO of pending tasks. Concurrent Pops never
// hand the same task to two callers, and a popped task is never re-queued.
type TaskQueue struct {
	mu    sync.Mutex
	tasks []Task
}

// NewTaskQueue builds a queue pre-loaded with tasks in order.
func NewTaskQueue(tasks ...Task) *TaskQueue {
	q := &TaskQueue{}
	q.tasks = append(q.tasks, tasks...)
	return q
}

// Push appends a task.
func (q *TaskQueue) Push(t Task) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, t)
}

// Pop removes and returns the oldest task. The second return is false when
// the queue is drained.
func (q *TaskQueue) Pop() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return Task{}, false
	}
	t := q.tasks[0]
	q.tasks = q.tasks[1:]
	return t, true
}

// Len returns the number of pending tasks.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Drained reports whether every task has been handed out.
func (q *TaskQueue) Drained() bool {
	return q.Len() == 0
}
