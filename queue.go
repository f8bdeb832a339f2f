package formstate

import "sync"

// taskQueue is the deferred-execution primitive backing the engine's
// "defer to end of current synchronous turn" ordering contract: work
// enqueued while a drain is running executes in that same drain, after the
// tasks already queued. Taint propagation therefore settles before dependent
// error-display decisions run.
type taskQueue struct {
	mu       sync.Mutex
	tasks    []func()
	draining bool
}

func (q *taskQueue) enqueue(fn func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()
}

// drain runs queued tasks until the queue is empty. Nested drains collapse
// into the outermost one.
func (q *taskQueue) drain() {
	q.mu.Lock()
	if q.draining {
		q.mu.Unlock()
		return
	}
	q.draining = true
	for len(q.tasks) > 0 {
		fn := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()
		fn()
		q.mu.Lock()
	}
	q.draining = false
	q.mu.Unlock()
}
