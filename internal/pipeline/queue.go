package pipeline

import "time"

// BoundedQueue is a thread-safe, capacity-bounded FIFO. Put blocks while the
// queue is full; Take blocks while it is empty. It is the concrete type
// behind both the image queue (ImageRecord) and the result queue (Result).
//
// Implemented as a buffered channel rather than a hand-rolled
// mutex+condvar ring buffer: the teacher's worker pools (RqPipeline,
// imageDownloadWorker) all move work between stages over channels, and a
// buffered channel already gives FIFO order, blocking Put/Take, and a
// race-free Size() via len().
type BoundedQueue[T any] struct {
	ch chan T
}

// NewBoundedQueue constructs a queue with the given capacity. Capacity must
// be a positive integer; callers (the Builder) are responsible for
// validating and defaulting it before construction.
func NewBoundedQueue[T any](capacity int) *BoundedQueue[T] {
	return &BoundedQueue[T]{ch: make(chan T, capacity)}
}

// Put enqueues v, blocking while the queue is at capacity.
func (q *BoundedQueue[T]) Put(v T) {
	q.ch <- v
}

// PutWithCancel enqueues v, blocking while the queue is at capacity, but
// also observes a cancellation channel. It reports whether the enqueue
// happened; false means cancel fired first and v was not enqueued.
func (q *BoundedQueue[T]) PutWithCancel(v T, cancel <-chan struct{}) bool {
	select {
	case q.ch <- v:
		return true
	case <-cancel:
		return false
	}
}

// TryTake dequeues the next value without blocking. ok is false if the
// queue was empty.
func (q *BoundedQueue[T]) TryTake() (v T, ok bool) {
	select {
	case v, ok = <-q.ch:
		return v, ok
	default:
		return v, false
	}
}

// TryPut enqueues v without blocking. It reports whether the enqueue
// succeeded; false means the queue was full and v was dropped. Used by the
// remote source's downloader jobs, which discard rather than block.
func (q *BoundedQueue[T]) TryPut(v T) bool {
	select {
	case q.ch <- v:
		return true
	default:
		return false
	}
}

// Take dequeues the next value, blocking while the queue is empty. The
// second return value is false if the queue's channel was closed and
// drained.
func (q *BoundedQueue[T]) Take() (T, bool) {
	v, ok := <-q.ch
	return v, ok
}

// TakeWithCancel blocks for the next value but also observes a cancellation
// channel, returning ok=false immediately if it fires first.
func (q *BoundedQueue[T]) TakeWithCancel(cancel <-chan struct{}) (v T, ok bool) {
	select {
	case v, ok = <-q.ch:
		return v, ok
	case <-cancel:
		return v, false
	}
}

// TakeTimeout blocks for the next value up to d. ok is false on timeout.
func (q *BoundedQueue[T]) TakeTimeout(d time.Duration) (v T, ok bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case v, ok = <-q.ch:
		return v, ok
	case <-timer.C:
		return v, false
	}
}

// Size returns the current number of queued items. Advisory only: in the
// presence of concurrent Put/Take it may be stale the instant it returns,
// but that matches the spec's "while queue.size() < capacity" idle-loop
// contract, which tolerates races at the boundary.
func (q *BoundedQueue[T]) Size() int {
	return len(q.ch)
}

// Capacity returns the queue's fixed capacity.
func (q *BoundedQueue[T]) Capacity() int {
	return cap(q.ch)
}

// Close closes the underlying channel. Only the producer side should call
// this, and only once.
func (q *BoundedQueue[T]) Close() {
	close(q.ch)
}
