package apitest

import (
	"sync"

	"github.com/gammazero/deque"
)

// producer is a queued response. fn holds a Producer[T, E] for the result
// type it was enqueued with.
type producer struct {
	fn     any
	result ResultType
}

// responseQueue is the FIFO of producers of one endpoint. Push and pop are
// atomic with respect to each other; no lock is held while a producer runs.
type responseQueue struct {
	items    *deque.Deque[producer]
	declared ResultType
	key      EndpointKey
	owner    string
	mu       sync.Mutex
}

func newResponseQueue(m Method) *responseQueue {
	return &responseQueue{
		key:      m.Key(),
		owner:    m.Owner,
		declared: *m.Result,
		items:    deque.New[producer](),
	}
}

func (q *responseQueue) push(p producer) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items.PushBack(p)
}

func (q *responseQueue) pop() (producer, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.items.Len() == 0 {
		return producer{}, false
	}

	return q.items.PopFront(), true
}

func (q *responseQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.items.Len()
}
