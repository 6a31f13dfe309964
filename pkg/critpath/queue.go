package critpath

import "sync"

// queue is an unbounded multi-producer, single-consumer FIFO.
// push never blocks. After close, push is a no-op and pop reports false.
type queue struct {
	mu     sync.Mutex
	items  []Signal
	closed bool
	wake   chan struct{} // capacity 1; one consumer
}

func newQueue() *queue {
	return &queue{wake: make(chan struct{}, 1)}
}

// push enqueues s and reports whether it was accepted.
func (q *queue) push(s Signal) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, s)
	q.mu.Unlock()

	q.notify()
	return true
}

// pop blocks until a signal is available or the queue is closed.
func (q *queue) pop() (Signal, bool) {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return nil, false
		}
		if len(q.items) > 0 {
			s := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			q.mu.Unlock()
			return s, true
		}
		q.mu.Unlock()
		<-q.wake
	}
}

// close drops pending signals and rejects new ones.
func (q *queue) close() {
	q.mu.Lock()
	q.closed = true
	q.items = nil
	q.mu.Unlock()
	q.notify()
}

func (q *queue) notify() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Sender reports signals to a build's listener. It is a small value: copy
// it freely and share it across goroutines. The zero Sender discards
// everything.
type Sender struct {
	q *queue
}

// Signal enqueues s. It never blocks and never fails. Signals sent after
// the listener stopped, and nil signals, are discarded. Pointer signals are
// enqueued by value.
func (s Sender) Signal(sig Signal) {
	if s.q == nil {
		return
	}
	sig = valueOf(sig)
	if sig == nil {
		return
	}
	s.q.push(sig)
}

// Enabled reports whether s is connected to a listener.
func (s Sender) Enabled() bool {
	return s.q != nil
}
