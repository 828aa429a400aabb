package postcommit

import (
	"context"
	"sync"
)

// MemoryQueue is an in-process bounded queue. Tasks are lost on restart.
type MemoryQueue struct {
	mu     sync.RWMutex
	ch     chan Envelope
	closed bool
}

func NewMemoryQueue(buffer int) *MemoryQueue {
	if buffer < 1 {
		buffer = 1
	}
	return &MemoryQueue{ch: make(chan Envelope, buffer)}
}

// Push never blocks; a full buffer is reported as ErrQueueFull.
func (q *MemoryQueue) Push(ctx context.Context, env Envelope) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed()
	}

	select {
	case q.ch <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull().WithDetail("capacity", cap(q.ch))
	}
}

func (q *MemoryQueue) Consume(ctx context.Context, _ int, fn func(context.Context, Envelope)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case env, ok := <-q.ch:
			if !ok {
				return nil
			}
			fn(ctx, env)
		}
	}
}

func (q *MemoryQueue) Len() int {
	return len(q.ch)
}

func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	return nil
}
