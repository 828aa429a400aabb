package postcommit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Abraxas-365/talentgate/pkg/logx"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Dispatcher routes queued envelopes to registered handlers on a fixed
// pool of workers.
type Dispatcher struct {
	queue   Queue
	workers int
	timeout time.Duration

	mu       sync.RWMutex
	handlers map[string]Handler

	cancel context.CancelFunc
	group  *errgroup.Group
}

func NewDispatcher(queue Queue, workers int, timeout time.Duration) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		queue:    queue,
		workers:  workers,
		timeout:  timeout,
		handlers: make(map[string]Handler),
	}
}

// Register binds a handler to a task kind, replacing any previous one.
func (d *Dispatcher) Register(kind string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = h
}

// Enqueue encodes payload and pushes it. Call it only after the write the
// task depends on has committed.
func (d *Dispatcher) Enqueue(ctx context.Context, kind string, payload any) error {
	d.mu.RLock()
	_, known := d.handlers[kind]
	d.mu.RUnlock()
	if !known {
		return ErrUnknownKind(kind)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return ErrEncodeFailed(err).WithDetail("kind", kind)
	}

	env := Envelope{
		ID:         uuid.NewString(),
		Kind:       kind,
		Payload:    raw,
		EnqueuedAt: time.Now().UTC(),
	}
	return d.queue.Push(ctx, env)
}

// Start launches the workers. They stop when ctx is cancelled or Stop is called.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.group != nil {
		return ErrAlreadyStarted()
	}

	ctx, d.cancel = context.WithCancel(ctx)
	d.group, ctx = errgroup.WithContext(ctx)

	for worker := range d.workers {
		d.group.Go(func() error {
			return d.queue.Consume(ctx, worker, d.handle)
		})
	}

	logx.Infof("Post-commit dispatcher started with %d workers", d.workers)
	return nil
}

// Stop cancels the workers and waits for in-flight tasks to return.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	cancel, group := d.cancel, d.group
	d.cancel, d.group = nil, nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if err := group.Wait(); err != nil {
		logx.Errorf("Post-commit worker exited with error: %v", err)
	}
	logx.Info("Post-commit dispatcher stopped")
}

func (d *Dispatcher) handle(ctx context.Context, env Envelope) {
	d.mu.RLock()
	h, ok := d.handlers[env.Kind]
	d.mu.RUnlock()

	fields := logx.Fields{"task_id": env.ID, "kind": env.Kind}
	if !ok {
		logx.WithFields(fields).Warn("Dropping task with no handler")
		return
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			logx.WithFields(fields).Errorf("Post-commit task panicked: %v", r)
		}
	}()

	start := time.Now()
	if err := h(ctx, env.Payload); err != nil {
		logx.WithFields(fields).WithFields(logx.Fields{"error": err.Error()}).Error("Post-commit task failed")
		return
	}
	logx.WithFields(fields).Debugf("Post-commit task done in %s", time.Since(start))
}
