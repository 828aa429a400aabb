// Package postcommit runs side effects after a write has committed. The
// request path enqueues a task and returns; workers execute it later.
package postcommit

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Abraxas-365/talentgate/pkg/errx"
)

// Envelope is a queued task.
type Envelope struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// Handler executes one task kind. Returned errors are logged, not retried.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Queue carries envelopes from producers to workers.
type Queue interface {
	Push(ctx context.Context, env Envelope) error
	// Consume delivers envelopes to fn until ctx is done. worker
	// distinguishes concurrent consumers of the same queue.
	Consume(ctx context.Context, worker int, fn func(context.Context, Envelope)) error
	Close() error
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("POSTCOMMIT")

var (
	CodeQueueFull     = ErrRegistry.Register("QUEUE_FULL", errx.TypeInternal, http.StatusServiceUnavailable, "Task queue is full")
	CodeQueueClosed   = ErrRegistry.Register("QUEUE_CLOSED", errx.TypeInternal, http.StatusServiceUnavailable, "Task queue is closed")
	CodeEncodeFailed  = ErrRegistry.Register("ENCODE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Task payload could not be encoded")
	CodeUnknownKind   = ErrRegistry.Register("UNKNOWN_KIND", errx.TypeInternal, http.StatusInternalServerError, "No handler registered for task kind")
	CodeAlreadyActive = ErrRegistry.Register("ALREADY_STARTED", errx.TypeInternal, http.StatusInternalServerError, "Dispatcher already started")
)

func ErrQueueFull() *errx.Error {
	return ErrRegistry.New(CodeQueueFull)
}

func ErrQueueClosed() *errx.Error {
	return ErrRegistry.New(CodeQueueClosed)
}

func ErrEncodeFailed(err error) *errx.Error {
	return ErrRegistry.New(CodeEncodeFailed).WithCause(err)
}

func ErrUnknownKind(kind string) *errx.Error {
	return ErrRegistry.New(CodeUnknownKind).WithDetail("kind", kind)
}

func ErrAlreadyStarted() *errx.Error {
	return ErrRegistry.New(CodeAlreadyActive)
}
