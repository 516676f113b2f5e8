// Package resource implements the remote-resource lifecycle shared by the
// screens: idle, loading, loaded or failed, driven by a fetch function.
package resource

import (
	"context"
	"sync"

	apperrors "github.com/utafrali/EcommerceGo/storefront/pkg/errors"
)

// Status is the lifecycle state of a Resource.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

// FetchFunc produces the resource value. It must honour ctx cancellation.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Snapshot is an immutable copy of a Resource's state.
type Snapshot[T any] struct {
	Status Status
	// Value is set only when Status is StatusLoaded.
	Value T
	// Message is the user-facing failure text when Status is StatusFailed.
	Message string
	// Err is the underlying failure, kept for status mapping.
	Err error
}

// Loading reports whether a fetch is in flight. An idle resource counts as
// loading because its first fetch is about to start.
func (s Snapshot[T]) Loading() bool {
	return s.Status == StatusLoading || s.Status == StatusIdle
}

// Resource holds the state of one remote value. Every Start bumps a
// generation counter; a fetch whose generation is no longer current has its
// result dropped and its context cancelled, so only the latest request can
// ever settle the state.
type Resource[T any] struct {
	mu       sync.Mutex
	fallback string
	gen      uint64
	cancel   context.CancelFunc
	fetch    FetchFunc[T]
	snap     Snapshot[T]
}

// New creates an idle resource. fallback is the failure message used when an
// error carries no text of its own.
func New[T any](fallback string) *Resource[T] {
	return &Resource[T]{
		fallback: fallback,
		snap:     Snapshot[T]{Status: StatusIdle},
	}
}

// Snapshot returns the current state.
func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// Start moves the resource to loading, supersedes any fetch in flight and
// runs fetch in a goroutine. The state change happens before Start returns.
// The returned channel yields the snapshot once this fetch settles; if it was
// superseded meanwhile, the snapshot is whatever is current at that moment.
func (r *Resource[T]) Start(ctx context.Context, fetch FetchFunc[T]) <-chan Snapshot[T] {
	r.mu.Lock()
	gen, fctx, cancel := r.begin(ctx, fetch)
	r.mu.Unlock()

	return r.run(gen, fctx, cancel, fetch)
}

// Load is the blocking form of Start.
func (r *Resource[T]) Load(ctx context.Context, fetch FetchFunc[T]) Snapshot[T] {
	return <-r.Start(ctx, fetch)
}

// Retry re-runs the most recent fetch. Before any fetch has been started it
// does nothing and the channel yields the current (idle) snapshot.
func (r *Resource[T]) Retry(ctx context.Context) <-chan Snapshot[T] {
	r.mu.Lock()
	fetch := r.fetch
	if fetch == nil {
		snap := r.snap
		r.mu.Unlock()
		return ready(snap)
	}
	gen, fctx, cancel := r.begin(ctx, fetch)
	r.mu.Unlock()

	return r.run(gen, fctx, cancel, fetch)
}

// Reset cancels any fetch in flight and returns to idle. The last fetch is
// forgotten, so a later Retry is a no-op.
func (r *Resource[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.fetch = nil
	r.snap = Snapshot[T]{Status: StatusIdle}
}

// begin must be called with r.mu held.
func (r *Resource[T]) begin(ctx context.Context, fetch FetchFunc[T]) (uint64, context.Context, context.CancelFunc) {
	if r.cancel != nil {
		r.cancel()
	}
	r.gen++
	fctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.fetch = fetch
	r.snap = Snapshot[T]{Status: StatusLoading}
	return r.gen, fctx, cancel
}

func (r *Resource[T]) run(gen uint64, ctx context.Context, cancel context.CancelFunc, fetch FetchFunc[T]) <-chan Snapshot[T] {
	done := make(chan Snapshot[T], 1)
	go func() {
		defer cancel()
		v, err := fetch(ctx)
		done <- r.settle(gen, v, err)
	}()
	return done
}

func (r *Resource[T]) settle(gen uint64, v T, err error) Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.gen {
		return r.snap
	}
	r.cancel = nil

	if err != nil {
		msg := apperrors.Message(err)
		if msg == "" {
			msg = r.fallback
		}
		r.snap = Snapshot[T]{Status: StatusFailed, Message: msg, Err: err}
		return r.snap
	}

	r.snap = Snapshot[T]{Status: StatusLoaded, Value: v}
	return r.snap
}

func ready[T any](s Snapshot[T]) <-chan Snapshot[T] {
	ch := make(chan Snapshot[T], 1)
	ch <- s
	return ch
}
