package worker

import (
	"context"
	"errors"
	"log/slog"
	"runtime/pprof"
	"sync"

	"github.com/dmitrymomot/telegraph/pkg/logger"
)

// handle is one running background function.
type handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// spawn runs fn in its own goroutine under a cancellable child of ctx. The
// goroutine carries a "worker" pprof label set to name.
func spawn(ctx context.Context, name string, fn func(context.Context) error) *handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &handle{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		defer cancel()

		// Skip the work entirely when the parent context is already done
		if err := ctx.Err(); err != nil {
			h.err = err
			return
		}
		if fn == nil {
			h.err = ErrNilFunc
			return
		}
		pprof.Do(ctx, pprof.Labels("worker", name), func(ctx context.Context) {
			h.err = fn(ctx)
		})
	}()

	return h
}

func (h *handle) alive() bool {
	if h == nil {
		return false
	}
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// stop cancels the worker and waits for it to return.
func (h *handle) stop() error {
	if h == nil {
		return nil
	}
	h.cancel()
	<-h.done
	return h.err
}

// Slot owns at most one live worker and recreates it on demand.
type Slot struct {
	name string
	log  *slog.Logger
	mu   sync.Mutex
	h    *handle
}

// NewSlot returns an empty slot. Its workers are named name in logs and
// goroutine profiles. A nil log discards output.
func NewSlot(name string, log *slog.Logger) *Slot {
	if log == nil {
		log = logger.Discard()
	}
	return &Slot{name: name, log: log.With(slog.String("worker", name))}
}

// Start spawns fn unless a previous worker is still alive.
// It reports whether a new worker was started.
func (s *Slot) Start(ctx context.Context, fn func(context.Context) error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.h.alive() {
		return false
	}
	if fn == nil {
		s.h = spawn(ctx, s.name, nil)
		return true
	}
	s.h = spawn(ctx, s.name, func(ctx context.Context) error {
		err := fn(ctx)
		switch {
		case err == nil, errors.Is(err, context.Canceled):
			s.log.DebugContext(ctx, "worker exited")
		default:
			s.log.WarnContext(ctx, "worker failed", logger.Error(err))
		}
		return err
	})
	s.log.DebugContext(ctx, "worker started")
	return true
}

// Alive reports whether the current worker is running.
func (s *Slot) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.alive()
}

// Stop cancels the current worker, waits for it and discards it. It returns
// the worker function's error, or the context error when the worker never
// ran. The slot lock is not held while waiting so Alive stays responsive.
func (s *Slot) Stop() error {
	s.mu.Lock()
	h := s.h
	s.h = nil
	s.mu.Unlock()

	return h.stop()
}
