package statemachine

import (
	"context"
	"time"
)

// Step describes a transition that is about to be taken.
type Step struct {
	Transition string
	From       string
	To         string
}

// TransitionListener gates a transition. Returning false vetoes it: the
// current state stays put and no state listeners are called. Every listener
// of a transition is called even when an earlier one already vetoed.
//
// Listeners run on the driving goroutine while the engine lock is held, so
// they must not call back into the same Engine.
type TransitionListener interface {
	OnTransition(ctx context.Context, step Step) bool
}

// StateListener observes a state being entered and left.
// The same locking rules as for TransitionListener apply.
type StateListener interface {
	OnEnter(ctx context.Context, state string)
	OnLeave(ctx context.Context, state string)
}

type transitionFunc struct {
	fn func(ctx context.Context, step Step) bool
}

func (t *transitionFunc) OnTransition(ctx context.Context, step Step) bool {
	return t.fn(ctx, step)
}

// TransitionFunc adapts fn to a TransitionListener. Each call returns a new
// listener instance, so the same fn may be attached twice via two calls.
func TransitionFunc(fn func(ctx context.Context, step Step) bool) TransitionListener {
	return &transitionFunc{fn: fn}
}

type stateFuncs struct {
	enter func(ctx context.Context, state string)
	leave func(ctx context.Context, state string)
}

func (s *stateFuncs) OnEnter(ctx context.Context, state string) {
	if s.enter != nil {
		s.enter(ctx, state)
	}
}

func (s *stateFuncs) OnLeave(ctx context.Context, state string) {
	if s.leave != nil {
		s.leave(ctx, state)
	}
}

// StateFuncs adapts a pair of functions to a StateListener. Either may be nil.
func StateFuncs(enter, leave func(ctx context.Context, state string)) StateListener {
	return &stateFuncs{enter: enter, leave: leave}
}

// Source identifies what kind of driving context produced a Change.
type Source string

const (
	// SourceDriver is the engine's own background worker.
	SourceDriver Source = "driver"
	// SourceDrive is a caller running DriveTo.
	SourceDrive Source = "drive"
	// SourceEvent is a caller running FireEvent.
	SourceEvent Source = "event"
)

// Change is published after every successful transition.
type Change struct {
	RunID      string
	Source     Source
	Transition string
	From       string
	To         string
	At         time.Time
}

type runIDKey struct{}

// RunIDFromContext returns the identifier of the run a listener is called from.
func RunIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

func withRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}
