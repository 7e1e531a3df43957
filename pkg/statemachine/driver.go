package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/telegraph/pkg/logger"
)

// Start launches the background worker that drives the engine toward its
// goal. It is a no-op when the engine is already running, has no states, or
// the previous worker has not exited yet. The current and goal states
// default to the initial state when unset.
func (e *Engine) Start() {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()

	if e.running.Load() || e.worker.Alive() {
		return
	}

	e.mu.Lock()
	if len(e.order) == 0 {
		e.mu.Unlock()
		return
	}
	if e.actual == nil {
		e.actual = e.initial
	}
	if e.goal == nil {
		e.goal = e.initial
	}
	from, goal := e.actual.name, e.goal.name
	e.mu.Unlock()

	runID := uuid.NewString()
	e.running.Store(true)
	e.worker.Start(withRunID(context.Background(), runID), func(ctx context.Context) error {
		e.run(ctx, runID)
		return nil
	})

	e.log.Info("driver started", logger.RunID(runID), logger.State(from), logger.Goal(goal))
}

// Stop halts the background worker. Cancellation only interrupts the
// worker's idle wait; when a listener is running Stop blocks until it
// returns. Listeners receive the worker context and may watch it to return
// early. The graph, listeners and goal are kept, and a later Start resumes
// from the state reached here.
func (e *Engine) Stop() {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()

	wasRunning := e.running.Swap(false)
	_ = e.worker.Stop()

	if wasRunning {
		e.log.Info("driver stopped", logger.State(e.CurrentState()))
	}
}

// IsRunning reports whether the background worker is driving the engine.
func (e *Engine) IsRunning() bool {
	return e.running.Load()
}

// SetGoalState sets the state the engine strives toward. It fails when the
// current state is terminal, name is unknown, or there is no route to it.
// Setting the goal wakes an idle worker immediately.
func (e *Engine) SetGoalState(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.setGoal(name); err != nil {
		return err
	}

	if e.running.Load() {
		select {
		case e.wake <- struct{}{}:
		default:
		}
	}

	e.log.Debug("goal changed", logger.Goal(name), logger.State(e.actual.name))
	return nil
}

// setGoal validates and assigns the goal. Callers hold e.mu.
func (e *Engine) setGoal(name string) error {
	cur := e.actual
	if cur == nil {
		cur = e.initial
	}
	if cur == nil {
		return ErrNoStates
	}
	if cur.terminal() {
		return fmt.Errorf("%w: %q", ErrTerminalState, cur.name)
	}
	target, err := e.lookup(name)
	if err != nil {
		return err
	}
	if nextHop(cur, target) == nil {
		return fmt.Errorf("%w: %q -> %q", ErrNoRoute, cur.name, name)
	}
	e.goal = target
	return nil
}

// run is the worker loop. It exits once the current state is terminal or
// the engine is stopped; a natural exit clears the running flag.
func (e *Engine) run(ctx context.Context, runID string) {
	defer e.running.Store(false)

	timer := time.NewTimer(e.idle)
	defer timer.Stop()

	for e.running.Load() && ctx.Err() == nil {
		moved, terminal := e.advance(ctx, runID)
		if terminal {
			e.log.InfoContext(ctx, "driver finished in terminal state",
				logger.RunID(runID), logger.State(e.CurrentState()))
			return
		}
		if moved {
			continue
		}

		timer.Reset(e.idle)
		select {
		case <-ctx.Done():
			return
		case <-e.wake:
		case <-timer.C:
		}
	}
}

// advance performs at most one step toward the goal.
func (e *Engine) advance(ctx context.Context, runID string) (moved, terminal bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.actual == nil || e.actual.terminal() {
		return false, true
	}
	t := nextHop(e.actual, e.goal)
	if t == nil {
		return false, false
	}
	moved = e.execute(ctx, t, runID, SourceDriver)
	return moved, e.actual.terminal()
}
