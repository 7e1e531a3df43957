package statemachine

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/telegraph/pkg/logger"
)

// DriveTo drives the engine to target on the calling goroutine, running the
// same resolve-and-execute loop as the background worker. It refuses with
// ErrRunning while the worker is active. The goal is validated and set the
// same way SetGoalState does it.
//
// The loop ends when no further hop exists, a listener vetoes a transition,
// or ctx is done. DriveTo reports whether the engine ended up at target.
func (e *Engine) DriveTo(ctx context.Context, target string) (bool, error) {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()

	if e.running.Load() {
		return false, ErrRunning
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.actual == nil {
		e.actual = e.initial
	}
	dst, known := e.states[target]
	if known && e.actual == dst {
		e.goal = dst
		return true, nil
	}
	if err := e.setGoal(target); err != nil {
		return false, err
	}

	runID := uuid.NewString()
	ctx = withRunID(ctx, runID)
	e.log.DebugContext(ctx, "drive started",
		logger.RunID(runID), logger.State(e.actual.name), logger.Goal(target))

	for ctx.Err() == nil {
		t := nextHop(e.actual, e.goal)
		if t == nil {
			break
		}
		if !e.execute(ctx, t, runID, SourceDrive) {
			break
		}
	}

	if e.actual == dst {
		return true, nil
	}
	return false, ctx.Err()
}
