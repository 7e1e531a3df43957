package statemachine

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/telegraph/pkg/logger"
)

// FireEvent applies event to the current state. While the current state
// binds event, the bound transition is executed and the new state is checked
// for the same event, so one call may walk across several states. Events
// not bound on the current state are dropped, not queued.
//
// The cascade stops early when a listener vetoes a transition or ctx is
// done. FireEvent returns the number of transitions taken.
func (e *Engine) FireEvent(ctx context.Context, event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.actual == nil {
		return 0
	}
	if _, ok := e.actual.events[event]; !ok {
		e.log.DebugContext(ctx, "event ignored", logger.Event(event), logger.State(e.actual.name))
		return 0
	}

	runID := uuid.NewString()
	ctx = withRunID(ctx, runID)

	taken := 0
	for ctx.Err() == nil {
		t, ok := e.actual.events[event]
		if !ok {
			break
		}
		if !e.execute(ctx, t, runID, SourceEvent) {
			break
		}
		taken++
	}
	return taken
}
