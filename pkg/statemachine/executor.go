package statemachine

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/telegraph/pkg/logger"
)

// execute takes t from the current state. It must be called with e.mu held
// and reports whether the current state changed.
func (e *Engine) execute(ctx context.Context, t *transition, runID string, src Source) bool {
	// The graph may have changed since t was resolved
	if e.actual == nil || e.actual.byName[t.name] != t {
		return false
	}

	from := e.actual
	step := Step{Transition: t.name, From: from.name, To: t.to.name}

	vetoes := 0
	for _, l := range t.listeners {
		if !l.OnTransition(ctx, step) {
			vetoes++
		}
	}
	if vetoes > 0 {
		e.log.DebugContext(ctx, "transition rejected",
			logger.Transition(t.name),
			logger.From(from.name),
			logger.To(t.to.name),
			logger.RunID(runID),
			logger.Source(string(src)),
			slog.Int("vetoes", vetoes),
		)
		return false
	}

	for _, l := range from.listeners {
		l.OnLeave(ctx, from.name)
	}

	e.actual = t.to

	for _, l := range t.to.listeners {
		l.OnEnter(ctx, t.to.name)
	}

	e.log.DebugContext(ctx, "transition taken",
		logger.Transition(t.name),
		logger.From(from.name),
		logger.To(t.to.name),
		logger.RunID(runID),
		logger.Source(string(src)),
	)

	e.feed.publish(Change{
		RunID:      runID,
		Source:     src,
		Transition: t.name,
		From:       from.name,
		To:         t.to.name,
		At:         e.clock(),
	})
	return true
}
