package statemachine

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/telegraph/pkg/logger"
	"github.com/dmitrymomot/telegraph/pkg/worker"
)

// Engine is a directed graph of named states that drives itself from its
// current state toward a goal state, one fewest-hop transition at a time.
//
// Every query, mutation and transition serialises on a single mutex that is
// held while listener callbacks run. A listener that blocks therefore stalls
// the whole engine until it returns; clients use this to gate progress on
// external conditions.
type Engine struct {
	mu      sync.Mutex
	states  map[string]*state
	order   []*state
	initial *state
	actual  *state
	goal    *state

	// lifeMu serialises Start, Stop and DriveTo. It is always taken before mu.
	lifeMu  sync.Mutex
	running atomic.Bool
	worker  *worker.Slot
	wake    chan struct{}

	name  string
	idle  time.Duration
	log   *slog.Logger
	feed  *feed
	clock func() time.Time
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	log := o.logger
	if log == nil {
		log = logger.Discard()
	}
	log = log.With(logger.Machine(o.name))

	return &Engine{
		states: make(map[string]*state),
		worker: worker.NewSlot("driver", log),
		wake:   make(chan struct{}, 1),
		name:   o.name,
		idle:   o.idleInterval,
		log:    log,
		feed:   newFeed(o.notifyBuffer),
		clock:  time.Now,
	}
}

// Name returns the diagnostic name of the engine.
func (e *Engine) Name() string {
	return e.name
}

// InitialState returns the name of the state runs start from, or "" before
// any state was added.
func (e *Engine) InitialState() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initial.nameOrEmpty()
}

// CurrentState returns the name of the state the engine occupies.
func (e *Engine) CurrentState() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.actual.nameOrEmpty()
}

// GoalState returns the name of the goal, or "" when none is set.
func (e *Engine) GoalState() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.goal.nameOrEmpty()
}

// Close stops the driver and closes every change subscription.
func (e *Engine) Close() error {
	e.Stop()
	e.feed.close()
	return nil
}
