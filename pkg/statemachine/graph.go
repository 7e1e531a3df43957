package statemachine

import (
	"fmt"
	"reflect"
	"slices"
)

type state struct {
	name        string
	transitions []*transition // declaration order decides resolver ties
	byName      map[string]*transition
	listeners   []StateListener
	events      map[string]*transition
}

func newState(name string) *state {
	return &state{
		name:   name,
		byName: make(map[string]*transition),
		events: make(map[string]*transition),
	}
}

// terminal states have no way out.
func (s *state) terminal() bool {
	return len(s.transitions) == 0
}

func (s *state) nameOrEmpty() string {
	if s == nil {
		return ""
	}
	return s.name
}

type transition struct {
	name      string
	from      *state
	to        *state
	listeners []TransitionListener
}

// AddState adds a state. The first state ever added becomes both the
// initial and the current state.
func (e *Engine) AddState(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.states[name]; ok {
		return fmt.Errorf("%w: %q", ErrStateExists, name)
	}

	s := newState(name)
	e.states[name] = s
	e.order = append(e.order, s)

	if e.initial == nil {
		e.initial = s
		e.actual = s
	}
	return nil
}

// AddTransition adds a transition named name from one state to another and
// attaches the optional listeners to it. A source state may not have two
// transitions with the same name, nor two transitions to the same target.
func (e *Engine) AddTransition(from, to, name string, listeners ...TransitionListener) error {
	for _, l := range listeners {
		if err := checkListener(l); err != nil {
			return err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	src, err := e.lookup(from)
	if err != nil {
		return err
	}
	dst, err := e.lookup(to)
	if err != nil {
		return err
	}

	if _, ok := src.byName[name]; ok {
		return fmt.Errorf("%w: %q on %q", ErrTransitionExists, name, from)
	}
	for _, t := range src.transitions {
		if t.to == dst {
			return fmt.Errorf("%w: %q -> %q (%q)", ErrDuplicateTarget, from, to, t.name)
		}
	}

	t := &transition{name: name, from: src, to: dst}
	for _, l := range listeners {
		if slices.Contains(t.listeners, l) {
			return fmt.Errorf("%w: transition %q", ErrListenerExists, name)
		}
		t.listeners = append(t.listeners, l)
	}

	src.transitions = append(src.transitions, t)
	src.byName[name] = t
	return nil
}

// AddStateListener attaches l to the named state.
func (e *Engine) AddStateListener(stateName string, l StateListener) error {
	if err := checkListener(l); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.lookup(stateName)
	if err != nil {
		return err
	}
	if slices.Contains(s.listeners, l) {
		return fmt.Errorf("%w: state %q", ErrListenerExists, stateName)
	}
	s.listeners = append(s.listeners, l)
	return nil
}

// AddTransitionListener attaches l to the transition named transitionName
// leaving the state from.
func (e *Engine) AddTransitionListener(from, transitionName string, l TransitionListener) error {
	if err := checkListener(l); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.lookupTransition(from, transitionName)
	if err != nil {
		return err
	}
	if slices.Contains(t.listeners, l) {
		return fmt.Errorf("%w: transition %q on %q", ErrListenerExists, transitionName, from)
	}
	t.listeners = append(t.listeners, l)
	return nil
}

// AddEvent binds event on stateName to an existing transition leaving that
// state. Binding an event name again replaces the previous binding.
func (e *Engine) AddEvent(event, stateName, transitionName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.lookupTransition(stateName, transitionName)
	if err != nil {
		return err
	}
	t.from.events[event] = t
	return nil
}

// SetInitialState changes where the next run starts. It fires no callbacks
// and does not move the current state.
func (e *Engine) SetInitialState(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.lookup(name)
	if err != nil {
		return err
	}
	e.initial = s
	return nil
}

// States returns state names in the order they were added.
func (e *Engine) States() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := make([]string, len(e.order))
	for i, s := range e.order {
		names[i] = s.name
	}
	return names
}

// HasState reports whether name is a known state.
func (e *Engine) HasState(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.states[name]
	return ok
}

// IsTerminal reports whether the named state exists and has no outgoing transitions.
func (e *Engine) IsTerminal(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.states[name]
	return ok && s.terminal()
}

func (e *Engine) lookup(name string) (*state, error) {
	s, ok := e.states[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
	return s, nil
}

func (e *Engine) lookupTransition(from, name string) (*transition, error) {
	s, err := e.lookup(from)
	if err != nil {
		return nil, err
	}
	t, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q on %q", ErrUnknownTransition, name, from)
	}
	return t, nil
}

// checkListener rejects values that cannot be compared for identity;
// comparing them with == would panic.
func checkListener(l any) error {
	if l == nil {
		return ErrNilListener
	}
	v := reflect.ValueOf(l)
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return ErrNilListener
	}
	if !v.Comparable() {
		return ErrListenerNotComparable
	}
	return nil
}
