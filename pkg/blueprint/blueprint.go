package blueprint

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/telegraph/pkg/statemachine"
)

// Blueprint is the serialisable shape of an engine's graph.
type Blueprint struct {
	Name        string       `yaml:"name,omitempty"`
	Initial     string       `yaml:"initial,omitempty"`
	Goal        string       `yaml:"goal,omitempty"`
	States      []string     `yaml:"states"`
	Transitions []Transition `yaml:"transitions,omitempty"`
	Events      []Event      `yaml:"events,omitempty"`
}

// Transition is one edge of the graph.
type Transition struct {
	Name string `yaml:"name"`
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Event binds an event name on a state to one of its transitions.
type Event struct {
	Name       string `yaml:"name"`
	State      string `yaml:"state"`
	Transition string `yaml:"transition"`
}

// Parse decodes and validates a YAML blueprint.
func Parse(data []byte) (*Blueprint, error) {
	var bp Blueprint
	if err := yaml.Unmarshal(data, &bp); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	return &bp, nil
}

// Load reads and parses the blueprint at path.
func Load(path string) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	return Parse(data)
}

// Validate checks the blueprint for references to undeclared states and
// transitions. Graph rules such as duplicate targets are left to the engine.
func (bp *Blueprint) Validate() error {
	var errs []error

	if len(bp.States) == 0 {
		errs = append(errs, errors.New("no states declared"))
	}

	declared := make(map[string]bool, len(bp.States))
	for _, s := range bp.States {
		if s == "" {
			errs = append(errs, errors.New("empty state name"))
			continue
		}
		if declared[s] {
			errs = append(errs, fmt.Errorf("state %q declared twice", s))
		}
		declared[s] = true
	}

	type edge struct{ from, name string }
	edges := make(map[edge]bool, len(bp.Transitions))
	for i, t := range bp.Transitions {
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("transitions[%d]: empty name", i))
		}
		if !declared[t.From] {
			errs = append(errs, fmt.Errorf("transitions[%d] %q: unknown source state %q", i, t.Name, t.From))
		}
		if !declared[t.To] {
			errs = append(errs, fmt.Errorf("transitions[%d] %q: unknown target state %q", i, t.Name, t.To))
		}
		edges[edge{t.From, t.Name}] = true
	}

	for i, ev := range bp.Events {
		if ev.Name == "" {
			errs = append(errs, fmt.Errorf("events[%d]: empty name", i))
		}
		if !edges[edge{ev.State, ev.Transition}] {
			errs = append(errs, fmt.Errorf("events[%d] %q: transition %q does not leave state %q", i, ev.Name, ev.Transition, ev.State))
		}
	}

	if bp.Initial != "" && !declared[bp.Initial] {
		errs = append(errs, fmt.Errorf("unknown initial state %q", bp.Initial))
	}
	if bp.Goal != "" && !declared[bp.Goal] {
		errs = append(errs, fmt.Errorf("unknown goal state %q", bp.Goal))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidBlueprint}, errs...)...)
	}
	return nil
}

// Apply adds the blueprint's graph to e: states, transitions, events, then
// the initial state and finally the goal. The initial state is added before
// the others so that a fresh engine also starts out in it. Apply stops at the
// first rejected call; whatever was added before stays, since the engine
// never removes.
func (bp *Blueprint) Apply(e *statemachine.Engine) error {
	for _, s := range bp.stateOrder() {
		if err := e.AddState(s); err != nil {
			return errors.Join(ErrApplyFailed, err)
		}
	}
	for _, t := range bp.Transitions {
		if err := e.AddTransition(t.From, t.To, t.Name); err != nil {
			return errors.Join(ErrApplyFailed, err)
		}
	}
	for _, ev := range bp.Events {
		if err := e.AddEvent(ev.Name, ev.State, ev.Transition); err != nil {
			return errors.Join(ErrApplyFailed, err)
		}
	}
	if bp.Initial != "" {
		if err := e.SetInitialState(bp.Initial); err != nil {
			return errors.Join(ErrApplyFailed, err)
		}
	}
	if bp.Goal != "" {
		if err := e.SetGoalState(bp.Goal); err != nil {
			return errors.Join(ErrApplyFailed, err)
		}
	}
	return nil
}

// stateOrder returns the states with Initial moved to the front.
func (bp *Blueprint) stateOrder() []string {
	i := slices.Index(bp.States, bp.Initial)
	if i <= 0 {
		return bp.States
	}
	order := make([]string, 0, len(bp.States))
	order = append(order, bp.Initial)
	order = append(order, bp.States[:i]...)
	return append(order, bp.States[i+1:]...)
}

// FromSnapshot captures the graph of a running or idle engine. The current
// state is not recorded; the goal is.
func FromSnapshot(snap statemachine.Snapshot) *Blueprint {
	bp := &Blueprint{
		Name:    snap.Name,
		Initial: snap.Initial,
		Goal:    snap.Goal,
		States:  make([]string, 0, len(snap.States)),
	}
	for _, s := range snap.States {
		bp.States = append(bp.States, s.Name)
		for _, t := range s.Transitions {
			bp.Transitions = append(bp.Transitions, Transition{Name: t.Name, From: t.From, To: t.To})
		}
		// sorted so output is stable
		names := make([]string, 0, len(s.Events))
		for ev := range s.Events {
			names = append(names, ev)
		}
		slices.Sort(names)
		for _, ev := range names {
			bp.Events = append(bp.Events, Event{Name: ev, State: s.Name, Transition: s.Events[ev]})
		}
	}
	return bp
}

// Marshal encodes the blueprint as YAML.
func (bp *Blueprint) Marshal() ([]byte, error) {
	return yaml.Marshal(bp)
}
