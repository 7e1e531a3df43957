package statemachine

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// TransitionInfo is a read-only view of a transition.
type TransitionInfo struct {
	Name      string `json:"name"`
	From      string `json:"from"`
	To        string `json:"to"`
	Listeners int    `json:"listeners"`
}

// StateInfo is a read-only view of a state.
type StateInfo struct {
	Name        string            `json:"name"`
	Transitions []TransitionInfo  `json:"transitions"`
	Events      map[string]string `json:"events,omitempty"` // event name -> transition name
	Listeners   int               `json:"listeners"`
	Terminal    bool              `json:"terminal"`
}

// Snapshot is a copy of the whole engine taken under its lock.
type Snapshot struct {
	Name    string      `json:"name"`
	States  []StateInfo `json:"states"`
	Initial string      `json:"initial"`
	Current string      `json:"current"`
	Goal    string      `json:"goal"`
	Running bool        `json:"running"`
}

func (s *state) info() StateInfo {
	info := StateInfo{
		Name:        s.name,
		Transitions: make([]TransitionInfo, 0, len(s.transitions)),
		Listeners:   len(s.listeners),
		Terminal:    s.terminal(),
	}
	for _, t := range s.transitions {
		info.Transitions = append(info.Transitions, TransitionInfo{
			Name:      t.name,
			From:      s.name,
			To:        t.to.name,
			Listeners: len(t.listeners),
		})
	}
	if len(s.events) > 0 {
		info.Events = make(map[string]string, len(s.events))
		for ev, t := range s.events {
			info.Events[ev] = t.name
		}
	}
	return info
}

// State returns a view of the named state.
func (e *Engine) State(name string) (StateInfo, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.states[name]
	if !ok {
		return StateInfo{}, false
	}
	return s.info(), true
}

// Snapshot copies the graph and the initial, current and goal states.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Name:    e.name,
		States:  make([]StateInfo, 0, len(e.order)),
		Initial: e.initial.nameOrEmpty(),
		Current: e.actual.nameOrEmpty(),
		Goal:    e.goal.nameOrEmpty(),
		Running: e.running.Load(),
	}
	for _, s := range e.order {
		snap.States = append(snap.States, s.info())
	}
	return snap
}

// DOT renders the snapshot as a Graphviz digraph. The current state is
// filled and the goal is drawn with a double border.
func (s Snapshot) DOT() string {
	var b strings.Builder

	fmt.Fprintf(&b, "digraph %q {\n", s.Name)
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=rounded, fontsize=10];\n")
	b.WriteString("  edge [fontsize=9];\n")

	for _, st := range s.States {
		var attrs []string
		if st.Name == s.Current {
			attrs = append(attrs, `style="rounded,filled"`, "fillcolor=lightgrey")
		}
		if st.Name == s.Goal {
			attrs = append(attrs, "peripheries=2")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&b, "  %q;\n", st.Name)
			continue
		}
		fmt.Fprintf(&b, "  %q [%s];\n", st.Name, strings.Join(attrs, ", "))
	}

	for _, st := range s.States {
		// event names per transition, for edge labels
		byTransition := make(map[string][]string)
		for _, ev := range slices.Sorted(maps.Keys(st.Events)) {
			tr := st.Events[ev]
			byTransition[tr] = append(byTransition[tr], ev)
		}
		for _, t := range st.Transitions {
			label := t.Name
			if evs := byTransition[t.Name]; len(evs) > 0 {
				label += " [" + strings.Join(evs, ",") + "]"
			}
			fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", t.From, t.To, label)
		}
	}

	b.WriteString("}\n")
	return b.String()
}
