package statemachine

import "maps"

// path is the set of states visited on one branch of the search.
type path map[*state]struct{}

// with returns a copy of p that also contains s. Every branch gets its own
// copy so one sibling's pruning never leaks into another.
func (p path) with(s *state) path {
	next := make(path, len(p)+1)
	maps.Copy(next, p)
	next[s] = struct{}{}
	return next
}

// nextHop returns the first transition of a fewest-hop route from source to
// target, or nil when there is none: target unreachable, source terminal, or
// source == target.
func nextHop(source, target *state) *transition {
	t, _ := walk(path{}, source, target)
	return t
}

// walk searches depth first from source. A route that would revisit a state
// already on the current branch is abandoned. A transition straight into
// target wins outright; otherwise the sibling whose sub-route visited the
// fewest states wins, ties going to the first declared.
func walk(visited path, source, target *state) (*transition, path) {
	if source == nil || target == nil || source == target || source.terminal() {
		return nil, nil
	}
	if _, seen := visited[source]; seen {
		return nil, nil
	}
	visited = visited.with(source)

	var (
		best     *transition
		bestPath path
	)
	for _, t := range source.transitions {
		if t.to == target {
			return t, visited
		}
		hop, sub := walk(visited, t.to, target)
		if hop != nil && (bestPath == nil || len(sub) < len(bestPath)) {
			best, bestPath = t, sub
		}
	}
	return best, bestPath
}

// NextHop returns the name of the transition the engine would take next
// from its current state toward target.
func (e *Engine) NextHop(target string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	dst, ok := e.states[target]
	if !ok {
		return "", false
	}
	t := nextHop(e.actual, dst)
	if t == nil {
		return "", false
	}
	return t.name, true
}
