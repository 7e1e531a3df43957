package statemachine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/telegraph/pkg/statemachine"
)

// build adds states in order and "from>to" transitions named "from2to".
func build(t *testing.T, states []string, edges ...[2]string) *statemachine.Engine {
	t.Helper()
	e := statemachine.New(statemachine.WithIdleInterval(10 * time.Millisecond))
	t.Cleanup(func() { _ = e.Close() })

	for _, s := range states {
		require.NoError(t, e.AddState(s))
	}
	for _, edge := range edges {
		require.NoError(t, e.AddTransition(edge[0], edge[1], edge[0]+"2"+edge[1]))
	}
	return e
}

func waitForState(t *testing.T, e *statemachine.Engine, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return e.CurrentState() == want
	}, 2*time.Second, 5*time.Millisecond, "engine never reached %q", want)
}

// recorder collects callback invocations in order.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// countingListener counts calls and answers with allow.
type countingListener struct {
	mu    sync.Mutex
	count int
	allow bool
}

func (c *countingListener) OnTransition(context.Context, statemachine.Step) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	return c.allow
}

func (c *countingListener) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

type stateCounter struct {
	mu           sync.Mutex
	enter, leave int
}

func (s *stateCounter) OnEnter(context.Context, string) {
	s.mu.Lock()
	s.enter++
	s.mu.Unlock()
}

func (s *stateCounter) OnLeave(context.Context, string) {
	s.mu.Lock()
	s.leave++
	s.mu.Unlock()
}

func (s *stateCounter) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enter, s.leave
}
