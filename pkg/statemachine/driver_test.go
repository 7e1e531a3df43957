package statemachine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/telegraph/pkg/statemachine"
)

func TestStartDrivesToGoal(t *testing.T) {
	t.Parallel()
	e := build(t, []string{"A", "B", "C", "D"},
		[2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "D"})

	require.NoError(t, e.SetGoalState("C"))
	assert.Equal(t, "A", e.InitialState())
	assert.Equal(t, "A", e.CurrentState())

	e.Start()
	waitForState(t, e, "C")
	assert.True(t, e.IsRunning(), "worker idles at a non-terminal goal")

	// new goal while running, no restart needed
	require.NoError(t, e.SetGoalState("D"))
	waitForState(t, e, "D")

	// D is terminal: the worker exits on its own
	require.Eventually(t, func() bool { return !e.IsRunning() }, time.Second, 5*time.Millisecond)
}

func TestStartWithoutGoalStaysAtInitial(t *testing.T) {
	t.Parallel()
	e := build(t, []string{"A", "B"}, [2]string{"A", "B"})

	e.Start()
	defer e.Stop()

	assert.True(t, e.IsRunning())
	assert.Equal(t, "A", e.GoalState(), "goal defaults to the initial state")
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, "A", e.CurrentState())
}

func TestStartNoStates(t *testing.T) {
	t.Parallel()
	e := statemachine.New()

	e.Start()
	assert.False(t, e.IsRunning())
	assert.Equal(t, "", e.CurrentState())
	assert.Equal(t, "", e.GoalState())
	e.Stop()
}

func TestStartTwiceIsNoop(t *testing.T) {
	t.Parallel()
	e := build(t, []string{"A", "B"}, [2]string{"A", "B"}, [2]string{"B", "A"})

	e.Start()
	e.Start()
	assert.True(t, e.IsRunning())
	assert.Equal(t, "A", e.GoalState())

	e.Stop()
	assert.False(t, e.IsRunning())
	e.Stop() // idempotent
}

func TestSetGoalWakesIdleWorker(t *testing.T) {
	t.Parallel()
	// an idle interval far longer than the test: only the wake-up can move it
	e := statemachine.New(statemachine.WithIdleInterval(time.Hour))
	t.Cleanup(func() { _ = e.Close() })
	for _, s := range []string{"A", "B"} {
		require.NoError(t, e.AddState(s))
	}
	require.NoError(t, e.AddTransition("A", "B", "go"))
	require.NoError(t, e.AddTransition("B", "A", "back"))

	e.Start()
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, e.SetGoalState("B"))
	waitForState(t, e, "B")
}

func TestSetGoalStateFailures(t *testing.T) {
	t.Parallel()

	t.Run("no states", func(t *testing.T) {
		e := statemachine.New()
		require.ErrorIs(t, e.SetGoalState("A"), statemachine.ErrNoStates)
	})

	t.Run("disconnected subgraph", func(t *testing.T) {
		e := build(t, []string{"A", "B", "C", "D", "E", "F", "G"},
			[2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "D"},
			[2]string{"D", "E"}, [2]string{"E", "A"}, [2]string{"F", "G"})

		require.NoError(t, e.SetGoalState("C"))
		require.ErrorIs(t, e.SetGoalState("F"), statemachine.ErrNoRoute)
		assert.Equal(t, "C", e.GoalState(), "failed goal change leaves goal unchanged")
	})

	t.Run("unknown state", func(t *testing.T) {
		e := build(t, []string{"A", "B"}, [2]string{"A", "B"})
		err := e.SetGoalState("nope")
		require.ErrorIs(t, err, statemachine.ErrUnknownState)
		assert.Equal(t, "", e.GoalState())
	})

	t.Run("current state terminal", func(t *testing.T) {
		e := build(t, []string{"A", "B"}, [2]string{"B", "A"})
		require.ErrorIs(t, e.SetGoalState("B"), statemachine.ErrTerminalState)
	})

	t.Run("goal equal to current", func(t *testing.T) {
		e := build(t, []string{"A", "B"}, [2]string{"A", "B"}, [2]string{"B", "A"})
		require.ErrorIs(t, e.SetGoalState("A"), statemachine.ErrNoRoute)
	})
}

func TestStopWaitsForBlockedListenerAndResumes(t *testing.T) {
	t.Parallel()
	e := build(t, []string{"A", "B", "C", "D"},
		[2]string{"A", "B"}, [2]string{"C", "D"})

	entered := make(chan struct{})
	blocker := statemachine.TransitionFunc(func(ctx context.Context, _ statemachine.Step) bool {
		close(entered)
		<-ctx.Done() // released only by Stop
		return true
	})
	require.NoError(t, e.AddTransition("B", "C", "B2C", blocker))
	require.NoError(t, e.SetGoalState("D"))

	e.Start()
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never reached the blocking transition")
	}

	// The blocker returns true once cancelled, so the transition completes
	e.Stop()
	assert.False(t, e.IsRunning())
	assert.Equal(t, "C", e.CurrentState())
	assert.Equal(t, "D", e.GoalState(), "stop keeps the goal")

	// restart resumes from C, not from the initial state
	e.Start()
	waitForState(t, e, "D")
}

func TestBlockingListenerHoldsEngineLock(t *testing.T) {
	t.Parallel()
	e := build(t, []string{"A", "B"})

	entered := make(chan struct{})
	release := make(chan struct{})
	gate := statemachine.TransitionFunc(func(context.Context, statemachine.Step) bool {
		close(entered)
		<-release
		return true
	})
	require.NoError(t, e.AddTransition("A", "B", "A2B", gate))
	require.NoError(t, e.SetGoalState("B"))

	e.Start()
	<-entered

	answered := make(chan string, 1)
	go func() { answered <- e.CurrentState() }()

	select {
	case <-answered:
		t.Fatal("query returned while a listener held the engine")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case got := <-answered:
		assert.Equal(t, "B", got)
	case <-time.After(2 * time.Second):
		t.Fatal("query never returned after the listener released the engine")
	}
}

func TestVetoedTransitionIsRetried(t *testing.T) {
	t.Parallel()
	e := build(t, []string{"A", "B"})

	gate := &countingListener{allow: false}
	other := &countingListener{allow: true}
	require.NoError(t, e.AddTransition("A", "B", "A2B", gate, other))
	sc := &stateCounter{}
	require.NoError(t, e.AddStateListener("A", sc))
	require.NoError(t, e.SetGoalState("B"))

	e.Start()
	require.Eventually(t, func() bool { return gate.calls() >= 2 }, time.Second, 5*time.Millisecond)
	e.Stop()

	assert.Equal(t, "A", e.CurrentState())
	assert.Equal(t, gate.calls(), other.calls(), "every listener runs even after a veto")
	_, leave := sc.counts()
	assert.Zero(t, leave, "no state callbacks for a vetoed transition")
}

func TestListenerRunIDAndContext(t *testing.T) {
	t.Parallel()
	e := build(t, []string{"A", "B"})

	ids := make(chan string, 1)
	require.NoError(t, e.AddTransition("A", "B", "A2B",
		statemachine.TransitionFunc(func(ctx context.Context, s statemachine.Step) bool {
			assert.Equal(t, statemachine.Step{Transition: "A2B", From: "A", To: "B"}, s)
			ids <- statemachine.RunIDFromContext(ctx)
			return true
		})))
	require.NoError(t, e.SetGoalState("B"))

	e.Start()
	select {
	case id := <-ids:
		assert.NotEmpty(t, id)
	case <-time.After(2 * time.Second):
		t.Fatal("listener not called")
	}
}
