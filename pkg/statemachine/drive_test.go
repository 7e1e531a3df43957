package statemachine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/telegraph/pkg/statemachine"
)

func TestDriveTo(t *testing.T) {
	t.Parallel()
	e := build(t, []string{"A", "B", "C", "D"},
		[2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "D"}, [2]string{"C", "A"})
	ctx := context.Background()

	ok, err := e.DriveTo(ctx, "C")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "C", e.CurrentState())
	assert.Equal(t, "C", e.GoalState())

	t.Run("already there", func(t *testing.T) {
		ok, err := e.DriveTo(ctx, "C")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unknown target", func(t *testing.T) {
		ok, err := e.DriveTo(ctx, "Q")
		require.ErrorIs(t, err, statemachine.ErrUnknownState)
		assert.False(t, ok)
		assert.Equal(t, "C", e.CurrentState())
	})

	t.Run("around the cycle", func(t *testing.T) {
		ok, err := e.DriveTo(ctx, "B")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "B", e.CurrentState())
	})
}

func TestDriveToRefusesWhileRunning(t *testing.T) {
	t.Parallel()
	e := build(t, []string{"A", "B"}, [2]string{"A", "B"}, [2]string{"B", "A"})

	e.Start()
	ok, err := e.DriveTo(context.Background(), "B")
	require.ErrorIs(t, err, statemachine.ErrRunning)
	assert.False(t, ok)
	assert.Equal(t, "A", e.CurrentState())

	e.Stop()
	ok, err = e.DriveTo(context.Background(), "B")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDriveToVeto(t *testing.T) {
	t.Parallel()
	e := build(t, []string{"A", "B", "C"}, [2]string{"A", "B"})
	gate := &countingListener{allow: false}
	require.NoError(t, e.AddTransition("B", "C", "B2C", gate))

	ok, err := e.DriveTo(context.Background(), "C")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "B", e.CurrentState())
	assert.Equal(t, 1, gate.calls())
}

func TestDriveToCancelled(t *testing.T) {
	t.Parallel()
	e := build(t, []string{"A", "B", "C"}, [2]string{"B", "C"})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, e.AddTransition("A", "B", "A2B",
		statemachine.TransitionFunc(func(context.Context, statemachine.Step) bool {
			cancel()
			return true
		})))

	ok, err := e.DriveTo(ctx, "C")
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
	assert.Equal(t, "B", e.CurrentState())
}

func TestDriveToFromInitialAfterSetInitial(t *testing.T) {
	t.Parallel()
	e := build(t, []string{"A", "B", "C"}, [2]string{"A", "B"}, [2]string{"B", "C"})
	require.NoError(t, e.SetInitialState("B"))

	// the current state is still A: the initial state only matters for runs
	// that start without a current state
	ok, err := e.DriveTo(context.Background(), "C")
	require.NoError(t, err)
	assert.True(t, ok)
}
