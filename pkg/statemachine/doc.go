// Package statemachine implements a self-driving state machine engine.
//
// An Engine holds a directed, possibly cyclic graph of named states joined by
// named transitions. Given a goal state it walks there on its own: at every
// step it looks for the transition that starts a fewest-hop route from the
// current state to the goal and takes it. Like a ship's telegraph, the
// bridge sets the goal ("full ahead", "all stop") and the engine room works
// out how to get there, even when the order changes half way.
//
// # Driving modes
//
// The engine can be driven three ways:
//
//  1. Actively: Start launches a background worker that keeps stepping
//     toward the goal and idles (one second by default) when there is
//     nothing to do. SetGoalState wakes it immediately. Stop cancels it.
//  2. Synchronously: DriveTo runs the same loop on the caller's goroutine
//     until the target is reached or no progress can be made.
//  3. Passively: FireEvent follows transitions bound to an event name,
//     cascading through every state that binds the same name.
//
// # Listeners
//
// TransitionListener callbacks gate transitions: any listener returning
// false vetoes the step. StateListener callbacks observe entering and
// leaving states. Callbacks run synchronously on the driving goroutine with
// the engine lock held, in unspecified order. A blocking callback stalls
// every other call on the engine until it returns; this is how clients hold
// the machine until an external condition is met. Callbacks must not call
// back into the engine.
//
// # Usage
//
//	e := statemachine.New(statemachine.WithName("conn"))
//	_ = e.AddState("disconnected")
//	_ = e.AddState("connecting")
//	_ = e.AddState("connected")
//	_ = e.AddTransition("disconnected", "connecting", "dial")
//	_ = e.AddTransition("connecting", "connected", "handshake",
//	    statemachine.TransitionFunc(func(ctx context.Context, s statemachine.Step) bool {
//	        return performHandshake(ctx) == nil
//	    }))
//	_ = e.AddTransition("connected", "disconnected", "hangup")
//
//	_ = e.SetGoalState("connected")
//	e.Start()
//	defer e.Stop()
//
// # Path resolution
//
// The resolver is a depth-first search that refuses to revisit a state on
// the branch it is exploring, so cycles never make it loop. A transition
// leading straight to the goal is always preferred; among deeper candidates
// the shortest wins and ties go to the transition declared first. Only the
// next hop is computed, and it is recomputed before every step, so graph
// growth and goal changes are picked up without stale plans.
//
// # Error Handling
//
// Fallible operations return sentinel errors wrapped with context; compare
// them with errors.Is or use IsNotFound and IsConflict. A failed operation
// leaves the engine unchanged. Listener vetoes are not errors: the worker
// simply retries after its idle interval.
package statemachine
