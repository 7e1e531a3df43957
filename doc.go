// Package telegraph is a self-driving state machine engine.
//
// A machine is a directed graph of named states joined by named
// transitions. Given a goal it walks toward it one transition at a time,
// always taking the first hop of a fewest-hop route, while listeners gate
// and observe every step. It can also be moved by events or driven
// synchronously by the caller.
//
// The module is organised as:
//
//   - pkg/statemachine: the engine (graph, resolver, executor, driver,
//     events, synchronous drive, change feed, snapshots)
//   - pkg/blueprint: YAML graph definitions applied to an engine
//   - pkg/worker: the restartable background task behind the driver
//   - pkg/redis: relays state changes to Redis pub/sub
//   - pkg/httpserver, internal/controlapi: the HTTP control endpoint
//   - pkg/config, pkg/logger: environment configuration and slog setup
//   - cmd/telegraph: a process that runs one machine from a blueprint
//
// Quick start:
//
//	e := statemachine.New(statemachine.WithName("door"))
//	_ = e.AddState("closed")
//	_ = e.AddState("open")
//	_ = e.AddTransition("closed", "open", "push")
//	_ = e.AddTransition("open", "closed", "pull")
//
//	ok, err := e.DriveTo(ctx, "open")
package telegraph
