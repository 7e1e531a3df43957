// Package httpserver runs the control endpoint of a telegraph process: a
// thin wrapper around net/http with functional options, bound-address
// reporting, life-cycle hooks and graceful shutdown.
//
// Run binds the listener itself so that ":0" works and Addr reports the
// real port. It serves until its context is cancelled or Shutdown is called,
// then waits up to the shutdown timeout for in-flight requests. Signal
// handling is left to the caller, typically via signal.NotifyContext.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("control server stopped", logger.Error(err))
//	}
//
// HealthCheckHandler serves liveness when given no checks and readiness
// when given some:
//
//	r.Get("/health", httpserver.HealthCheckHandler(log))
//	r.Get("/ready", httpserver.HealthCheckHandler(log, httpserver.Check{
//		Name: "driver",
//		Fn:   func(context.Context) error { ... },
//	}))
//
// Listen and serve errors are joined with ErrStart, shutdown errors with
// ErrShutdown.
package httpserver
