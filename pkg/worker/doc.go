// Package worker runs a long-lived background loop that can be cancelled,
// awaited and started again.
//
// A Slot holds at most one live goroutine together with the cancel function
// of the context it runs under. Starting a slot whose goroutine is still
// alive is a no-op. Stop cancels the context, blocks until the goroutine
// returns and forgets it, so the next Start spawns a fresh one.
// Cancellation is cooperative: a function that ignores its context keeps the
// caller of Stop waiting until it finishes on its own.
//
// Every goroutine carries a "worker" pprof label set to the slot name, and
// the slot logs start, exit and failure with a matching "worker" attribute.
//
// # Usage
//
//	slot := worker.NewSlot("poller", log)
//	slot.Start(ctx, func(ctx context.Context) error {
//	    for {
//	        select {
//	        case <-ctx.Done():
//	            return nil
//	        case <-time.After(time.Second):
//	            poll()
//	        }
//	    }
//	})
//
//	// later
//	_ = slot.Stop()
//
// # Error Handling
//
// Stop returns the error produced by the worker function, or the context
// error when the context was already cancelled before the goroutine got a
// chance to run. A nil function yields ErrNilFunc.
package worker
