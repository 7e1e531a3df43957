package statemachine

import (
	"context"
	"sync"
)

// feed fans Change values out to subscribers. Publishing happens under the
// engine lock, so it never blocks: a subscriber whose buffer is full misses
// the change.
type feed struct {
	mu     sync.Mutex
	subs   map[*subscription]struct{}
	buffer int
	closed bool
}

type subscription struct {
	ch   chan Change
	done chan struct{}
}

func newFeed(buffer int) *feed {
	return &feed{
		subs:   make(map[*subscription]struct{}),
		buffer: max(buffer, 1),
	}
}

func (f *feed) subscribe(ctx context.Context) (<-chan Change, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub := &subscription{
		ch:   make(chan Change, f.buffer),
		done: make(chan struct{}),
	}
	if f.closed {
		sub.stop()
		return sub.ch, func() {}
	}
	f.subs[sub] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() { f.remove(sub) })
	}

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				cancel()
			case <-sub.done:
			}
		}()
	}

	return sub.ch, cancel
}

func (f *feed) publish(c Change) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for sub := range f.subs {
		select {
		case sub.ch <- c:
		default:
		}
	}
}

func (f *feed) remove(sub *subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.subs[sub]; !ok {
		return
	}
	delete(f.subs, sub)
	sub.stop()
}

func (s *subscription) stop() {
	close(s.ch)
	close(s.done)
}

func (f *feed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	for sub := range f.subs {
		sub.stop()
	}
	clear(f.subs)
}

// Subscribe returns a channel receiving every Change from now on, and a
// function that ends the subscription. The subscription also ends when ctx
// is done or the engine is closed; the channel is closed in all cases.
// Slow readers miss changes rather than stall the engine.
func (e *Engine) Subscribe(ctx context.Context) (<-chan Change, func()) {
	return e.feed.subscribe(ctx)
}
