// Package clock provides a replaceable time source and a scoped periodic
// timer that is guaranteed quiet once stopped.
package clock

import (
	"context"
	"sync"
	"time"
)

// Clock reads the current time and creates tickers.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers ticks on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Real is the wall clock.
type Real struct{}

// Now returns time.Now().
func (Real) Now() time.Time { return time.Now() }

// NewTicker wraps time.NewTicker.
func (Real) NewTicker(d time.Duration) Ticker { return realTicker{time.NewTicker(d)} }

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// Timer calls a function on every tick of a Ticker. It is acquired by Start
// and released by Stop.
type Timer struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start runs fn on every interval tick until ctx is done or Stop is called.
func Start(ctx context.Context, c Clock, interval time.Duration, fn func(time.Time)) *Timer {
	ctx, cancel := context.WithCancel(ctx)
	t := &Timer{cancel: cancel, done: make(chan struct{})}
	ticker := c.NewTicker(interval)
	go func() {
		defer close(t.done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C():
				// a tick racing with cancellation must not fire
				if ctx.Err() != nil {
					return
				}
				fn(now)
			}
		}
	}()
	return t
}

// Stop cancels the timer and waits for an in-flight callback to return.
// After Stop returns fn is never called again. Stop is idempotent and must
// not be called from fn.
func (t *Timer) Stop() {
	if t == nil {
		return
	}
	t.once.Do(t.cancel)
	<-t.done
}

// Done is closed once the timer goroutine has exited.
func (t *Timer) Done() <-chan struct{} { return t.done }
