package daemon

import (
	"context"

	"github.com/1broseidon/tagwm/internal/ipc"
)

// Loop serializes X event handling and out-of-band requests on one
// goroutine. X events are handled by the xevent main loop while Loop waits
// between its before and after pings; requests run between events.
type Loop struct {
	requests chan func()
	done     chan struct{}
}

// NewLoop creates a loop. Call Run to start serving requests.
func NewLoop() *Loop {
	return &Loop{
		requests: make(chan func()),
		done:     make(chan struct{}),
	}
}

// Exec runs fn on the loop goroutine and waits for it. It implements
// ipc.Executor.
func (l *Loop) Exec(fn func()) error {
	finished := make(chan struct{})
	req := func() {
		defer close(finished)
		fn()
	}

	select {
	case l.requests <- req:
	case <-l.done:
		return ipc.ErrLoopClosed
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
	}
	// fn may have stopped the loop itself.
	select {
	case <-finished:
		return nil
	default:
		return ipc.ErrLoopClosed
	}
}

// Run serves requests until ctx is cancelled or the event loop quits. before,
// after and quit come from xevent.MainPing; stop is called once on
// cancellation to ask the event loop to exit.
func (l *Loop) Run(ctx context.Context, before, after, quit <-chan struct{}, stop func()) error {
	defer close(l.done)
	for {
		select {
		case <-before:
			<-after
		case fn := <-l.requests:
			fn()
		case <-quit:
			return nil
		case <-ctx.Done():
			if stop != nil {
				stop()
			}
			return nil
		}
	}
}
