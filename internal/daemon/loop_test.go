package daemon

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/1broseidon/tagwm/internal/ipc"
)

func TestLoop_ExecRunsBetweenEvents(t *testing.T) {
	loop := NewLoop()
	before := make(chan struct{})
	after := make(chan struct{})
	quit := make(chan struct{})

	var inEvent atomic.Bool
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx, before, after, quit, nil) }()

	// Simulate the xevent loop handling a few events.
	go func() {
		for i := 0; i < 3; i++ {
			before <- struct{}{}
			inEvent.Store(true)
			time.Sleep(time.Millisecond)
			inEvent.Store(false)
			after <- struct{}{}
		}
	}()

	for i := 0; i < 5; i++ {
		ran, overlapped := false, false
		err := loop.Exec(func() {
			overlapped = inEvent.Load()
			ran = true
		})
		if err != nil {
			t.Fatalf("exec %d: %v", i, err)
		}
		if !ran {
			t.Fatalf("exec %d did not run", i)
		}
		if overlapped {
			t.Fatalf("exec %d ran during an event", i)
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestLoop_StopCalledOnCancel(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx, nil, nil, nil, func() { close(stopped) })
	}()

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
	select {
	case <-stopped:
	default:
		t.Fatal("expected stop to be called")
	}
	if err := loop.Exec(func() {}); !errors.Is(err, ipc.ErrLoopClosed) {
		t.Fatalf("expected ErrLoopClosed, got %v", err)
	}
}

func TestLoop_QuitEndsRun(t *testing.T) {
	loop := NewLoop()
	quit := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background(), nil, nil, quit, nil) }()

	close(quit)
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := loop.Exec(func() {}); !errors.Is(err, ipc.ErrLoopClosed) {
		t.Fatalf("expected ErrLoopClosed, got %v", err)
	}
}

func TestLoop_ExecThatStopsLoopStillSucceeds(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx, nil, nil, nil, nil) }()

	if err := loop.Exec(cancel); err != nil {
		t.Fatalf("exec: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
}
