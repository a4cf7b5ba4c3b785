package thread

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Group tracks goroutines so that they can be joined.
type Group struct {
	wg sync.WaitGroup
}

// Go runs f on a new goroutine. A panic in f is recovered and handed to
// onPanic, if any; it terminates only that goroutine.
func (g *Group) Go(f func(), onPanic func(error)) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil && onPanic != nil {
				onPanic(fmt.Errorf("panic: %v", r))
			}
		}()
		f()
	}()
}

// Wait blocks until every goroutine started with Go has returned, the
// timeout elapses, or ctx is done. A timeout of zero or less waits without
// limit. Wait reports whether all goroutines finished; goroutines still
// running are left alone.
func (g *Group) Wait(ctx context.Context, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	var after <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		after = t.C
	}
	select {
	case <-done:
		return true
	case <-after:
	case <-ctx.Done():
	}
	return false
}

// Sleep pauses the calling goroutine for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
