package thread

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLockReentrant(t *testing.T) {
	l := NewLocks()
	o := NewOwner()
	ctx := context.Background()
	outer, err := l.Lock(ctx, o, "a", "b")
	if err != nil {
		t.Fatal(err)
	}
	inner, err := l.Lock(ctx, o, "b", "a", "a")
	if err != nil {
		t.Fatal(err)
	}
	inner()
	if !l.Held("a") || !l.Held("b") {
		t.Fatal("inner release dropped the outer hold")
	}
	outer()
	if l.Held("a") || l.Held("b") {
		t.Error("locks still held after release")
	}
	// releasing twice is harmless
	outer()
}

func TestLockExcludes(t *testing.T) {
	l := NewLocks()
	ctx := context.Background()
	var (
		mu    sync.Mutex
		order []string
		g     Group
	)
	unlock, err := l.Lock(ctx, NewOwner(), "x")
	if err != nil {
		t.Fatal(err)
	}
	started := make(chan struct{})
	g.Go(func() {
		close(started)
		u, err := l.Lock(ctx, NewOwner(), "x")
		if err != nil {
			t.Error(err)
			return
		}
		defer u()
		mu.Lock()
		order = append(order, "second")
		mu.Unlock()
	}, nil)
	<-started
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	order = append(order, "first")
	mu.Unlock()
	unlock()
	if !g.Wait(ctx, time.Second) {
		t.Fatal("waiter never got the lock")
	}
	if diff := cmp.Diff([]string{"first", "second"}, order); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLockIndependentNames(t *testing.T) {
	l := NewLocks()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ua, err := l.Lock(ctx, NewOwner(), "a")
	if err != nil {
		t.Fatal(err)
	}
	defer ua()
	ub, err := l.Lock(ctx, NewOwner(), "b")
	if err != nil {
		t.Fatalf("distinct name blocked: %v", err)
	}
	ub()
}

func TestLockCancel(t *testing.T) {
	l := NewLocks()
	u, err := l.Lock(context.Background(), NewOwner(), "a")
	if err != nil {
		t.Fatal(err)
	}
	defer u()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	o := NewOwner()
	if _, err := l.Lock(ctx, o, "0", "a"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline, got %v", err)
	}
	if l.Held("0") {
		t.Error("partially acquired locks were not released")
	}
}

func TestGroupWait(t *testing.T) {
	var (
		g  Group
		mu sync.Mutex
		n  int
	)
	for range 5 {
		g.Go(func() {
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			n++
			mu.Unlock()
		}, nil)
	}
	if !g.Wait(context.Background(), 0) {
		t.Fatal("wait without timeout returned early")
	}
	if n != 5 {
		t.Errorf("got %d completions", n)
	}
}

func TestGroupTimeout(t *testing.T) {
	var g Group
	release := make(chan struct{})
	g.Go(func() { <-release }, nil)
	start := time.Now()
	if g.Wait(context.Background(), 10*time.Millisecond) {
		t.Fatal("expected a timeout")
	}
	if time.Since(start) > time.Second {
		t.Error("timeout took too long")
	}
	close(release)
	g.Wait(context.Background(), 0)
}

func TestGroupPanic(t *testing.T) {
	var (
		g   Group
		got error
	)
	g.Go(func() { panic("boom") }, func(err error) { got = err })
	g.Wait(context.Background(), 0)
	if got == nil {
		t.Error("panic was not reported")
	}
}

func TestSleepCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v", err)
	}
	if err := Sleep(context.Background(), time.Millisecond); err != nil {
		t.Error(err)
	}
}
