package thread

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/signadot/hyperlambda/debug"
)

// Owner identifies a holder of locks. Locks are re-entrant per owner.
type Owner uint64

var owners atomic.Uint64

// NewOwner returns an owner distinct from all others in the process.
func NewOwner() Owner {
	return Owner(owners.Add(1))
}

type held struct {
	owner Owner
	depth int
	// closed when the lock is released
	done chan struct{}
}

// Locks is a table of named mutexes. The zero value is not usable, use
// NewLocks.
type Locks struct {
	mu sync.Mutex
	m  map[string]*held
}

func NewLocks() *Locks {
	return &Locks{m: map[string]*held{}}
}

// Lock acquires the named locks for owner, in sorted order with duplicates
// removed, and returns a function releasing them. If ctx is done before all
// locks are held, the ones taken are released and the context error is
// returned.
func (l *Locks) Lock(ctx context.Context, owner Owner, names ...string) (func(), error) {
	names = slices.Clone(names)
	slices.Sort(names)
	names = slices.Compact(names)
	for i, name := range names {
		if err := l.acquire(ctx, owner, name); err != nil {
			l.release(owner, names[:i])
			return nil, err
		}
	}
	var once sync.Once
	return func() {
		once.Do(func() { l.release(owner, names) })
	}, nil
}

func (l *Locks) acquire(ctx context.Context, owner Owner, name string) error {
	for {
		l.mu.Lock()
		h := l.m[name]
		switch {
		case h == nil:
			l.m[name] = &held{owner: owner, depth: 1, done: make(chan struct{})}
			l.mu.Unlock()
			return nil
		case h.owner == owner:
			h.depth++
			l.mu.Unlock()
			return nil
		}
		done := h.done
		l.mu.Unlock()
		if debug.Thread() {
			debug.Logf("owner %d waits for lock %q", owner, name)
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Locks) release(owner Owner, names []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(names) - 1; i >= 0; i-- {
		h := l.m[names[i]]
		if h == nil || h.owner != owner {
			continue
		}
		h.depth--
		if h.depth == 0 {
			delete(l.m, names[i])
			close(h.done)
		}
	}
}

// Held reports whether name is currently locked by anyone.
func (l *Locks) Held(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m[name] != nil
}
