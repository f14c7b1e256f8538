// Package threadcheck enforces that native graphics and audio calls are
// made from a single thread.
//
// The native libraries behind the device and audio facades are not thread
// safe. A Guard records the first thread that calls Check and panics when
// any other thread calls it afterwards, turning silent corruption into an
// immediate failure at the call site. Guards start disabled; when disabled,
// Check costs a single atomic load.
package threadcheck

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrWrongThread is matched by the value a Guard panics with.
var ErrWrongThread = errors.New("most FNA3D audio/graphics functions must be called on the main thread")

// WrongThreadError describes a guarded call from a thread other than the
// owner.
type WrongThreadError struct {
	Owner  uint64
	Caller uint64
}

func (e *WrongThreadError) Error() string {
	return fmt.Sprintf("%v (owner thread %d, called from %d)", ErrWrongThread, e.Owner, e.Caller)
}

func (e *WrongThreadError) Unwrap() error { return ErrWrongThread }

// Guard is the thread affinity state shared by every facade that reaches
// native code. The zero value is a disabled guard.
type Guard struct {
	enabled  atomic.Bool
	owner    atomic.Uint64 // 0 while unbound
	threadID func() uint64
}

// Option configures a Guard.
type Option func(*Guard)

// WithThreadID replaces the thread identity source. IDs must be non-zero.
func WithThreadID(fn func() uint64) Option {
	return func(g *Guard) {
		g.threadID = fn
	}
}

// New creates a guard. An enabled guard binds to the first thread that
// calls Check.
//
// Identity is the OS thread, not the goroutine. The scheduler may move an
// unpinned goroutine between threads, so guarded code must either run
// through Run and Call or hold runtime.LockOSThread for as long as it uses
// the guarded resources.
func New(enabled bool, opts ...Option) *Guard {
	g := &Guard{}
	g.enabled.Store(enabled)
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Enabled reports whether the guard enforces affinity.
func (g *Guard) Enabled() bool {
	return g != nil && g.enabled.Load()
}

// Check binds the calling thread on first use and panics with a
// *WrongThreadError if a different thread calls it later. It is a no-op
// while the guard is disabled. Callers that are not pinned with
// runtime.LockOSThread can fail after a thread migration; see New.
func (g *Guard) Check() {
	if !g.Enabled() {
		return
	}

	id := g.currentID()
	if g.owner.CompareAndSwap(0, id) {
		return
	}
	if owner := g.owner.Load(); owner != id {
		panic(&WrongThreadError{Owner: owner, Caller: id})
	}
}

// Owner returns the bound thread, if any.
func (g *Guard) Owner() (uint64, bool) {
	if g == nil {
		return 0, false
	}
	owner := g.owner.Load()
	return owner, owner != 0
}

// IsMainThread reports whether the caller is the bound thread.
func (g *Guard) IsMainThread() bool {
	owner, ok := g.Owner()
	return ok && owner == g.currentID()
}

func (g *Guard) currentID() uint64 {
	if g.threadID != nil {
		return g.threadID()
	}
	return currentThreadID()
}
