package boundary

import (
	"runtime/debug"
)

// Do runs fn as a protected region under the policy.
//
// If fn returns normally, OnNoPanic fires and Do returns normally.
//
// If fn panics, the panic is captured and resolved exactly once.
// When ShouldPropagate says so the panic is re-raised (after OnPropagate)
// without any logging; otherwise it's logged per ShouldLog/Log and then
// swallowed (after OnSuppress) so that Do returns normally.
// Re-raising panics with the original panic value,
// so type, message, and the runtime's chained traceback are preserved.
//
// Resolution runs on every exit path out of fn,
// including early returns and runtime panics raised by fn's body.
// The one exception is runtime.Goexit (e.g. testing.T.FailNow):
// that is not a panic and is left alone.
//
// Do is reentrant: nesting regions, sequential reuse,
// and concurrent use of one Policy from multiple goroutines are all fine,
// each activation resolving independently.
//
// For an inactive conditional policy (see NewConditional) Do is a plain
// function call: nothing is intercepted, no hooks fire, no logging happens.
func (p *Policy) Do(fn func()) {
	if !p.active {
		fn()
		return
	}
	completed := false
	defer func() {
		if completed {
			p.resolve(nil)
			return
		}
		if r := recover(); r != nil {
			p.resolve(newCapture(r, debug.Stack()))
		}
		// recover() returned nil without fn completing:
		// the goroutine is exiting via runtime.Goexit, keep unwinding.
	}()
	fn()
	completed = true
}

// resolve runs the resolution algorithm for one activation.
// A nil capture means the region completed without panicking.
//
// Propagation is decided first:
// a panic that must escape does so untouched,
// with no logging and no hooks fired beyond OnPropagate.
// Only suppressed panics are routed to the loggers.
func (p *Policy) resolve(c *Capture) {
	if c == nil {
		p.onNoPanic()
		return
	}
	if p.shouldPropagate(c) {
		p.onPropagate(c)
		panic(c.Value)
	}
	if p.shouldLog(c) {
		p.logCapture(c)
	}
	p.onSuppress(c)
}
