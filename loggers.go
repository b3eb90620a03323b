package boundary

import (
	"fmt"

	sentry "github.com/getsentry/sentry-go"

	"github.com/palisade/boundary.go/errbatch"
	"github.com/palisade/boundary.go/log"
)

// Logger is the collaborator a boundary routes captured panics to.
//
// LogCapture receives the capture of one intercepted panic and returns
// nothing. Implementations are allowed to do blocking I/O;
// the boundary tolerates arbitrary latency but imposes no timeout,
// that's the logger's own responsibility.
// A panicking logger does not break resolution,
// see the Log hook documentation on Hooks.
type Logger interface {
	LogCapture(c *Capture)
}

// LoggerFunc wraps a plain function into a Logger.
type LoggerFunc func(c *Capture)

// LogCapture implements Logger.
func (f LoggerFunc) LogCapture(c *Capture) {
	f(c)
}

// ConsoleLogger returns the default logger collaborator:
// it writes the capture to the log package's global structured logger at
// error level, including the panic value and the stack trace.
func ConsoleLogger() Logger {
	return LoggerFunc(func(c *Capture) {
		log.Errorw(
			"boundary: panic intercepted",
			"panic", c.Value,
			"stack", string(c.Stack),
		)
	})
}

// WrapperLogger adapts a log.Wrapper into a Logger collaborator.
//
// Useful for plugging in whatever logging library a service already uses,
// or log.TestWrapper in tests.
func WrapperLogger(w log.Wrapper) Logger {
	return LoggerFunc(func(c *Capture) {
		w.Log(fmt.Sprintf("boundary: panic intercepted: %v", c.Value))
	})
}

// SentryLogger returns a logger collaborator reporting captures to the
// current sentry hub, with the captured stack attached as extra context.
//
// Initialize sentry first, e.g. via log.InitSentry.
// With an empty DSN sentry operations are nop,
// so it's safe to configure this logger unconditionally.
func SentryLogger() Logger {
	return LoggerFunc(func(c *Capture) {
		hub := sentry.CurrentHub().Clone()
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetExtra("stack", string(c.Stack))
		})
		hub.CaptureException(c.Err)
	})
}

// PropagateUnless builds a ShouldPropagate hook from a Suppressor:
// captures whose error the suppressor suppresses stay inside the boundary,
// everything else propagates.
//
// It's a bridge for services that already express their error policies as
// errbatch.Suppressor values:
//
//	boundary.Config{
//	    Hooks: boundary.Hooks{
//	        ShouldPropagate: boundary.PropagateUnless(suppressor),
//	    },
//	}
func PropagateUnless(s errbatch.Suppressor) func(*Capture) bool {
	return func(c *Capture) bool {
		return !s.Suppress(c.Err)
	}
}
