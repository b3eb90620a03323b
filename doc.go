// Package boundary provides a reusable error boundary:
// a scoped execution region that intercepts panics raised within it,
// decides whether each one should be suppressed or re-raised,
// and routes it to one or more logging collaborators.
//
// It's meant for marking best-effort code regions,
// e.g. sending a notification or calling a non-critical external service,
// without risking a panic there aborting the surrounding program:
//
//	policy, err := boundary.New(boundary.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	policy.Do(func() {
//	    notifyBestEffort(user)
//	})
//
// A Policy is configured once and can be reused across any number of
// activations, sequentially or concurrently.
// The decision logic is customizable via Hooks,
// and NewConditional builds a policy whose interception can be switched off
// entirely by an external flag, e.g. a production/debug setting.
//
// For concrete logger collaborators see ConsoleLogger, SentryLogger,
// WrapperLogger, and the promlogger subdirectory.
// For settings collaborators used by NewConditional see the flagsource
// subdirectory.
package boundary
