package boundary

import (
	"fmt"
)

// ConfigError is returned by New and NewConditional on invalid
// configurations, e.g. a malformed DontCatch entry or a flag expression
// that cannot be resolved.
//
// Configuration problems always fail fast with a ConfigError.
// They are never silently downgraded into "inactive" or "catch everything".
type ConfigError struct {
	// The configuration field the error is about,
	// e.g. `DontCatch[2]` or `Condition`.
	Field string

	// Human readable description of what's wrong with it.
	Reason string

	// The underlying error, if any.
	Cause error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("boundary: invalid %s: %s: %v", e.Field, e.Reason, e.Cause)
	}
	return fmt.Sprintf("boundary: invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}
