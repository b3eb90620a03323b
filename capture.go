package boundary

import (
	"fmt"
)

// Capture is the record of a single panic observed inside a protected
// region.
//
// A Capture is created by the activation that observed the panic and is only
// valid during the resolution of that activation. Hooks and loggers receive
// it read-only and must not retain it past their own call.
type Capture struct {
	// Value is the raw value the region panicked with, unchanged.
	Value interface{}

	// Err is Value coerced into an error:
	// Value itself when it already implements error,
	// or a *PanicError wrapping Value otherwise.
	Err error

	// Stack is the formatted stack trace of the panicking goroutine,
	// taken at the point of recovery.
	Stack []byte
}

// PanicError is the error used for panic values that do not implement error
// themselves, e.g. panic("some string").
type PanicError struct {
	// The raw panic value.
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("boundary: panic: %v", e.Value)
}

func newCapture(value interface{}, stack []byte) *Capture {
	c := &Capture{
		Value: value,
		Stack: stack,
	}
	if err, ok := value.(error); ok {
		c.Err = err
	} else {
		c.Err = &PanicError{Value: value}
	}
	return c
}
