// Package errbatch provides Batch, an error that compiles multiple errors
// into a single one, and Suppressor, a small decision primitive for error
// policies.
//
// The boundary package uses a Batch to collect failures from the logger
// collaborators of one resolution, so that one misbehaving logger never
// hides the others:
//
//	var batch errbatch.Batch
//	for _, logger := range loggers {
//	    // nil errors will be auto skipped
//	    batch.Add(call(logger))
//	}
//	// If all loggers succeeded, Compile() returns nil.
//	// If only one failed, Compile() returns that error directly
//	// instead of wrapping it inside a Batch.
//	return batch.Compile()
//
// This package is not thread-safe.
// The same batch should not be operated on different goroutines
// concurrently.
package errbatch
