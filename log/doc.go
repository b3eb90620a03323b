// Package log provides the common logging surface used by the other
// boundary.go packages.
//
// It wraps a single global zap sugared logger.
// The default logger writes console formatted entries to stderr at error
// level, which is also the fallback channel the boundary package reports
// logger failures to; use InitLogger or InitLoggerJSON to replace it with
// something tuned to your service.
//
// It also provides Wrapper, a minimal function based logging collaborator
// contract, with adapters for the stdlib logger, zap, go-kit, and tests.
package log
