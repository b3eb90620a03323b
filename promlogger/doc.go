// Package promlogger provides a prometheus backed logger collaborator and
// resolution hooks for the boundary package.
//
// It only counts: how many captures were logged (by panic type) and how
// many activations resolved into each outcome.
// It is a logger collaborator like any other,
// not a monitoring pipeline; exposing the registry is the service's job.
package promlogger
