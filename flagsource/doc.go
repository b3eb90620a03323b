// Package flagsource provides ready-made settings collaborators for
// boundary.NewConditional.
//
// Map serves flags from a static map,
// File serves them from a YAML file on disk and picks up changes to it
// automatically.
//
// Both follow the Settings contract:
// looking up a flag name the source doesn't know is an error,
// never a silent false.
package flagsource
