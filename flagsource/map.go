package flagsource

import (
	"fmt"

	boundary "github.com/palisade/boundary.go"
)

var _ boundary.Settings = Map(nil)

// MissingFlagError is returned by flag lookups for names the source
// doesn't know about.
type MissingFlagError struct {
	// The name that was looked up.
	Name string
}

func (e *MissingFlagError) Error() string {
	return fmt.Sprintf("flagsource: no flag named %q", e.Name)
}

// Map is a settings source backed by a plain map.
//
// It's mostly useful in tests and in services whose flags are fixed at
// startup.
type Map map[string]bool

// Flag implements boundary.Settings.
func (m Map) Flag(name string) (bool, error) {
	value, ok := m[name]
	if !ok {
		return false, &MissingFlagError{Name: name}
	}
	return value, nil
}
