package boundary

import (
	"strconv"
	"strings"
)

// Settings is the collaborator NewConditional resolves named flags against.
//
// Flag returns the boolean value of the named flag.
// Looking up a name the settings source doesn't know is an error,
// never a default false.
//
// See the flagsource subdirectory for ready-made implementations.
type Settings interface {
	Flag(name string) (bool, error)
}

// Condition decides whether a conditional policy intercepts anything.
// Build one with Active or FlagActive.
type Condition struct {
	set      bool
	explicit bool
	value    bool

	settings Settings
	expr     string
}

// Active returns a Condition from an explicit boolean.
func Active(value bool) Condition {
	return Condition{
		set:      true,
		explicit: true,
		value:    value,
	}
}

// FlagActive returns a Condition computed from a named flag looked up
// against the given settings collaborator.
//
// The expression is the flag name,
// optionally prefixed with "!" meaning active when the flag is false:
//
//	FlagActive(settings, "debug")  // active while debug is true
//	FlagActive(settings, "!prod")  // active while prod is false
//
// The expression is parsed and the flag is resolved by NewConditional;
// a malformed expression or a missing flag fails there with a
// *ConfigError.
func FlagActive(settings Settings, expr string) Condition {
	return Condition{
		set:      true,
		settings: settings,
		expr:     expr,
	}
}

// NewConditional creates a Policy whose interception is controlled by the
// given Condition, evaluated once, here.
//
// When the condition is false the returned policy is a complete no-op
// pass-through: Do calls the region directly, panics propagate untouched,
// and none of the hooks or loggers ever run.
// When the condition is true the policy behaves exactly like one built
// with New.
func NewConditional(cfg Config, cond Condition) (*Policy, error) {
	active, err := cond.evaluate()
	if err != nil {
		return nil, err
	}
	p, err := New(cfg)
	if err != nil {
		return nil, err
	}
	p.active = active
	return p, nil
}

func (c Condition) evaluate() (bool, error) {
	if !c.set {
		return false, &ConfigError{
			Field:  "Condition",
			Reason: "empty, use Active or FlagActive",
		}
	}
	if c.explicit {
		return c.value, nil
	}

	name, negate, err := parseFlagExpr(c.expr)
	if err != nil {
		return false, err
	}
	if c.settings == nil {
		return false, &ConfigError{
			Field:  "Condition",
			Reason: "FlagActive with nil settings",
		}
	}
	value, err := c.settings.Flag(name)
	if err != nil {
		return false, &ConfigError{
			Field:  "Condition",
			Reason: "flag " + name + " lookup failed",
			Cause:  err,
		}
	}
	if negate {
		value = !value
	}
	return value, nil
}

// parseFlagExpr splits a flag expression into the flag name and the
// optional leading negation marker, validating the name eagerly so that
// configuration typos surface at construction instead of first use.
func parseFlagExpr(expr string) (name string, negate bool, err error) {
	name = strings.TrimSpace(expr)
	if strings.HasPrefix(name, "!") {
		negate = true
		name = strings.TrimSpace(name[1:])
	}
	if !validFlagName(name) {
		return "", false, &ConfigError{
			Field:  "Condition",
			Reason: "malformed flag expression " + strconv.Quote(expr),
		}
	}
	return name, negate, nil
}

func validFlagName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '.' || r == '-'):
		default:
			return false
		}
	}
	return true
}
