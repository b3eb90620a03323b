package boundary

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/palisade/boundary.go/errbatch"
	"github.com/palisade/boundary.go/log"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Hooks are the overridable decision and notification points of a Policy.
//
// All fields are optional.
// A nil field falls back to the default behavior documented on it.
// Hooks are fixed at construction time;
// overrides that share mutable state are responsible for their own thread
// safety (the defaults are stateless).
type Hooks struct {
	// ShouldPropagate reports whether the captured panic must be re-raised
	// rather than suppressed.
	//
	// Default: true if and only if the capture matches one of the
	// configured DontCatch entries.
	ShouldPropagate func(*Capture) bool

	// ShouldLog reports whether the capture should be logged at all.
	// Only consulted for panics that are being suppressed;
	// propagated panics escape without logging.
	//
	// Default: always true.
	ShouldLog func(*Capture) bool

	// LoggersFor returns the loggers to notify for this capture.
	//
	// Default: the configured Loggers, unchanged.
	LoggersFor func(*Capture) []Logger

	// Log performs the actual logging.
	//
	// Default: calls every logger returned by LoggersFor in order.
	// A panic inside one logger does not prevent the remaining loggers
	// from running; such failures are batched up and reported to the
	// fallback channel, the log package's global logger at error level.
	Log func(*Capture)

	// OnNoPanic is called once when the protected region completed
	// without panicking. Default: no-op.
	OnNoPanic func()

	// OnPropagate is called immediately before re-raising the panic.
	// Default: no-op.
	OnPropagate func(*Capture)

	// OnSuppress is called immediately before suppressing the panic.
	// Default: no-op.
	OnSuppress func(*Capture)
}

// Config is the configuration accepted by New and NewConditional.
type Config struct {
	// DontCatch lists panic types that are never suppressed.
	//
	// Each entry is either a reflect.Type,
	// or a sample value whose dynamic type will be used,
	// e.g. MyError{}, (*net.OpError)(nil), or os.Interrupt.
	//
	// A capture matches an entry when the panic value's dynamic type is the
	// entry type, implements the entry interface type,
	// or, for entry types implementing error,
	// when an error in the capture's wrap chain matches per errors.As.
	//
	// Note that matching is type based, not value based:
	// sentinel errors created by errors.New all share one dynamic type,
	// so listing one of them would match all of them.
	// Use dedicated error types for entries instead.
	//
	// Nil entries are malformed and rejected by New with a *ConfigError.
	DontCatch []interface{}

	// Loggers is the ordered list of logger collaborators to notify.
	//
	// If empty, a single ConsoleLogger is used.
	Loggers []Logger

	// Hooks overrides the decision/notification points.
	// See the Hooks documentation for the defaults.
	Hooks Hooks
}

// Policy is a reusable error boundary configuration:
// which panic types to never intercept,
// which logging collaborators to notify,
// and the decision hooks tying them together.
//
// A Policy is immutable after construction and holds no per-activation
// state, so a single instance can be used for any number of protected
// regions, including concurrently from multiple goroutines.
//
// Use New or NewConditional to create one.
type Policy struct {
	dontCatch []reflect.Type
	loggers   []Logger
	hooks     Hooks

	// Inactive policies pass every panic through untouched.
	// See NewConditional.
	active bool
}

// New creates a Policy from the given Config.
//
// It fails with a *ConfigError if any DontCatch entry is malformed.
func New(cfg Config) (*Policy, error) {
	dontCatch, err := compileDontCatch(cfg.DontCatch)
	if err != nil {
		return nil, err
	}
	loggers := cfg.Loggers
	if len(loggers) == 0 {
		loggers = []Logger{ConsoleLogger()}
	} else {
		loggers = append([]Logger(nil), loggers...)
	}
	return &Policy{
		dontCatch: dontCatch,
		loggers:   loggers,
		hooks:     cfg.Hooks,
		active:    true,
	}, nil
}

func compileDontCatch(entries []interface{}) ([]reflect.Type, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	types := make([]reflect.Type, 0, len(entries))
	for i, entry := range entries {
		if entry == nil {
			return nil, &ConfigError{
				Field:  fmt.Sprintf("DontCatch[%d]", i),
				Reason: "nil is not a panic type identifier",
			}
		}
		if t, ok := entry.(reflect.Type); ok {
			types = append(types, t)
			continue
		}
		types = append(types, reflect.TypeOf(entry))
	}
	return types, nil
}

// matches reports whether the capture's panic type is,
// or is wrapped into, one of the compiled DontCatch types.
func (p *Policy) matches(c *Capture) bool {
	valueType := reflect.TypeOf(c.Value)
	for _, t := range p.dontCatch {
		if matchType(t, valueType, c.Err) {
			return true
		}
	}
	return false
}

func matchType(t, valueType reflect.Type, err error) bool {
	if valueType != nil {
		if valueType == t {
			return true
		}
		if t.Kind() == reflect.Interface && valueType.Implements(t) {
			return true
		}
	}
	// Walk the wrap chain for error typed entries,
	// so a dont-catch type survives fmt.Errorf("...: %w", err) wrapping.
	if err == nil {
		return false
	}
	if t.Kind() != reflect.Interface && !t.Implements(errorType) {
		return false
	}
	return errors.As(err, reflect.New(t).Interface())
}

// The default hook dispatch. Each helper prefers the override when set.

func (p *Policy) shouldPropagate(c *Capture) bool {
	if h := p.hooks.ShouldPropagate; h != nil {
		return h(c)
	}
	return p.matches(c)
}

func (p *Policy) shouldLog(c *Capture) bool {
	if h := p.hooks.ShouldLog; h != nil {
		return h(c)
	}
	return true
}

func (p *Policy) loggersFor(c *Capture) []Logger {
	if h := p.hooks.LoggersFor; h != nil {
		return h(c)
	}
	return p.loggers
}

func (p *Policy) logCapture(c *Capture) {
	if h := p.hooks.Log; h != nil {
		h(c)
		return
	}
	var batch errbatch.Batch
	for i, logger := range p.loggersFor(c) {
		batch.Add(callLogger(i, logger, c))
	}
	if err := batch.Compile(); err != nil {
		// The fallback channel for logger failures.
		log.Errorw("boundary: logger failed", "err", err)
	}
}

// callLogger isolates one logger call,
// converting a panic inside the logger into a returned error.
func callLogger(i int, logger Logger, c *Capture) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("boundary: logger #%d panicked: %v", i, r)
		}
	}()
	if logger == nil {
		return fmt.Errorf("boundary: logger #%d is nil", i)
	}
	logger.LogCapture(c)
	return nil
}

func (p *Policy) onNoPanic() {
	if h := p.hooks.OnNoPanic; h != nil {
		h()
	}
}

func (p *Policy) onPropagate(c *Capture) {
	if h := p.hooks.OnPropagate; h != nil {
		h(c)
	}
}

func (p *Policy) onSuppress(c *Capture) {
	if h := p.hooks.OnSuppress; h != nil {
		h(c)
	}
}
