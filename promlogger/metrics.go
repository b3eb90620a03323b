package promlogger

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	boundary "github.com/palisade/boundary.go"
)

// Outcome label values used by the resolutions counter.
const (
	OutcomeClean      = "clean"
	OutcomeSuppressed = "suppressed"
	OutcomePropagated = "propagated"
)

var _ boundary.Logger = (*Metrics)(nil)

// Metrics counts boundary activity in prometheus.
//
// It doubles as a boundary.Logger (counting logged captures by panic type)
// and, via Hooks, as a set of notification hooks counting resolution
// outcomes.
type Metrics struct {
	logged   *prometheus.CounterVec
	resolved *prometheus.CounterVec
}

// New creates a Metrics registered on the given registerer.
//
// A nil registerer defaults to prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		logged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boundary_panics_logged_total",
			Help: "Panic captures routed to the prometheus logger collaborator, by panic type.",
		}, []string{"panic_type"}),
		resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boundary_resolutions_total",
			Help: "Boundary activations resolved, by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.logged, m.resolved)
	return m
}

// LogCapture implements boundary.Logger.
func (m *Metrics) LogCapture(c *boundary.Capture) {
	m.logged.WithLabelValues(fmt.Sprintf("%T", c.Value)).Inc()
}

// Hooks returns notification hooks counting every resolution outcome.
//
// Merge them into your boundary.Config.Hooks;
// the decision hooks are left nil so the policy defaults still apply.
func (m *Metrics) Hooks() boundary.Hooks {
	return boundary.Hooks{
		OnNoPanic: func() {
			m.resolved.WithLabelValues(OutcomeClean).Inc()
		},
		OnSuppress: func(*boundary.Capture) {
			m.resolved.WithLabelValues(OutcomeSuppressed).Inc()
		},
		OnPropagate: func(*boundary.Capture) {
			m.resolved.WithLabelValues(OutcomePropagated).Inc()
		},
	}
}
