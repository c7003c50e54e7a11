// Package metrics exposes Prometheus collectors for the command bus and the
// projector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the ledger's Prometheus collectors.
type Metrics struct {
	CommandsDispatched *prometheus.CounterVec
	EventsAppended     prometheus.Counter
	EventsProjected    *prometheus.CounterVec
	ProjectorPauses    prometheus.Counter
	ProjectorLag       prometheus.Gauge
}

// New registers the collectors on the given registerer and returns them.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CommandsDispatched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "commands_dispatched_total",
			Help:      "Commands dispatched, by command type and outcome.",
		}, []string{"command", "outcome"}),
		EventsAppended: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "events_appended_total",
			Help:      "Events appended to the event store.",
		}),
		EventsProjected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "events_projected_total",
			Help:      "Events applied to the read model, by event type.",
		}, []string{"event"}),
		ProjectorPauses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "projector_pauses_total",
			Help:      "Times the projector paused on an invariant violation.",
		}),
		ProjectorLag: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ledger",
			Name:      "projector_lag_events",
			Help:      "Events committed to the log but not yet projected.",
		}),
	}
}
