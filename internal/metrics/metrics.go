// Package metrics exposes appointment workflow counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const ResultOK = "ok"

type Metrics struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
	created     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "viewingdesk",
			Name:      "appointment_transitions_total",
			Help:      "Appointment transition attempts by operation and result.",
		}, []string{"operation", "result"}),
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "viewingdesk",
			Name:      "appointments_created_total",
			Help:      "Appointment intake attempts by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(m.transitions, m.created)
	m.registry.MustRegister(collectors.NewGoCollector())
	return m
}

// Transition counts one transition attempt; result is ResultOK or an error code.
func (m *Metrics) Transition(op, result string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(op, result).Inc()
}

func (m *Metrics) Created(result string) {
	if m == nil {
		return
	}
	m.created.WithLabelValues(result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) TransitionCounter() *prometheus.CounterVec {
	return m.transitions
}

func (m *Metrics) CreatedCounter() *prometheus.CounterVec {
	return m.created
}
