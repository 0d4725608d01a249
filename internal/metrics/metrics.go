// Package metrics exports controller state as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/servo-bench/internal/control"
	"github.com/sweeney/servo-bench/internal/gpio"
	"github.com/sweeney/servo-bench/internal/logic"
)

const namespace = "servo_bench"

// Metrics holds the collectors and the registry they are registered with.
type Metrics struct {
	registry *prometheus.Registry

	State         prometheus.Gauge
	Transitions   *prometheus.CounterVec
	Pulse         prometheus.Gauge
	Indicator     prometheus.Gauge
	Inputs        *prometheus.GaugeVec
	ReadErrors    prometheus.Counter
	WriteErrors   prometheus.Counter
	PublishErrors prometheus.Counter
	Dropped       prometheus.Gauge
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		State: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state",
			Help:      "Current controller state code.",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_entries_total",
			Help:      "Number of times each state has been entered.",
		}, []string{"state"}),
		Pulse: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pulse_microseconds",
			Help:      "Commanded servo pulse width.",
		}),
		Indicator: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indicator",
			Help:      "Indicator output level.",
		}),
		Inputs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "input_debounced",
			Help:      "Debounced input level per channel.",
		}, []string{"channel"}),
		ReadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_errors_total",
			Help:      "Input reads that failed and skipped an iteration.",
		}),
		WriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_errors_total",
			Help:      "Output writes that failed.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "MQTT publishes that failed.",
		}),
		Dropped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "diagnostics_dropped",
			Help:      "State changes dropped by full diagnostic queues.",
		}),
	}

	m.registry.MustRegister(
		m.State,
		m.Transitions,
		m.Pulse,
		m.Indicator,
		m.Inputs,
		m.ReadErrors,
		m.WriteErrors,
		m.PublishErrors,
		m.Dropped,
	)

	// expose every state and channel from the start
	for _, s := range logic.States {
		m.Transitions.WithLabelValues(s.String())
	}
	for _, ch := range gpio.Channels {
		m.Inputs.WithLabelValues(ch.String())
	}
	return m
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StateChanged counts the entry into t.To.
func (m *Metrics) StateChanged(t logic.Transition) {
	m.Transitions.WithLabelValues(t.To.String()).Inc()
}

// Observe records what one loop iteration commanded.
func (m *Metrics) Observe(snap control.Snapshot) {
	m.State.Set(float64(snap.State.Code()))
	m.Pulse.Set(float64(snap.Command.PulseWidth().Microseconds()))
	m.Indicator.Set(gauge(snap.Indicator))
	m.Inputs.WithLabelValues(gpio.ArmFire.String()).Set(gauge(snap.Debounced.ArmFire))
	m.Inputs.WithLabelValues(gpio.Disarm.String()).Set(gauge(snap.Debounced.Disarm))
	m.Inputs.WithLabelValues(gpio.CamSwitch.String()).Set(gauge(snap.Debounced.CamSwitch))
}

func gauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
