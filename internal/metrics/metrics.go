// Package metrics exposes habit activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/starford/habitus/internal/habitstore"
	"github.com/starford/habitus/internal/models"
)

// Source is the read side of the store used by gauges.
type Source interface {
	OverallProgress() float64
	Habits() []models.Habit
}

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	Toggles     *prometheus.CounterVec
	StoreEvents *prometheus.CounterVec
}

// New registers collectors backed by src.
func New(src Source) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		Toggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "habitus_toggles_total",
				Help: "Completion toggles by resulting action",
			},
			[]string{"action"}, // action: completed, uncompleted
		),
		StoreEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "habitus_store_events_total",
				Help: "Store events by kind",
			},
			[]string{"kind"},
		),
	}

	reg.MustRegister(
		m.Toggles,
		m.StoreEvents,
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "habitus_overall_progress_percent",
				Help: "Completed day slots over summed weekly targets, in percent",
			},
			src.OverallProgress,
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "habitus_habits",
				Help: "Number of tracked habits",
			},
			func() float64 { return float64(len(src.Habits())) },
		),
	)
	return m
}

// Observer counts store events.
func (m *Metrics) Observer() habitstore.EventCallback {
	return func(ev habitstore.Event) {
		m.StoreEvents.WithLabelValues(string(ev.Kind)).Inc()
		switch ev.Kind {
		case habitstore.EventCompleted, habitstore.EventUncompleted:
			m.Toggles.WithLabelValues(string(ev.Kind)).Inc()
		}
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
