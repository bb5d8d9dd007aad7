package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors the API and the worker update.
type Metrics struct {
	Registry *prometheus.Registry

	BookingAttempts *prometheus.CounterVec
	StatusChanges   *prometheus.CounterVec
	NoShowsMarked   prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

// New registers every collector on a fresh registry so tests can build as many as they need.
func New(namespace string) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		BookingAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_attempts_total",
			Help:      "Appointment create/update attempts by outcome",
		}, []string{"result"}),
		StatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_status_changes_total",
			Help:      "Appointment status transitions by target status",
		}, []string{"status"}),
		NoShowsMarked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "no_shows_marked_total",
			Help:      "Appointments marked no-show by the sweep",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"method", "route", "status"}),
	}

	m.Registry.MustRegister(
		m.BookingAttempts,
		m.StatusChanges,
		m.NoShowsMarked,
		m.RequestDuration,
	)
	return m
}

// Nop returns metrics on a private registry for callers that never expose them.
func Nop() *Metrics {
	return New("test")
}
