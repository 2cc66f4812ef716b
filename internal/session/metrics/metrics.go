package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for sign-up, login and token checks.
type Metrics struct {
	SignUps prometheus.Counter

	// Login attempts by outcome: "success", "invalid_credentials", "error"
	Logins *prometheus.CounterVec

	Logouts prometheus.Counter

	ValidateDuration prometheus.Histogram
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SignUps: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventgate_signups_total",
			Help: "Total number of accounts created",
		}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventgate_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		Logouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventgate_logouts_total",
			Help: "Total number of sessions ended by logout",
		}),
		ValidateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "eventgate_session_validate_duration_seconds",
			Help:    "Duration of session token validation including revocation lookup",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
	}
}

func (m *Metrics) IncrementSignUps() {
	if m != nil {
		m.SignUps.Inc()
	}
}

func (m *Metrics) IncrementLogin(outcome string) {
	if m != nil {
		m.Logins.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementLogouts() {
	if m != nil {
		m.Logouts.Inc()
	}
}

func (m *Metrics) ObserveValidate(d time.Duration) {
	if m != nil {
		m.ValidateDuration.Observe(d.Seconds())
	}
}
