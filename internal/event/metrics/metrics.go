package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the event membership store.
type Metrics struct {
	EventsCreated prometheus.Counter

	// Membership writes by outcome: "joined", "left", "already_joined", "noop"
	MembershipChanges *prometheus.CounterVec

	// Full snapshot reloads by result: "ok", "error"
	RefreshLatency *prometheus.HistogramVec

	SnapshotEvents prometheus.Gauge
}

// New registers the event metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the event metrics on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventgate_events_created_total",
			Help: "Total number of events created",
		}),
		MembershipChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventgate_membership_changes_total",
			Help: "Join and leave requests by outcome",
		}, []string{"outcome"}),
		RefreshLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eventgate_snapshot_refresh_duration_seconds",
			Help:    "Duration of full event snapshot reloads",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"result"}),
		SnapshotEvents: factory.NewGauge(prometheus.GaugeOpts{
			Name: "eventgate_snapshot_events",
			Help: "Number of events in the current snapshot",
		}),
	}
}

func (m *Metrics) IncrementEventsCreated() {
	if m != nil {
		m.EventsCreated.Inc()
	}
}

func (m *Metrics) IncrementMembership(outcome string) {
	if m != nil {
		m.MembershipChanges.WithLabelValues(outcome).Inc()
	}
}

// ObserveRefresh records a reload and, on success, the resulting size.
func (m *Metrics) ObserveRefresh(d time.Duration, size int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.RefreshLatency.WithLabelValues("error").Observe(d.Seconds())
		return
	}
	m.RefreshLatency.WithLabelValues("ok").Observe(d.Seconds())
	m.SnapshotEvents.Set(float64(size))
}
