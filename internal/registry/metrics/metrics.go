package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registry module. Counters track the
// three mutation families; the histogram covers the create-attribute cascade,
// the most expensive path.
type Metrics struct {
	AttributesCreated       prometheus.Counter
	TraitsAdded             prometheus.Counter
	CIDUpdates              prometheus.Counter
	CreateAttributeDuration prometheus.Histogram
}

// New creates a Metrics instance with all registry metrics registered.
func New() *Metrics {
	return &Metrics{
		AttributesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "easel_attributes_created_total",
			Help: "Total number of attributes created",
		}),
		TraitsAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "easel_traits_added_total",
			Help: "Total number of traits added across all attributes",
		}),
		CIDUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "easel_cid_updates_total",
			Help: "Total number of CID history appends",
		}),
		CreateAttributeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "easel_create_attribute_duration_seconds",
			Help:    "Duration of the create-attribute cascade",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementAttributesCreated records a successful attribute creation.
func (m *Metrics) IncrementAttributesCreated() {
	m.AttributesCreated.Inc()
}

// AddTraitsAdded records n successful trait insertions.
func (m *Metrics) AddTraitsAdded(n int) {
	m.TraitsAdded.Add(float64(n))
}

// IncrementCIDUpdates records a successful CID history append.
func (m *Metrics) IncrementCIDUpdates() {
	m.CIDUpdates.Inc()
}

// ObserveCreateAttribute records the duration of a create-attribute call.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveCreateAttribute(start time.Time) {
	m.CreateAttributeDuration.Observe(time.Since(start).Seconds())
}
