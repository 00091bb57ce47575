package stream

import "github.com/prometheus/client_golang/prometheus"

// Record outcomes counted by Metrics.
const (
	OutcomeChanged   = "changed"
	OutcomeUnchanged = "unchanged"
	OutcomeSkipped   = "skipped"
	OutcomeInvalid   = "invalid"
	OutcomeFailed    = "failed"
)

// Metrics holds the Prometheus collectors of a Handler.
type Metrics struct {
	// Records counts processed stream records by outcome.
	Records *prometheus.CounterVec

	// AttributesChanged counts attributes reported to the sink.
	AttributesChanged prometheus.Counter
}

// NewMetrics creates the handler collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modelattr_stream_records_total",
				Help: "Total number of DynamoDB stream records handled, by outcome",
			},
			[]string{"outcome"},
		),
		AttributesChanged: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "modelattr_stream_attributes_changed_total",
				Help: "Total number of changed attributes reported to the sink",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Records, m.AttributesChanged)
	}
	return m
}

func (m *Metrics) record(outcome string) {
	if m == nil {
		return
	}
	m.Records.WithLabelValues(outcome).Inc()
}

func (m *Metrics) changed(n int) {
	if m == nil {
		return
	}
	m.AttributesChanged.Add(float64(n))
}
