package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "landreg"

// Outcome labels.
const (
	OutcomeOK             = "ok"
	OutcomeHTTPError      = "http_error"
	OutcomeTransportError = "transport_error"
	OutcomeError          = "error"
)

// Metrics bundles the collectors used across the client.
type Metrics struct {
	ChainRequests *prometheus.CounterVec
	ChainLatency  *prometheus.HistogramVec
	Resolutions   *prometheus.CounterVec
	Submissions   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg when reg is non-nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChainRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "requests_total",
			Help:      "Node REST requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		ChainLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "request_duration_seconds",
			Help:      "Node REST request latency by endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "resolutions_total",
			Help:      "Registry reads by operation, source tier and outcome.",
		}, []string{"operation", "source", "outcome"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatcher",
			Name:      "submissions_total",
			Help:      "Wallet submissions by entry function and outcome.",
		}, []string{"function", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.ChainRequests, m.ChainLatency, m.Resolutions, m.Submissions)
	}
	return m
}

// ObserveChainRequest records one node request.
func (m *Metrics) ObserveChainRequest(endpoint, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.ChainRequests.WithLabelValues(endpoint, outcome).Inc()
	m.ChainLatency.WithLabelValues(endpoint).Observe(took.Seconds())
}

// ObserveResolution records one resolver operation.
func (m *Metrics) ObserveResolution(operation, source, outcome string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(operation, source, outcome).Inc()
}

// ObserveSubmission records one wallet submission.
func (m *Metrics) ObserveSubmission(function, outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(function, outcome).Inc()
}

// WriteTextfile writes everything g gathers to path in the text exposition
// format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
