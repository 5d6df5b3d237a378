package audit

import "github.com/prometheus/client_golang/prometheus"

// Metric label values.
const (
	sinkLabelLog    = "log"
	sinkLabelAuditd = "auditd"
)

// Metrics contains audit dispatch metrics.
type Metrics struct {
	eventsTotal        *prometheus.CounterVec
	writeFailuresTotal prometheus.Counter
}

// NewMetrics creates new audit metrics registered with the default
// registerer.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWithRegisterer(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWithRegisterer creates new audit metrics registered with
// the provided registerer. This allows the metrics to be registered
// with an embedding daemon's custom registry.
func NewMetricsWithRegisterer(namespace string, registerer prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "netaudit"
	}
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "audit",
				Name:      "events_total",
				Help:      "Total number of audit events delivered per sink",
			},
			[]string{"sink", "outcome"},
		),
		writeFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "audit",
				Name:      "transport_write_failures_total",
				Help:      "Total number of swallowed external transport write failures",
			},
		),
	}

	// Register with the provided registerer, ignoring duplicate
	// registration errors (safe because descriptors are identical).
	_ = registerer.Register(m.eventsTotal)
	_ = registerer.Register(m.writeFailuresTotal)

	m.Init()

	return m
}

// Init pre-populates common label combinations with zero values so the
// Vec metrics appear in /metrics output immediately after startup.
// Idempotent and safe to call multiple times.
func (m *Metrics) Init() {
	if m.eventsTotal == nil {
		return
	}

	sinks := []string{sinkLabelLog, sinkLabelAuditd}
	outcomes := []string{resultSuccess, resultFail}

	for _, s := range sinks {
		for _, o := range outcomes {
			m.eventsTotal.WithLabelValues(s, o)
		}
	}
}

// RecordEvent records one delivered audit event.
func (m *Metrics) RecordEvent(sink string, result bool) {
	if m.eventsTotal == nil {
		return
	}
	outcome := resultFail
	if result {
		outcome = resultSuccess
	}
	m.eventsTotal.WithLabelValues(sink, outcome).Inc()
}

// RecordWriteFailure records one swallowed transport write failure.
func (m *Metrics) RecordWriteFailure() {
	if m.writeFailuresTotal == nil {
		return
	}
	m.writeFailuresTotal.Inc()
}
