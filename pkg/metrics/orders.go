package metrics

import "github.com/prometheus/client_golang/prometheus"

// Transition results.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// OrderMetrics covers the order workflow: intake, status transitions, the
// best-effort status log and the stale-order sweep.
type OrderMetrics struct {
	created          *prometheus.CounterVec
	transitions      *prometheus.CounterVec
	statusLogFailure prometheus.Counter
	stale            *prometheus.GaugeVec
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	m := &OrderMetrics{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Orders created from intake, by task kind.",
		}, []string{"kind"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "transitions_total",
			Help:      "Status transition attempts by action and result.",
		}, []string{"action", "result"}),
		statusLogFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "status_log_failures_total",
			Help:      "Status log rows that could not be written after a committed transition.",
		}),
		stale: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "stale",
			Help:      "Orders stuck in a status longer than the configured threshold.",
		}, []string{"bucket"}),
	}
	reg.MustRegister(m.created, m.transitions, m.statusLogFailure, m.stale)
	return m
}

func (m *OrderMetrics) IncCreated(kind string) {
	if m == nil || m.created == nil {
		return
	}
	m.created.WithLabelValues(normalizeLabel(kind)).Inc()
}

func (m *OrderMetrics) IncTransition(action, result string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(action), normalizeLabel(result)).Inc()
}

func (m *OrderMetrics) IncStatusLogFailure() {
	if m == nil || m.statusLogFailure == nil {
		return
	}
	m.statusLogFailure.Inc()
}

// SetStale publishes the count for a stale bucket such as "new" or "awaiting_confirmation".
func (m *OrderMetrics) SetStale(bucket string, count int) {
	if m == nil || m.stale == nil {
		return
	}
	m.stale.WithLabelValues(normalizeLabel(bucket)).Set(float64(count))
}
