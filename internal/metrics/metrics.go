// Package metrics registers the small set of Prometheus collectors the
// client and server packages report through, grounded on
// loopholelabs-silo's MetricsConfig/New registration pattern. The core
// codec and command packages stay free of this dependency; only client
// and server take an optional sink.
package metrics

import (
	"github.com/compico/mirlib/command"
	"github.com/prometheus/client_golang/prometheus"
)

// Sink is the metrics surface client.Client and server.Server accept.
// Client and Server default to NoopSink when no Sink is given, so metrics
// remain optional; a nil Sink is not accepted.
type Sink interface {
	ObserveTransaction(command byte, result string, seconds float64)
	ObserveRequest(command byte, result string)
}

// Metrics is a concrete Sink backed by Prometheus collectors, registered
// under the mirlib namespace.
type Metrics struct {
	clientTransactions *prometheus.CounterVec
	clientDuration     *prometheus.HistogramVec
	serverRequests     *prometheus.CounterVec
}

// New creates and registers the collectors against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		clientTransactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mirlib", Subsystem: "client", Name: "transactions_total",
			Help: "Client transactions by command code and result.",
		}, []string{"command", "result"}),
		clientDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mirlib", Subsystem: "client", Name: "transaction_duration_seconds",
			Help: "Client transaction duration by command code.",
		}, []string{"command"}),
		serverRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mirlib", Subsystem: "server", Name: "requests_total",
			Help: "Server dispatch outcomes by command code and result.",
		}, []string{"command", "result"}),
	}
	reg.MustRegister(m.clientTransactions, m.clientDuration, m.serverRequests)
	return m
}

func (m *Metrics) ObserveTransaction(command byte, result string, seconds float64) {
	label := commandLabel(command)
	m.clientTransactions.WithLabelValues(label, result).Inc()
	m.clientDuration.WithLabelValues(label).Observe(seconds)
}

func (m *Metrics) ObserveRequest(command byte, result string) {
	m.serverRequests.WithLabelValues(commandLabel(command), result).Inc()
}

func commandLabel(code byte) string {
	switch code {
	case command.CodePing:
		return "ping"
	case command.CodeReadStatus:
		return "read_status"
	case command.CodeReadDateTime:
		return "read_date_time"
	case command.CodeReadInstantValue:
		return "read_instant_value"
	case command.CodeGetInfo:
		return "get_info"
	default:
		return "unknown"
	}
}

// NoopSink discards every observation, used as the default when a Client
// or Server is constructed without an explicit Sink.
type noopSink struct{}

func (noopSink) ObserveTransaction(byte, string, float64) {}
func (noopSink) ObserveRequest(byte, string)               {}

// NoopSink is the default, no-op Sink.
var NoopSink Sink = noopSink{}
