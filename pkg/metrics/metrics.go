package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Cluster metrics
	NodesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "harness_nodes_total",
			Help: "Total number of cluster nodes by role",
		},
		[]string{"role"},
	)

	NodesConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "harness_nodes_connected",
			Help: "Number of nodes that completed first-contact setup",
		},
	)

	// Command metrics
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harness_commands_total",
			Help: "Total number of remote commands by host and outcome",
		},
		[]string{"host", "outcome"},
	)

	CommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "harness_command_duration_seconds",
			Help:    "Remote command duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"host"},
	)

	// Connection metrics
	ReconnectAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harness_reconnect_attempts_total",
			Help: "Total number of SSH reconnect attempts by host",
		},
		[]string{"host"},
	)

	ConnectionOutages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "harness_connection_outages_total",
			Help: "Total number of connections abandoned after exceeding the outage tolerance",
		},
		[]string{"host"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(NodesTotal)
	prometheus.MustRegister(NodesConnected)
	prometheus.MustRegister(CommandsTotal)
	prometheus.MustRegister(CommandDuration)
	prometheus.MustRegister(ReconnectAttempts)
	prometheus.MustRegister(ConnectionOutages)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
