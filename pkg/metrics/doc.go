/*
Package metrics provides Prometheus metrics for harness observability.

A scale run issues tens of thousands of remote commands over hours; the
metrics package counts them, times them, and tracks the SSH reconnection
churn so a flaky network shows up as a trend rather than a buried log line.

# Metrics Exposed

Cluster:
  - harness_nodes_total{role}: cluster nodes by ceph role
  - harness_nodes_connected: nodes past first-contact setup

Commands:
  - harness_commands_total{host, outcome}: commands by host and
    outcome (ok, failed, error)
  - harness_command_duration_seconds{host}: command latency histogram

Connections:
  - harness_reconnect_attempts_total{host}: SSH redial attempts
  - harness_connection_outages_total{host}: connections abandoned after
    the outage tolerance was exceeded

# Usage

Metrics are registered at package init and updated by pkg/remote and
pkg/cluster as a side effect of normal operation. The CLI can serve them:

	http.Handle("/metrics", metrics.Handler())
	http.ListenAndServe(":9095", nil)

Then scrape with Prometheus or inspect ad hoc:

	curl localhost:9095/metrics | grep harness_commands_total

# Alerting Examples

Reconnect storm on one host:

	rate(harness_reconnect_attempts_total[5m]) > 1

Command failure ratio:

	sum(rate(harness_commands_total{outcome="failed"}[10m]))
	  / sum(rate(harness_commands_total[10m])) > 0.05
*/
package metrics
