/*
Package remote provides the resilient SSH session layer used by the harness.

Each node in a test cluster is reached over two independent SSH identities
(a standard account and root). The remote package owns exactly one of those
sessions per ConnectionManager: it dials lazily, probes liveness on every
access, and reconnects with bounded retries when a transient outage takes
the host away mid-run. On top of the connection it exposes a Runner, the
uniform command-execution contract the rest of the harness is written
against.

# Architecture

	┌──────────────────── REMOTE SESSION LAYER ─────────────────┐
	│                                                           │
	│  ┌────────────────────────────────────────────┐           │
	│  │          ConnectionManager                 │           │
	│  │  - one host, one credential pair           │           │
	│  │  - lazily dialed ssh.Client                │           │
	│  │  - liveness probed on every access         │           │
	│  │  - bounded-retry reconnect on outage       │           │
	│  │  - keepalive sender (re-armable)           │           │
	│  └──────────────────┬─────────────────────────┘           │
	│                     │                                     │
	│       ┌─────────────┼──────────────┐                      │
	│       ▼             ▼              ▼                      │
	│  ┌─────────┐  ┌───────────┐  ┌───────────┐                │
	│  │ Run     │  │ Stream    │  │ Open      │                │
	│  │ session │  │ session   │  │ SFTP      │                │
	│  │ per cmd │  │ long-     │  │ channel   │                │
	│  │ + exit  │  │ running   │  │ remote    │                │
	│  │ status  │  │ output    │  │ files     │                │
	│  └─────────┘  └───────────┘  └───────────┘                │
	└───────────────────────────────────────────────────────────┘

# Reconnection

A connection attempt that fails starts the outage clock. The manager then
retries every RetryInterval until either the dial succeeds (the clock is
cleared) or the elapsed outage exceeds OutageTimeout, at which point the
last transport error is surfaced as a types.OutageError. Hosts routinely
disappear for minutes during reboot-heavy tests; the defaults (10s retry,
300s tolerance) ride out a reboot without failing the run.

The liveness probe is recomputed on every access, never cached: a probe
result is a view of the current connection, and caching it is how stale
transports leak into command execution.

# Usage

	conn := remote.New(remote.Config{
		Host:     "osd-0.example.com",
		User:     "cephuser",
		Password: "secret",
	})

	runner := remote.NewRunner(conn)
	res, err := runner.Run("ceph -s", 120*time.Second)
	if err != nil {
		// transport-level failure (outage, timeout)
	}
	if res.ExitStatus != 0 {
		// command ran and failed; stderr captured in res.Stderr
	}

Long-running commands stream until the remote process exits:

	out, status, err := runner.Stream("rados bench 600 write")

Remote files ride an SFTP subchannel; the caller owns the handle:

	f, err := runner.Open("/etc/ceph/ceph.conf", os.O_WRONLY|os.O_CREATE)
	if err == nil {
		defer f.Close()
		f.Write(conf)
	}

# Concurrency

A ConnectionManager serializes its own reconnect path with an internal
mutex. Command sessions are multiplexed channels over the one transport;
two commands issued sequentially on the same manager execute in issue
order. Callers needing cross-command isolation should serialize at the
node level.

# Integration Points

  - pkg/cluster: each Node owns two managers (root + standard identity)
  - pkg/types: OutageError and CommandResult shapes
  - pkg/metrics: reconnect and command counters
  - pkg/log: per-retry structured logging
*/
package remote
