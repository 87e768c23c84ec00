/*
Package log provides structured logging for the harness using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging
with component-specific loggers, configurable log levels, and helper
functions for common logging patterns. All logs include timestamps and
support filtering by severity level, which matters when a scale run against
a real cluster produces hours of command and reconnection traffic.

# Architecture

The logging system provides structured JSON logging with minimal overhead:

	┌──────────────────── LOGGING SYSTEM ──────────────────────┐
	│                                                           │
	│  ┌────────────────────────────────────────────┐           │
	│  │            Global Logger                   │           │
	│  │  - Zerolog instance                        │           │
	│  │  - Initialized via log.Init()              │           │
	│  │  - Thread-safe for concurrent use          │           │
	│  └──────────────────┬─────────────────────────┘           │
	│                     │                                     │
	│  ┌──────────────────▼─────────────────────────┐           │
	│  │           Configuration                    │           │
	│  │  - Level: debug/info/warn/error            │           │
	│  │  - Format: JSON or console (human)         │           │
	│  │  - Output: stdout, file, or custom writer  │           │
	│  └──────────────────┬─────────────────────────┘           │
	│                     │                                     │
	│  ┌──────────────────▼─────────────────────────┐           │
	│  │         Context Loggers                    │           │
	│  │  - WithComponent("remote")                 │           │
	│  │  - WithHost("osd-0.example.com")           │           │
	│  │  - WithCluster("scale-a")                  │           │
	│  │  - WithRole("osd")                         │           │
	│  └──────────────────┬─────────────────────────┘           │
	│                     │                                     │
	│  ┌──────────────────▼─────────────────────────┐           │
	│  │            Log Output                      │           │
	│  │                                            │           │
	│  │  JSON Format:                              │           │
	│  │  {                                         │           │
	│  │    "level": "info",                        │           │
	│  │    "component": "remote",                  │           │
	│  │    "host": "osd-0.example.com",            │           │
	│  │    "time": "2026-08-29T10:30:00Z",         │           │
	│  │    "message": "command completed"          │           │
	│  │  }                                         │           │
	│  │                                            │           │
	│  │  Console Format:                           │           │
	│  │  10:30AM INF command completed             │           │
	│  │          component=remote host=osd-0       │           │
	│  └────────────────────────────────────────────┘           │
	└───────────────────────────────────────────────────────────┘

# Core Components

Global Logger:
  - Package-level zerolog.Logger instance
  - Initialized once via log.Init()
  - Accessible from all harness packages
  - Thread-safe concurrent writes

Log Levels:
  - Debug: per-command channel details, keepalive arming
  - Info: commands issued, connects, snapshot operations
  - Warn: connection outages currently being retried
  - Error: command failures, exhausted reconnect windows
  - Fatal: unrecoverable setup errors (process exits)

Context Loggers:
  - WithComponent: subsystem name (remote, cluster, store)
  - WithHost: node address the message concerns
  - WithCluster: cluster name for multi-cluster runs
  - WithRole: ceph role a command was routed to

# Usage

Initializing the logger:

	import "github.com/cephqe/harness/pkg/log"

	// JSON output (CI runs)
	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

	// Console output (interactive debugging)
	log.Init(log.Config{
		Level:      log.DebugLevel,
		JSONOutput: false,
		Output:     os.Stdout,
	})

Simple logging:

	log.Info("cluster inventory loaded")
	log.Warn("connection outage, retrying")
	log.Error("command failed")

Structured logging:

	log.Logger.Info().
		Str("host", node.Address()).
		Str("cmd", cmd).
		Int("exit_status", res.ExitStatus).
		Msg("command completed")

Context loggers:

	connLog := log.WithComponent("remote")
	connLog.Warn().
		Str("host", cfg.Host).
		Err(err).
		Msg("connection outage")

# Integration Points

This package integrates with:

  - pkg/remote: logs every reconnect attempt and keepalive re-arm
  - pkg/cluster: logs command execution, connect() first-contact steps
  - pkg/storage: logs snapshot save/restore
  - pkg/inventory: logs manifest parsing
  - cmd/harness: initializes the global logger from CLI flags

# Best Practices

Do:
  - Use Info level for CI runs
  - Use structured fields for queryable data (host, cmd, exit_status)
  - Create component-specific loggers
  - Log errors with .Err() rather than string interpolation

Don't:
  - Log credentials (the chpasswd sync line is logged redacted)
  - Use Debug level on long scale runs
  - Concatenate strings (use .Str, .Int)

# See Also

  - Zerolog documentation: https://github.com/rs/zerolog
  - 12-Factor App Logs: https://12factor.net/logs
*/
package log
