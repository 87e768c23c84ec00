/*
Package cluster models a test cluster as an ordered set of role-tagged
nodes and routes remote command execution to them.

This is the core object model of the harness. A Cluster holds Nodes; each
Node owns two SSH connections (root and the standard account), a set of
ceph objects derived from its roles, and a pool of attachable volumes.
Ceph objects are thin proxies that route role-specific commands back
through their node, wrapping them in a container-exec prefix when the
daemon runs containerized.

# Architecture

	┌────────────────────── CLUSTER MODEL ──────────────────────┐
	│                                                           │
	│  Cluster ──── ordered []*Node                             │
	│                   │                                       │
	│                   ▼                                       │
	│  Node ─┬─ ConnectionManager (root identity)               │
	│        ├─ ConnectionManager (standard identity)           │
	│        ├─ []*CephObject  (one per non-pool role)          │
	│        └─ []*NodeVolume  (free / allocated)               │
	│                   │                                       │
	│                   ▼                                       │
	│  CephObject ── Kind ∈ {generic, demon, client, installer} │
	│        │       demons may be containerized                │
	│        └────── ExecCommand → (container prefix) → Node    │
	│                                                           │
	│  Node.ExecCommand → Runner → ConnectionManager → SSH      │
	└───────────────────────────────────────────────────────────┘

# Role Matching

A node's role set is always derived from its current ceph objects, never
stored separately. Role queries use membership semantics: GetNodes("osd")
returns every node whose role set contains osd, regardless of what else it
runs. Structural equality of role sets is a distinct, order-sensitive
operation on types.RoleSet.

Cluster equality is deliberately asymmetric: Matches reports whether every
node of the receiver is present in the argument, a containment check
rather than set equality. Consumers filter subsets of provisioned nodes
and ask "is this still part of that", which is exactly containment.

# Command Execution

	node.ExecCommand("ceph -s", cluster.ExecOptions{Sudo: true})

selects the root connection, runs the command with the default 120s
timeout, records the exit status on the node, and returns a
types.CommandError if the status is non-zero. Callers that want to
inspect failures themselves pass SkipExitCheck. Long-running commands
stream until the remote process exits:

	out, err := node.ExecCommand("rados bench 600 write",
		cluster.ExecOptions{LongRunning: true})

# First Contact

Node.Connect runs once per node lifetime: it probes liveness, arms TCP
and SSH keepalives, synchronizes the account password, discovers the
hostname and internal address, appends a session-timeout profile line,
and classifies the package family (rpm vs deb) by probing for
/etc/redhat-release. All later ExecCommand calls re-arm keepalives
before running.

# Snapshots

Cluster.Spec and FromSpec round-trip the persisted shape: node identity,
credentials, roles, and volume counts. Live SSH handles are excluded by
construction and re-established lazily after restore.

# Integration Points

  - pkg/remote: connection ownership and the Runner contract
  - pkg/types: roles, volumes, specs, typed errors
  - pkg/events: lifecycle event publication (optional broker)
  - pkg/storage: snapshot persistence
*/
package cluster
