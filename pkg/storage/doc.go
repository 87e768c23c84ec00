/*
Package storage provides persistent snapshot storage for cluster state
using BoltDB.

A harness run that provisions a large cluster wants to survive its own
restarts: the snapshot store persists the cluster's spec (node identity,
credentials, roles, volume counts) so a later process can rebuild the
same cluster object and pick up where the run left off. Live SSH handles
are never part of a snapshot; reconstruction is a pure function of the
persisted spec, and connections re-establish lazily on first use.

# Architecture

	┌──────────────────── SNAPSHOT STORE ────────────────────┐
	│                                                        │
	│  ┌───────────────────────────────────────────┐         │
	│  │              Store Interface              │         │
	│  │  SaveCluster / GetCluster / ListClusters  │         │
	│  │  DeleteCluster / GetNode                  │         │
	│  └──────────────────┬────────────────────────┘         │
	│                     │                                  │
	│  ┌──────────────────▼────────────────────────┐         │
	│  │              BoltStore                    │         │
	│  │  - single-file embedded database          │         │
	│  │  - ACID transactions                      │         │
	│  │  - JSON-encoded spec records              │         │
	│  └──────────────────┬────────────────────────┘         │
	│                     │                                  │
	│        ┌────────────┴────────────┐                     │
	│        ▼                         ▼                     │
	│  clusters bucket           nodes bucket                │
	│  name → ClusterSpec        cluster/addr → NodeSpec     │
	└────────────────────────────────────────────────────────┘

# Usage

	store, err := storage.NewBoltStore("/var/lib/harness")
	if err != nil {
		return err
	}
	defer store.Close()

	// Snapshot a live cluster
	if err := store.SaveCluster(cl.Spec()); err != nil {
		return err
	}

	// Later, possibly in another process
	spec, err := store.GetCluster("scale-a")
	if err != nil {
		return err
	}
	cl := cluster.FromSpec(spec)

# Data Layout

clusters bucket:
  - key: cluster name
  - value: JSON ClusterSpec (includes embedded node specs)

nodes bucket:
  - key: "<cluster>/<address>"
  - value: JSON NodeSpec, for direct single-node lookup

# Integration Points

  - pkg/cluster: Spec()/FromSpec() round-trip
  - pkg/types: the persisted record shapes
  - cmd/harness: snapshot save/restore commands
*/
package storage
