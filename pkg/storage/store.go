package storage

import (
	"github.com/cephqe/harness/pkg/types"
)

// Store defines the interface for cluster snapshot storage. Snapshots
// hold only the persisted specs: live connection handles never reach the
// store, and restoring a snapshot reconstructs nodes that reconnect
// lazily on first use.
type Store interface {
	// Clusters
	SaveCluster(spec types.ClusterSpec) error
	GetCluster(name string) (types.ClusterSpec, error)
	ListClusters() ([]types.ClusterSpec, error)
	DeleteCluster(name string) error

	// Nodes
	GetNode(cluster, address string) (types.NodeSpec, error)

	// Utility
	Close() error
}
