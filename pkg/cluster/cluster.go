package cluster

import (
	"github.com/rs/zerolog"

	"github.com/cephqe/harness/pkg/events"
	"github.com/cephqe/harness/pkg/log"
	"github.com/cephqe/harness/pkg/types"
)

// Cluster is an ordered collection of nodes. Order matters for iteration
// and display only, never for equality.
type Cluster struct {
	name   string
	nodes  []*Node
	logger zerolog.Logger
}

// NewCluster creates a cluster from the given nodes
func NewCluster(name string, nodes ...*Node) *Cluster {
	return &Cluster{
		name:   name,
		nodes:  nodes,
		logger: log.WithCluster(name),
	}
}

// FromSpec reconstructs a cluster from its persisted form. Connections
// are re-established lazily on first use.
func FromSpec(spec types.ClusterSpec) *Cluster {
	nodes := make([]*Node, 0, len(spec.Nodes))
	for _, ns := range spec.Nodes {
		nodes = append(nodes, NewNode(ns))
	}
	return NewCluster(spec.Name, nodes...)
}

// Name returns the cluster name
func (c *Cluster) Name() string {
	return c.name
}

// Len returns the number of nodes
func (c *Cluster) Len() int {
	return len(c.nodes)
}

// Node returns the node at index i
func (c *Cluster) Node(i int) *Node {
	return c.nodes[i]
}

// Nodes returns the ordered node list
func (c *Cluster) Nodes() []*Node {
	return c.nodes
}

// Append adds a node to the cluster
func (c *Cluster) Append(n *Node) {
	c.nodes = append(c.nodes, n)
}

// Remove deletes the given node from the cluster
func (c *Cluster) Remove(n *Node) {
	for i, node := range c.nodes {
		if node == n {
			c.nodes = append(c.nodes[:i], c.nodes[i+1:]...)
			return
		}
	}
}

// GetNodes returns the nodes whose role set contains the given role, or
// all nodes when role is empty. Matching uses membership semantics, so a
// node running several roles is returned for each of them.
func (c *Cluster) GetNodes(role types.Role) []*Node {
	if role == "" {
		out := make([]*Node, len(c.nodes))
		copy(out, c.nodes)
		return out
	}
	var out []*Node
	for _, n := range c.nodes {
		if n.Roles().Matches(role) {
			out = append(out, n)
		}
	}
	return out
}

// GetCephObjects flattens the ceph objects matching the role across the
// role-filtered node set, or every object on every node when role is
// empty.
func (c *Cluster) GetCephObjects(role types.Role) []*CephObject {
	var out []*CephObject
	for _, n := range c.GetNodes(role) {
		out = append(out, n.GetCephObjects(role)...)
	}
	return out
}

// Matches reports whether every node of this cluster is present in the
// other. This is containment, not set equality, and it is deliberately
// asymmetric: a filtered subset matches its parent cluster but not the
// reverse.
func (c *Cluster) Matches(other *Cluster) bool {
	if other == nil {
		return false
	}
	for _, n := range c.nodes {
		found := false
		for _, o := range other.nodes {
			if n == o {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// SetBroker attaches an event broker to every node in the cluster
func (c *Cluster) SetBroker(b *events.Broker) {
	for _, n := range c.nodes {
		n.SetBroker(b)
	}
}

// Connect runs first-contact setup on every node, stopping at the first
// failure.
func (c *Cluster) Connect() error {
	c.logger.Info().Int("nodes", len(c.nodes)).Msg("connecting cluster")
	for _, n := range c.nodes {
		if err := n.Connect(); err != nil {
			c.logger.Error().Str("node", n.Address()).Err(err).Msg("cluster connect failed")
			return err
		}
	}
	c.logger.Info().Int("nodes", len(c.nodes)).Msg("cluster connected")
	return nil
}

// Spec returns the cluster's persisted form
func (c *Cluster) Spec() types.ClusterSpec {
	spec := types.ClusterSpec{Name: c.name}
	for _, n := range c.nodes {
		spec.Nodes = append(spec.Nodes, n.Spec())
	}
	return spec
}

// Close tears down every node's connections
func (c *Cluster) Close() error {
	var first error
	for _, n := range c.nodes {
		if err := n.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
