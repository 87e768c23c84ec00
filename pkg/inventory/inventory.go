package inventory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cephqe/harness/pkg/types"
)

// KindCluster is the only manifest kind the harness accepts
const KindCluster = "Cluster"

// Manifest is the YAML framing of a cluster inventory file
type Manifest struct {
	APIVersion string       `yaml:"apiVersion"`
	Kind       string       `yaml:"kind"`
	Metadata   Metadata     `yaml:"metadata"`
	Spec       ManifestSpec `yaml:"spec"`
}

// Metadata identifies the manifest
type Metadata struct {
	Name   string            `yaml:"name"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

// ManifestSpec carries the cluster definition
type ManifestSpec struct {
	Nodes []types.NodeSpec `yaml:"nodes"`
}

// Load reads and parses a cluster inventory manifest from a file
func Load(path string) (types.ClusterSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ClusterSpec{}, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse parses a cluster inventory manifest and validates it
func Parse(data []byte) (types.ClusterSpec, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return types.ClusterSpec{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if m.Kind != KindCluster {
		return types.ClusterSpec{}, fmt.Errorf("unsupported manifest kind: %q", m.Kind)
	}
	if m.Metadata.Name == "" {
		return types.ClusterSpec{}, fmt.Errorf("manifest metadata.name is required")
	}

	for i, node := range m.Spec.Nodes {
		if node.Address == "" {
			return types.ClusterSpec{}, fmt.Errorf("node %d: address is required", i)
		}
		if node.Credentials.User == "" {
			return types.ClusterSpec{}, fmt.Errorf("node %s: credentials.user is required", node.Address)
		}
	}

	return types.ClusterSpec{
		Name:  m.Metadata.Name,
		Nodes: m.Spec.Nodes,
	}, nil
}
