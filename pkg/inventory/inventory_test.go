package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cephqe/harness/pkg/types"
)

const validManifest = `
apiVersion: harness/v1
kind: Cluster
metadata:
  name: ceph-qe
  labels:
    environment: lab
spec:
  nodes:
    - address: 10.0.0.1
      hostname: mon-0.example.com
      credentials:
        user: cephuser
        password: secret
      rootCredentials:
        user: root
        password: rootpw
      roles: [mon, mgr]
    - address: 10.0.0.2
      credentials:
        user: cephuser
        password: secret
      roles: [osd]
      volumeCount: 3
`

func TestParseValidManifest(t *testing.T) {
	spec, err := Parse([]byte(validManifest))
	require.NoError(t, err)

	assert.Equal(t, "ceph-qe", spec.Name)
	require.Len(t, spec.Nodes, 2)

	assert.Equal(t, "10.0.0.1", spec.Nodes[0].Address)
	assert.Equal(t, "mon-0.example.com", spec.Nodes[0].Hostname)
	assert.Equal(t, "cephuser", spec.Nodes[0].Credentials.User)
	assert.Equal(t, "root", spec.Nodes[0].RootCredentials.User)
	assert.Equal(t, []types.Role{types.RoleMon, types.RoleMgr}, spec.Nodes[0].Roles)

	assert.Equal(t, 3, spec.Nodes[1].VolumeCount)
}

func TestParseRejectsInvalidManifests(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "not yaml",
			input:   "{{{",
			wantErr: "failed to parse YAML",
		},
		{
			name: "wrong kind",
			input: `
kind: Deployment
metadata:
  name: ceph-qe
`,
			wantErr: "unsupported manifest kind",
		},
		{
			name: "missing name",
			input: `
kind: Cluster
spec:
  nodes: []
`,
			wantErr: "metadata.name is required",
		},
		{
			name: "node without address",
			input: `
kind: Cluster
metadata:
  name: ceph-qe
spec:
  nodes:
    - credentials:
        user: cephuser
`,
			wantErr: "address is required",
		},
		{
			name: "node without user",
			input: `
kind: Cluster
metadata:
  name: ceph-qe
spec:
  nodes:
    - address: 10.0.0.1
`,
			wantErr: "credentials.user is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cluster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validManifest), 0644))

	spec, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ceph-qe", spec.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read file")
}
