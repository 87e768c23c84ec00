package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cephqe/harness/pkg/types"
)

func TestNewCephObjectVariants(t *testing.T) {
	n := NewNode(types.NodeSpec{Address: "10.0.0.1"})

	tests := []struct {
		role types.Role
		kind ObjectKind
	}{
		{types.RoleMon, KindDemon},
		{types.RoleOSD, KindDemon},
		{types.RoleMgr, KindDemon},
		{types.RoleRGW, KindDemon},
		{types.RoleMDS, KindDemon},
		{types.RoleClient, KindClient},
		{types.RoleInstaller, KindInstaller},
		{types.Role("grafana"), KindGeneric},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			obj := NewCephObject(tt.role, n)
			require.NotNil(t, obj)
			assert.Equal(t, tt.kind, obj.Kind)
			assert.Equal(t, tt.role, obj.Role)
			assert.Same(t, n, obj.Node())
		})
	}
}

func TestNewCephObjectPoolYieldsNothing(t *testing.T) {
	n := NewNode(types.NodeSpec{Address: "10.0.0.1"})
	assert.Nil(t, NewCephObject(types.RolePool, n))
}

func TestContainerName(t *testing.T) {
	n := NewNode(types.NodeSpec{Address: "10.0.0.1", Hostname: "mon-0.example.com"})

	demon := NewCephObject(types.RoleMon, n)
	demon.Containerized = true
	assert.Equal(t, "ceph-mon-mon-0.example.com", demon.ContainerName())

	bare := NewCephObject(types.RoleOSD, n)
	assert.Empty(t, bare.ContainerName(), "non-containerized demons run on the host")

	client := NewCephObject(types.RoleClient, n)
	client.Containerized = true
	assert.Empty(t, client.ContainerName(), "containerization only applies to demons")
}

func TestEffectiveCommand(t *testing.T) {
	n := NewNode(types.NodeSpec{Address: "10.0.0.1", Hostname: "osd-1"})

	demon := NewCephObject(types.RoleOSD, n)
	assert.Equal(t, "ceph osd tree", demon.effectiveCommand("ceph osd tree"))

	demon.Containerized = true
	assert.Equal(t,
		"sudo docker exec ceph-osd-osd-1 ceph osd tree",
		demon.effectiveCommand("ceph osd tree"))
}

func TestObjectExecCommandRoutesThroughNode(t *testing.T) {
	n, user, _ := testNode(t, types.NodeSpec{Address: "10.0.0.1", Hostname: "mon-0"})
	demon := n.CreateCephObject(types.RoleMon)
	require.NotNil(t, demon)
	demon.Containerized = true

	_, err := demon.ExecCommand("ceph -s", ExecOptions{})
	require.NoError(t, err)
	assert.Equal(t, "sudo docker exec ceph-mon-mon-0 ceph -s", user.lastCmd())
}

func TestObjectPkgTypeFollowsNode(t *testing.T) {
	n := NewNode(types.NodeSpec{Address: "10.0.0.1"})
	obj := n.CreateCephObject(types.RoleClient)
	require.NotNil(t, obj)

	n.pkgType = types.PackageRPM
	assert.Equal(t, types.PackageRPM, obj.PkgType())
}
