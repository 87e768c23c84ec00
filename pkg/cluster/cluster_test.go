package cluster

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cephqe/harness/pkg/types"
)

func testCluster() (*Cluster, []*Node) {
	nodes := []*Node{
		NewNode(types.NodeSpec{
			Address: "10.0.0.1",
			Roles:   []types.Role{types.RoleMon, types.RoleMgr},
		}),
		NewNode(types.NodeSpec{
			Address:     "10.0.0.2",
			Roles:       []types.Role{types.RoleOSD},
			VolumeCount: 3,
		}),
		NewNode(types.NodeSpec{
			Address: "10.0.0.3",
			Roles:   []types.Role{types.RoleClient, types.RoleMon},
		}),
	}
	return NewCluster("ceph-qe", nodes...), nodes
}

func TestGetNodesByRole(t *testing.T) {
	c, nodes := testCluster()

	tests := []struct {
		name string
		role types.Role
		want []*Node
	}{
		{"all nodes on empty role", "", nodes},
		{"mon spans two nodes", types.RoleMon, []*Node{nodes[0], nodes[2]}},
		{"single osd", types.RoleOSD, []*Node{nodes[1]}},
		{"single client", types.RoleClient, []*Node{nodes[2]}},
		{"no rgw anywhere", types.RoleRGW, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.GetNodes(tt.role))
		})
	}
}

func TestGetNodesReturnsCopy(t *testing.T) {
	c, nodes := testCluster()

	got := c.GetNodes("")
	got[0] = nil
	assert.Same(t, nodes[0], c.Node(0), "mutating the returned slice leaves the cluster intact")
}

func TestGetCephObjectsFlattens(t *testing.T) {
	c, _ := testCluster()

	mons := c.GetCephObjects(types.RoleMon)
	require.Len(t, mons, 2)
	for _, obj := range mons {
		assert.Equal(t, types.RoleMon, obj.Role)
	}

	// 2 mon + 1 mgr + 1 osd + 1 client
	assert.Len(t, c.GetCephObjects(""), 5)
}

func TestMatchesIsContainment(t *testing.T) {
	c, nodes := testCluster()
	subset := NewCluster("mons-only", c.GetNodes(types.RoleMon)...)

	assert.True(t, subset.Matches(c), "subset is contained in its parent")
	assert.False(t, c.Matches(subset), "parent is not contained in the subset")
	assert.True(t, c.Matches(c), "every cluster contains itself")
	assert.False(t, c.Matches(nil))

	// Containment is by node identity, not by equal specs
	clone := FromSpec(c.Spec())
	assert.False(t, c.Matches(clone))

	empty := NewCluster("empty")
	assert.True(t, empty.Matches(c), "empty cluster is contained in everything")

	_ = nodes
}

func TestAppendAndRemove(t *testing.T) {
	c, nodes := testCluster()

	extra := NewNode(types.NodeSpec{Address: "10.0.0.4", Roles: []types.Role{types.RoleRGW}})
	c.Append(extra)
	assert.Equal(t, 4, c.Len())
	assert.Len(t, c.GetNodes(types.RoleRGW), 1)

	c.Remove(extra)
	assert.Equal(t, 3, c.Len())
	assert.Empty(t, c.GetNodes(types.RoleRGW))

	// Removing a node not present is a no-op
	c.Remove(extra)
	assert.Equal(t, 3, c.Len())
	assert.Same(t, nodes[0], c.Node(0))
}

func TestClusterConnect(t *testing.T) {
	cl := NewCluster("ceph-qe")
	for i, addr := range []string{"10.0.0.1", "10.0.0.2"} {
		n, user, _ := testNode(t, types.NodeSpec{
			Address:     addr,
			Credentials: types.Credentials{User: "cephuser", Password: "secret"},
			Roles:       []types.Role{types.RoleMon},
		})
		user.responses = map[string]types.CommandResult{
			"hostname": {Stdout: fmt.Sprintf("mon-%d\n", i)},
			"/sbin/ifconfig eth0 | grep 'inet ' | awk '{ print $2}'": {Stdout: fmt.Sprintf("192.168.0.%d\n", i+1)},
		}
		cl.Append(n)
	}

	require.NoError(t, cl.Connect())
	for _, n := range cl.Nodes() {
		assert.True(t, n.Connected())
	}
}

func TestClusterSpecRoundTrip(t *testing.T) {
	c, _ := testCluster()

	spec := c.Spec()
	assert.Equal(t, "ceph-qe", spec.Name)
	require.Len(t, spec.Nodes, 3)
	assert.Equal(t, 3, spec.Nodes[1].VolumeCount)

	restored := FromSpec(spec)
	assert.Equal(t, c.Name(), restored.Name())
	assert.Equal(t, c.Len(), restored.Len())
	for i := range spec.Nodes {
		assert.True(t, restored.Node(i).Roles().StructurallyEquals(c.Node(i).Roles()))
		assert.Equal(t, c.Node(i).Address(), restored.Node(i).Address())
	}
	assert.Len(t, restored.Node(1).GetAllocatedVolumes(), 3, "osd volumes re-allocated on reconstruction")
}
