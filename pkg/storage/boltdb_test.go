package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cephqe/harness/pkg/types"
)

func testStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testSpec(name string) types.ClusterSpec {
	return types.ClusterSpec{
		Name: name,
		Nodes: []types.NodeSpec{
			{
				Address:     "10.0.0.1",
				Hostname:    "mon-0.example.com",
				Credentials: types.Credentials{User: "cephuser", Password: "secret"},
				Roles:       []types.Role{types.RoleMon, types.RoleMgr},
			},
			{
				Address:     "10.0.0.2",
				Credentials: types.Credentials{User: "cephuser", Password: "secret"},
				Roles:       []types.Role{types.RoleOSD},
				VolumeCount: 3,
			},
		},
	}
}

func TestSaveAndGetCluster(t *testing.T) {
	store := testStore(t)
	spec := testSpec("ceph-qe")

	require.NoError(t, store.SaveCluster(spec))

	got, err := store.GetCluster("ceph-qe")
	require.NoError(t, err)
	assert.Equal(t, spec, got)
}

func TestGetClusterNotFound(t *testing.T) {
	store := testStore(t)

	_, err := store.GetCluster("nope")
	assert.ErrorContains(t, err, "cluster not found")
}

func TestListClusters(t *testing.T) {
	store := testStore(t)

	specs, err := store.ListClusters()
	require.NoError(t, err)
	assert.Empty(t, specs)

	require.NoError(t, store.SaveCluster(testSpec("alpha")))
	require.NoError(t, store.SaveCluster(testSpec("beta")))

	specs, err = store.ListClusters()
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "alpha", specs[0].Name)
	assert.Equal(t, "beta", specs[1].Name)
}

func TestSaveClusterOverwrites(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.SaveCluster(testSpec("ceph-qe")))

	updated := testSpec("ceph-qe")
	updated.Nodes = updated.Nodes[:1]
	require.NoError(t, store.SaveCluster(updated))

	got, err := store.GetCluster("ceph-qe")
	require.NoError(t, err)
	assert.Len(t, got.Nodes, 1)
}

func TestGetNode(t *testing.T) {
	store := testStore(t)
	spec := testSpec("ceph-qe")
	require.NoError(t, store.SaveCluster(spec))

	node, err := store.GetNode("ceph-qe", "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, spec.Nodes[1], node)

	_, err = store.GetNode("ceph-qe", "10.0.0.99")
	assert.ErrorContains(t, err, "node not found")
}

func TestDeleteCluster(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.SaveCluster(testSpec("ceph-qe")))

	require.NoError(t, store.DeleteCluster("ceph-qe"))

	_, err := store.GetCluster("ceph-qe")
	assert.Error(t, err)

	// Node records go with the cluster
	_, err = store.GetNode("ceph-qe", "10.0.0.1")
	assert.Error(t, err)

	// Deleting a missing cluster is not an error
	assert.NoError(t, store.DeleteCluster("ceph-qe"))
}
