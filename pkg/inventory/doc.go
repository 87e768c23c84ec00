/*
Package inventory loads cluster definitions from YAML manifests.

Provisioning tooling hands the harness a file describing the machines it
created: addresses, credentials, requested roles, and volume counts. The
inventory package parses that file into a types.ClusterSpec ready to hand
to cluster.FromSpec.

# Manifest Format

	apiVersion: harness/v1
	kind: Cluster
	metadata:
	  name: scale-a
	  labels:
	    env: ci
	spec:
	  nodes:
	    - address: 10.0.0.11
	      hostname: mon-0.example.com
	      credentials: {user: cephuser, password: secret}
	      rootCredentials: {user: root, password: secret}
	      roles: [mon, mgr]
	    - address: 10.0.0.21
	      hostname: osd-0.example.com
	      credentials: {user: cephuser, password: secret}
	      rootCredentials: {user: root, password: secret}
	      roles: [osd]
	      volumeCount: 3

# Usage

	spec, err := inventory.Load("cluster.yaml")
	if err != nil {
		return err
	}
	cl := cluster.FromSpec(spec)

Validation is structural only: the manifest kind must be Cluster, the
cluster must be named, and every node needs an address and a user. Role
strings are not restricted. Unknown roles become generic ceph objects,
which is how consumers tag custom responsibilities.
*/
package inventory
