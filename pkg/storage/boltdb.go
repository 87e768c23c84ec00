package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/cephqe/harness/pkg/types"
)

var (
	// Bucket names
	bucketClusters = []byte("clusters")
	bucketNodes    = []byte("nodes")
)

// BoltStore implements Store using BoltDB
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates a new BoltDB-backed snapshot store
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "harness.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketClusters,
			bucketNodes,
		}
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Cluster snapshot operations

// SaveCluster persists a cluster spec under its name, along with each
// node spec under "<cluster>/<address>".
func (s *BoltStore) SaveCluster(spec types.ClusterSpec) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketClusters)
		data, err := json.Marshal(spec)
		if err != nil {
			return fmt.Errorf("failed to marshal cluster: %w", err)
		}
		if err := b.Put([]byte(spec.Name), data); err != nil {
			return err
		}

		nb := tx.Bucket(bucketNodes)
		for _, node := range spec.Nodes {
			nd, err := json.Marshal(node)
			if err != nil {
				return fmt.Errorf("failed to marshal node %s: %w", node.Address, err)
			}
			key := spec.Name + "/" + node.Address
			if err := nb.Put([]byte(key), nd); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetCluster loads a cluster spec by name
func (s *BoltStore) GetCluster(name string) (types.ClusterSpec, error) {
	var spec types.ClusterSpec
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketClusters)
		data := b.Get([]byte(name))
		if data == nil {
			return fmt.Errorf("cluster not found: %s", name)
		}
		return json.Unmarshal(data, &spec)
	})
	return spec, err
}

// ListClusters returns every persisted cluster spec
func (s *BoltStore) ListClusters() ([]types.ClusterSpec, error) {
	var specs []types.ClusterSpec
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketClusters)
		return b.ForEach(func(k, v []byte) error {
			var spec types.ClusterSpec
			if err := json.Unmarshal(v, &spec); err != nil {
				return fmt.Errorf("failed to unmarshal cluster %s: %w", k, err)
			}
			specs = append(specs, spec)
			return nil
		})
	})
	return specs, err
}

// DeleteCluster removes a cluster spec and its node records
func (s *BoltStore) DeleteCluster(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketClusters)
		var spec types.ClusterSpec
		if data := b.Get([]byte(name)); data != nil {
			if err := json.Unmarshal(data, &spec); err != nil {
				return err
			}
		}
		if err := b.Delete([]byte(name)); err != nil {
			return err
		}

		nb := tx.Bucket(bucketNodes)
		for _, node := range spec.Nodes {
			if err := nb.Delete([]byte(name + "/" + node.Address)); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetNode loads one node spec by cluster name and address
func (s *BoltStore) GetNode(cluster, address string) (types.NodeSpec, error) {
	var spec types.NodeSpec
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNodes)
		data := b.Get([]byte(cluster + "/" + address))
		if data == nil {
			return fmt.Errorf("node not found: %s/%s", cluster, address)
		}
		return json.Unmarshal(data, &spec)
	})
	return spec, err
}
