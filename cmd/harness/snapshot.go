package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cephqe/harness/pkg/cluster"
	"github.com/cephqe/harness/pkg/inventory"
	"github.com/cephqe/harness/pkg/storage"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Persist and restore cluster state",
	Long: `Snapshots persist the cluster spec (identity, credentials, roles,
volumes) to an embedded database. Live SSH sessions are never part of a
snapshot; a restored cluster reconnects lazily on first use.`,
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a cluster snapshot from an inventory manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		dataDir, _ := cmd.Flags().GetString("data-dir")

		spec, err := inventory.Load(file)
		if err != nil {
			return err
		}

		store, err := storage.NewBoltStore(dataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		// Round-trip through the cluster model so derived fields
		// (short hostnames, role normalization) are persisted.
		cl := cluster.FromSpec(spec)
		defer cl.Close()
		if err := store.SaveCluster(cl.Spec()); err != nil {
			return err
		}
		fmt.Printf("Saved cluster %q (%d nodes)\n", spec.Name, len(spec.Nodes))
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved cluster snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")

		store, err := storage.NewBoltStore(dataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		specs, err := store.ListClusters()
		if err != nil {
			return err
		}
		for _, spec := range specs {
			fmt.Printf("%-20s %d node(s)\n", spec.Name, len(spec.Nodes))
		}
		return nil
	},
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore [name]",
	Short: "Restore a cluster from a snapshot and verify connectivity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")

		store, err := storage.NewBoltStore(dataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		spec, err := store.GetCluster(args[0])
		if err != nil {
			return err
		}

		cl := cluster.FromSpec(spec)
		defer cl.Close()
		if err := cl.Connect(); err != nil {
			return err
		}
		fmt.Printf("Restored cluster %q: %d node(s) reachable\n", cl.Name(), cl.Len())
		return nil
	},
}

func init() {
	snapshotCmd.PersistentFlags().String("data-dir", "/var/lib/harness", "Snapshot database directory")

	snapshotSaveCmd.Flags().StringP("file", "f", "", "Cluster inventory manifest (required)")
	_ = snapshotSaveCmd.MarkFlagRequired("file")

	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotRestoreCmd)
}
