package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cephqe/harness/pkg/cluster"
	"github.com/cephqe/harness/pkg/events"
	"github.com/cephqe/harness/pkg/inventory"
	"github.com/cephqe/harness/pkg/metrics"
	"github.com/cephqe/harness/pkg/types"
)

var execCmd = &cobra.Command{
	Use:   "exec [command]",
	Short: "Execute a command on cluster nodes",
	Long: `Execute a shell command on every node matching a role.

Examples:
  # Cluster status from any mon
  harness exec -f cluster.yaml --role mon "ceph -s"

  # Disk usage everywhere, as root
  harness exec -f cluster.yaml --sudo "df -h"

  # Long-running benchmark on clients, streamed until exit
  harness exec -f cluster.yaml --role client --long "rados bench 600 write"`,
	Args: cobra.ExactArgs(1),
	RunE: runExec,
}

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Run first-contact setup on every cluster node",
	Long: `Connect to every node in the inventory and perform first-contact
setup: keepalive tuning, password sync, hostname discovery, and package
family detection.`,
	RunE: runConnect,
}

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Inspect cluster inventory manifests",
}

var inventoryValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an inventory manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		spec, err := inventory.Load(file)
		if err != nil {
			return err
		}
		fmt.Printf("Cluster %q: %d node(s)\n", spec.Name, len(spec.Nodes))
		for _, node := range spec.Nodes {
			roles := make([]string, 0, len(node.Roles))
			for _, r := range node.Roles {
				roles = append(roles, string(r))
			}
			fmt.Printf("  %-20s roles=%s volumes=%d\n",
				node.Address, strings.Join(roles, ","), node.VolumeCount)
		}
		return nil
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Serve Prometheus metrics",
	Long:  `Serve the harness metrics registry over HTTP for scraping during a run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		fmt.Printf("Serving metrics on %s/metrics\n", addr)
		http.Handle("/metrics", metrics.Handler())
		return http.ListenAndServe(addr, nil)
	},
}

func init() {
	execCmd.Flags().StringP("file", "f", "", "Cluster inventory manifest (required)")
	execCmd.Flags().String("role", "", "Only nodes whose role set contains this role")
	execCmd.Flags().Bool("sudo", false, "Run over the root connection")
	execCmd.Flags().Duration("timeout", 120*time.Second, "Per-command timeout")
	execCmd.Flags().Bool("long", false, "Long-running mode: stream until the remote process exits")
	execCmd.Flags().Bool("no-check", false, "Do not fail on non-zero exit status")
	_ = execCmd.MarkFlagRequired("file")

	connectCmd.Flags().StringP("file", "f", "", "Cluster inventory manifest (required)")
	_ = connectCmd.MarkFlagRequired("file")

	inventoryValidateCmd.Flags().StringP("file", "f", "", "Manifest to validate (required)")
	_ = inventoryValidateCmd.MarkFlagRequired("file")
	inventoryCmd.AddCommand(inventoryValidateCmd)

	metricsCmd.Flags().String("addr", ":9095", "Listen address")
}

func loadCluster(cmd *cobra.Command) (*cluster.Cluster, error) {
	file, _ := cmd.Flags().GetString("file")
	spec, err := inventory.Load(file)
	if err != nil {
		return nil, err
	}
	return cluster.FromSpec(spec), nil
}

func runExec(cmd *cobra.Command, args []string) error {
	cl, err := loadCluster(cmd)
	if err != nil {
		return err
	}
	defer cl.Close()

	role, _ := cmd.Flags().GetString("role")
	sudo, _ := cmd.Flags().GetBool("sudo")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	long, _ := cmd.Flags().GetBool("long")
	noCheck, _ := cmd.Flags().GetBool("no-check")

	nodes := cl.GetNodes(types.Role(role))
	if len(nodes) == 0 {
		return fmt.Errorf("no nodes match role %q", role)
	}

	opts := cluster.ExecOptions{
		Sudo:          sudo,
		Timeout:       timeout,
		LongRunning:   long,
		SkipExitCheck: noCheck,
	}
	for _, node := range nodes {
		res, err := node.ExecCommand(args[0], opts)
		if err != nil {
			return err
		}
		fmt.Printf("--- %s (exit %d)\n%s", node.Address(), res.ExitStatus, res.Stdout)
		if res.Stderr != "" {
			fmt.Print(res.Stderr)
		}
	}
	return nil
}

func runConnect(cmd *cobra.Command, args []string) error {
	cl, err := loadCluster(cmd)
	if err != nil {
		return err
	}
	defer cl.Close()

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()
	sub := broker.Subscribe()
	go func() {
		for ev := range sub {
			fmt.Printf("%s  %-16s %s\n", ev.Timestamp.Format(time.RFC3339), ev.Type, ev.Host)
		}
	}()
	cl.SetBroker(broker)

	if err := cl.Connect(); err != nil {
		return err
	}
	fmt.Printf("Connected %d node(s)\n", cl.Len())
	return nil
}
