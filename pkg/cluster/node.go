package cluster

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cephqe/harness/pkg/events"
	"github.com/cephqe/harness/pkg/log"
	"github.com/cephqe/harness/pkg/metrics"
	"github.com/cephqe/harness/pkg/remote"
	"github.com/cephqe/harness/pkg/types"
)

const (
	// DefaultCommandTimeout applies when ExecOptions.Timeout is unset
	DefaultCommandTimeout = 120 * time.Second

	// keepaliveInterval matches the SSH-level keepalive re-armed before
	// every command once the node has connected.
	keepaliveInterval = 15 * time.Second

	// defaultEthInterface is where the internal address lives unless a
	// provisioner says otherwise
	defaultEthInterface = "eth0"
)

// ExecOptions controls one ExecCommand call. The zero value runs on the
// standard connection with the default timeout and exit-code checking on.
type ExecOptions struct {
	// Sudo routes the command over the root connection
	Sudo bool

	// Timeout bounds the command; zero means DefaultCommandTimeout.
	// Ignored for long-running commands.
	Timeout time.Duration

	// SkipExitCheck returns the result regardless of exit status instead
	// of raising a types.CommandError on non-zero.
	SkipExitCheck bool

	// LongRunning streams output until the remote process exits. The
	// exit status is reported in the result, never as an error.
	LongRunning bool
}

// Node is one machine participating in the cluster. It owns the two SSH
// identities used to reach it, the ceph objects derived from its roles,
// and its attachable volumes.
type Node struct {
	spec   types.NodeSpec
	logger zerolog.Logger

	runner     remote.Runner
	rootRunner remote.Runner

	objects []*CephObject
	volumes []*types.NodeVolume

	pkgType        types.PackageType
	lastExitStatus int
	connected      bool

	broker *events.Broker
}

// NewNode builds a node from its persisted spec. This is the single
// reconstruction path: restoring a snapshot goes through here too, and
// connections are re-established lazily on first use.
func NewNode(spec types.NodeSpec) *Node {
	if spec.ShortHostname == "" && spec.Hostname != "" {
		spec.ShortHostname = strings.Split(spec.Hostname, ".")[0]
	}
	rootUser := spec.RootCredentials.User
	if rootUser == "" {
		rootUser = "root"
	}

	n := &Node{
		spec:   spec,
		logger: log.WithHost(spec.Address),
	}
	n.runner = remote.NewRunner(remote.New(remote.Config{
		Host:     spec.Address,
		User:     spec.Credentials.User,
		Password: spec.Credentials.Password,
	}))
	n.rootRunner = remote.NewRunner(remote.New(remote.Config{
		Host:     spec.Address,
		User:     rootUser,
		Password: spec.RootCredentials.Password,
	}))

	for _, role := range spec.Roles {
		if obj := NewCephObject(role, n); obj != nil {
			n.objects = append(n.objects, obj)
		}
		metrics.NodesTotal.WithLabelValues(string(role)).Inc()
	}

	for i := 0; i < spec.VolumeCount; i++ {
		n.volumes = append(n.volumes, &types.NodeVolume{Status: types.VolumeFree})
	}
	if n.Roles().Matches(types.RoleOSD) {
		for _, vol := range n.volumes {
			vol.Status = types.VolumeAllocated
		}
	}
	return n
}

// SetBroker attaches an optional event broker; lifecycle events are
// published to it from then on.
func (n *Node) SetBroker(b *events.Broker) {
	n.broker = b
}

// Roles returns the node's role set, derived from its current ceph
// objects. It is never stored independently.
func (n *Node) Roles() *types.RoleSet {
	roles := make([]types.Role, 0, len(n.objects))
	for _, obj := range n.objects {
		roles = append(roles, obj.Role)
	}
	return types.NewRoleSet(roles...)
}

// Address returns the node's public network address
func (n *Node) Address() string {
	return n.spec.Address
}

// InternalAddress returns the internal address discovered on connect
func (n *Node) InternalAddress() string {
	return n.spec.InternalAddress
}

// EthInterface returns the interface name used for internal-address
// discovery
func (n *Node) EthInterface() string {
	if n.spec.EthInterface == "" {
		return defaultEthInterface
	}
	return n.spec.EthInterface
}

// SetEthInterface overrides the interface used for internal-address
// discovery. It persists with the spec like the discovered address does.
func (n *Node) SetEthInterface(name string) {
	n.spec.EthInterface = name
}

// Hostname returns the node's fully qualified hostname
func (n *Node) Hostname() string {
	return n.spec.Hostname
}

// ShortHostname returns the first label of the hostname
func (n *Node) ShortHostname() string {
	return n.spec.ShortHostname
}

// PkgType returns the package family detected on first connect
func (n *Node) PkgType() types.PackageType {
	return n.pkgType
}

// Connected reports whether first-contact setup has completed
func (n *Node) Connected() bool {
	return n.connected
}

// LastExitStatus returns the exit status of the most recent standard-mode
// command. Recorded as node state because first-contact probes branch on
// it rather than on command output.
func (n *Node) LastExitStatus() int {
	return n.lastExitStatus
}

// GetFreeVolumes returns the volumes not yet allocated
func (n *Node) GetFreeVolumes() []*types.NodeVolume {
	var out []*types.NodeVolume
	for _, vol := range n.volumes {
		if vol.Status == types.VolumeFree {
			out = append(out, vol)
		}
	}
	return out
}

// GetAllocatedVolumes returns the volumes already allocated
func (n *Node) GetAllocatedVolumes() []*types.NodeVolume {
	var out []*types.NodeVolume
	for _, vol := range n.volumes {
		if vol.Status == types.VolumeAllocated {
			out = append(out, vol)
		}
	}
	return out
}

// Volumes returns all volumes attached to the node
func (n *Node) Volumes() []*types.NodeVolume {
	return n.volumes
}

// GetCephObjects returns the node's ceph objects matching the role, or
// all of them when role is empty.
func (n *Node) GetCephObjects(role types.Role) []*CephObject {
	var out []*CephObject
	for _, obj := range n.objects {
		if role == "" || obj.Role == role {
			out = append(out, obj)
		}
	}
	return out
}

// GetCephDemons returns the node's demon objects matching the role. An
// empty role returns nothing: demons are only meaningful per role.
func (n *Node) GetCephDemons(role types.Role) []*CephObject {
	if role == "" {
		return nil
	}
	var out []*CephObject
	for _, obj := range n.objects {
		if obj.Kind == KindDemon && obj.Role == role {
			out = append(out, obj)
		}
	}
	return out
}

// CreateCephObject adds a new ceph object for the role. The pool sentinel
// creates nothing.
func (n *Node) CreateCephObject(role types.Role) *CephObject {
	obj := NewCephObject(role, n)
	if obj == nil {
		return nil
	}
	n.objects = append(n.objects, obj)
	n.publish(events.EventObjectCreated, string(role))
	return obj
}

// RemoveCephObject removes the given ceph object from the node
func (n *Node) RemoveCephObject(obj *CephObject) {
	for i, o := range n.objects {
		if o == obj {
			n.objects = append(n.objects[:i], n.objects[i+1:]...)
			n.publish(events.EventObjectRemoved, string(obj.Role))
			return
		}
	}
}

// ExecCommand executes a command on the node, selecting the root or
// standard connection per opts.Sudo. Standard mode records the exit
// status on the node and raises a types.CommandError on non-zero status
// unless SkipExitCheck is set. Long-running mode streams output until the
// remote process exits and never checks the status.
func (n *Node) ExecCommand(cmd string, opts ExecOptions) (types.CommandResult, error) {
	runner := n.runner
	if opts.Sudo {
		runner = n.rootRunner
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultCommandTimeout
	}

	n.logger.Info().Str("cmd", cmd).Bool("sudo", opts.Sudo).Msg("running command")

	// Defensive re-arm: both transports may have idled since the last
	// command on a node that already finished first contact.
	if n.connected {
		if err := n.runner.SetKeepalive(keepaliveInterval); err != nil {
			return types.CommandResult{}, err
		}
		if err := n.rootRunner.SetKeepalive(keepaliveInterval); err != nil {
			return types.CommandResult{}, err
		}
	}

	if opts.LongRunning {
		out, status, err := runner.Stream(cmd)
		return types.CommandResult{Stdout: out, ExitStatus: status}, err
	}

	res, err := runner.Run(cmd, timeout)
	if err != nil {
		return res, err
	}
	n.lastExitStatus = res.ExitStatus

	if opts.SkipExitCheck {
		return res, nil
	}
	if res.ExitStatus != 0 {
		n.logger.Error().Str("cmd", cmd).Int("exit_status", res.ExitStatus).Msg("command failed")
		n.publish(events.EventCommandFailed, cmd)
		return res, &types.CommandError{
			Cmd:        cmd,
			Stderr:     res.Stderr,
			Host:       n.spec.Address,
			ExitStatus: res.ExitStatus,
		}
	}
	n.logger.Info().Str("cmd", cmd).Msg("command completed successfully")
	return res, nil
}

// WriteFile opens a remote file over SFTP on the selected connection with
// os.O_* flags. The caller owns the handle and must close it.
func (n *Node) WriteFile(name string, flags int, sudo bool) (*remote.RemoteFile, error) {
	runner := n.runner
	if sudo {
		runner = n.rootRunner
	}
	return runner.Open(name, flags)
}

// Connect performs first-contact setup exactly once: keepalive tuning,
// password sync, hostname and internal-address discovery, and package
// family detection. Subsequent calls are no-ops.
func (n *Node) Connect() error {
	if n.connected {
		return nil
	}
	n.logger.Info().Str("hostname", n.spec.Hostname).Msg("connecting")

	// Liveness probe over the root identity.
	if _, err := n.rootRunner.Run("dmesg", DefaultCommandTimeout); err != nil {
		return fmt.Errorf("liveness probe failed on %s: %w", n.spec.Address, err)
	}
	if err := n.rootRunner.SetKeepalive(keepaliveInterval); err != nil {
		return err
	}

	// Synchronize the standard account password.
	chpasswd := fmt.Sprintf("echo '%s:%s' | chpasswd", n.spec.Credentials.User, n.spec.Credentials.Password)
	n.logger.Info().Str("user", n.spec.Credentials.User).Msg("synchronizing account password")
	if _, err := n.rootRunner.Run(chpasswd, DefaultCommandTimeout); err != nil {
		return fmt.Errorf("password sync failed on %s: %w", n.spec.Address, err)
	}

	// Kernel-level TCP keepalive so half-dead connections die fast.
	for _, sysctl := range []string{
		"echo 120 > /proc/sys/net/ipv4/tcp_keepalive_time",
		"echo 60 > /proc/sys/net/ipv4/tcp_keepalive_intvl",
		"echo 20 > /proc/sys/net/ipv4/tcp_keepalive_probes",
	} {
		if _, err := n.rootRunner.Run(sysctl, DefaultCommandTimeout); err != nil {
			return fmt.Errorf("keepalive sysctl failed on %s: %w", n.spec.Address, err)
		}
	}

	// Validate the standard connection end to end.
	if _, err := n.ExecCommand("ls / ; uptime ; date", ExecOptions{}); err != nil {
		return err
	}
	if err := n.runner.SetKeepalive(keepaliveInterval); err != nil {
		return err
	}

	res, err := n.ExecCommand("hostname", ExecOptions{})
	if err != nil {
		return err
	}
	n.spec.Hostname = strings.TrimSpace(res.Stdout)
	n.spec.ShortHostname = strings.Split(n.spec.Hostname, ".")[0]
	n.logger.Info().
		Str("hostname", n.spec.Hostname).
		Str("shortname", n.spec.ShortHostname).
		Msg("hostname discovered")

	if err := n.setInternalAddress(); err != nil {
		return err
	}

	if _, err := n.ExecCommand("echo 'TMOUT=600' >> ~/.bashrc", ExecOptions{}); err != nil {
		return err
	}

	// Package family by probe exit status, not output.
	if _, err := n.ExecCommand("[ -f /etc/redhat-release ]", ExecOptions{SkipExitCheck: true}); err != nil {
		return err
	}
	if n.lastExitStatus == 0 {
		n.pkgType = types.PackageRPM
	} else {
		n.pkgType = types.PackageDeb
	}

	n.logger.Info().Str("pkg_type", string(n.pkgType)).Msg("finished connect")
	n.connected = true
	metrics.NodesConnected.Inc()
	n.publish(events.EventNodeConnected, n.spec.Hostname)
	return nil
}

// setInternalAddress discovers the internal address, which differs from
// the floating public one.
func (n *Node) setInternalAddress() error {
	cmd := fmt.Sprintf("/sbin/ifconfig %s | grep 'inet ' | awk '{ print $2}'", n.EthInterface())
	res, err := n.ExecCommand(cmd, ExecOptions{})
	if err != nil {
		return err
	}
	n.spec.InternalAddress = strings.TrimSpace(res.Stdout)
	return nil
}

// GenerateIDRSA generates a fresh ssh keypair on the node and returns the
// public key. Any previous keypair is removed first.
func (n *Node) GenerateIDRSA() (string, error) {
	if _, err := n.ExecCommand("test -f ~/.ssh/id_rsa.pub && rm -f ~/.ssh/id*",
		ExecOptions{SkipExitCheck: true}); err != nil {
		return "", err
	}
	if _, err := n.ExecCommand("ssh-keygen -b 2048 -f ~/.ssh/id_rsa -t rsa -q -N ''", ExecOptions{}); err != nil {
		return "", err
	}
	res, err := n.ExecCommand("cat ~/.ssh/id_rsa.pub", ExecOptions{})
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// Spec returns the node's persisted form: identity, credentials, roles,
// and volume count. Live connection handles are excluded by construction.
func (n *Node) Spec() types.NodeSpec {
	spec := n.spec
	spec.Roles = n.Roles().Roles()
	spec.VolumeCount = len(n.volumes)
	return spec
}

// Close tears down both connections. The node stays reconstructable from
// its spec.
func (n *Node) Close() error {
	cerr := n.runner.Close()
	rerr := n.rootRunner.Close()
	if cerr != nil {
		return cerr
	}
	return rerr
}

func (n *Node) publish(t events.EventType, msg string) {
	if n.broker == nil {
		return
	}
	n.broker.Publish(&events.Event{
		Type:    t,
		Host:    n.spec.Address,
		Message: msg,
	})
}
