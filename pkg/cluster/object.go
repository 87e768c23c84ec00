package cluster

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cephqe/harness/pkg/log"
	"github.com/cephqe/harness/pkg/remote"
	"github.com/cephqe/harness/pkg/types"
)

// ObjectKind tags the variant of a ceph object
type ObjectKind string

const (
	KindGeneric   ObjectKind = "generic"
	KindDemon     ObjectKind = "demon"
	KindClient    ObjectKind = "client"
	KindInstaller ObjectKind = "installer"
)

// demonRoles is the fixed set of roles backed by a ceph daemon process
var demonRoles = map[types.Role]bool{
	types.RoleMon: true,
	types.RoleOSD: true,
	types.RoleMgr: true,
	types.RoleRGW: true,
	types.RoleMDS: true,
}

// CephObject is an in-process proxy for one role instance on one node.
// It routes role-specific command execution back through its owning node;
// containerized demons wrap every command in a container-exec prefix,
// which is the only way commands reach a containerized deployment.
type CephObject struct {
	Kind ObjectKind
	Role types.Role

	// Containerized applies to demons only
	Containerized bool

	// node is a non-owning back-reference; objects never outlive their node
	node *Node

	logger zerolog.Logger
}

// NewCephObject maps a role to the right object variant. The pool
// sentinel yields nil: a pool node carries no ceph objects.
func NewCephObject(role types.Role, node *Node) *CephObject {
	logger := log.WithRole(string(role))
	switch {
	case role == types.RoleInstaller:
		return &CephObject{Kind: KindInstaller, Role: role, node: node, logger: logger}
	case role == types.RoleClient:
		return &CephObject{Kind: KindClient, Role: role, node: node, logger: logger}
	case demonRoles[role]:
		return &CephObject{Kind: KindDemon, Role: role, node: node, logger: logger}
	case role == types.RolePool:
		return nil
	default:
		return &CephObject{Kind: KindGeneric, Role: role, node: node, logger: logger}
	}
}

// Node returns the owning node
func (o *CephObject) Node() *Node {
	return o.node
}

// PkgType returns the owning node's package family
func (o *CephObject) PkgType() types.PackageType {
	return o.node.PkgType()
}

// ContainerName derives the container a containerized demon runs in from
// its role and host identity. Empty for everything else.
func (o *CephObject) ContainerName() string {
	if o.Kind != KindDemon || !o.Containerized {
		return ""
	}
	return fmt.Sprintf("ceph-%s-%s", o.Role, o.node.Hostname())
}

// containerPrefix is the exec wrapper commands are routed through when
// the demon is containerized
func (o *CephObject) containerPrefix() string {
	if o.Kind != KindDemon || !o.Containerized {
		return ""
	}
	return fmt.Sprintf("sudo docker exec %s", o.ContainerName())
}

// effectiveCommand computes the command string actually executed on the
// node for this variant
func (o *CephObject) effectiveCommand(cmd string) string {
	if prefix := o.containerPrefix(); prefix != "" {
		return prefix + " " + cmd
	}
	return cmd
}

// ExecCommand proxies to the owning node, routing through the container
// wrapper for containerized demons.
func (o *CephObject) ExecCommand(cmd string, opts ExecOptions) (types.CommandResult, error) {
	if name := o.ContainerName(); name != "" {
		o.logger.Debug().Str("container", name).Msg("routing command through container")
	}
	return o.node.ExecCommand(o.effectiveCommand(cmd), opts)
}

// WriteFile proxies to the owning node's file transfer
func (o *CephObject) WriteFile(name string, flags int, sudo bool) (*remote.RemoteFile, error) {
	return o.node.WriteFile(name, flags, sudo)
}
