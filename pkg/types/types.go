package types

// Role identifies what function a node performs in the cluster
type Role string

const (
	RoleMon       Role = "mon"
	RoleOSD       Role = "osd"
	RoleMgr       Role = "mgr"
	RoleRGW       Role = "rgw"
	RoleMDS       Role = "mds"
	RoleClient    Role = "client"
	RoleInstaller Role = "installer"

	// RolePool is the sentinel for a node with no assigned role
	RolePool Role = "pool"
)

// VolumeStatus represents the allocation state of a node volume
type VolumeStatus string

const (
	VolumeFree      VolumeStatus = "free"
	VolumeAllocated VolumeStatus = "allocated"
)

// NodeVolume is one attachable storage volume owned by a node
type NodeVolume struct {
	Status VolumeStatus
}

// PackageType is the package-manager family of a node's OS
type PackageType string

const (
	PackageRPM PackageType = "rpm"
	PackageDeb PackageType = "deb"
)

// Credentials is one account identity on a node
type Credentials struct {
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"password"`
}

// NodeSpec is the persisted identity of a node. It carries everything
// needed to reconstruct a live node: live SSH handles are excluded by
// construction and re-established lazily after restore.
type NodeSpec struct {
	Address         string      `yaml:"address" json:"address"`
	InternalAddress string      `yaml:"internalAddress,omitempty" json:"internal_address,omitempty"`
	EthInterface    string      `yaml:"ethInterface,omitempty" json:"eth_interface,omitempty"`
	Hostname        string      `yaml:"hostname" json:"hostname"`
	ShortHostname   string      `yaml:"shortHostname,omitempty" json:"short_hostname,omitempty"`
	Credentials     Credentials `yaml:"credentials" json:"credentials"`
	RootCredentials Credentials `yaml:"rootCredentials" json:"root_credentials"`
	Roles           []Role      `yaml:"roles" json:"roles"`
	VolumeCount     int         `yaml:"volumeCount,omitempty" json:"volume_count,omitempty"`
}

// ClusterSpec is the persisted shape of a whole cluster
type ClusterSpec struct {
	Name  string     `yaml:"name" json:"name"`
	Nodes []NodeSpec `yaml:"nodes" json:"nodes"`
}

// CommandResult holds the captured output of one remote command
type CommandResult struct {
	Stdout     string
	Stderr     string
	ExitStatus int
}
