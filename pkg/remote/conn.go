package remote

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"

	"github.com/cephqe/harness/pkg/log"
	"github.com/cephqe/harness/pkg/metrics"
	"github.com/cephqe/harness/pkg/types"
)

const (
	// DefaultOutageTimeout is how long a dead connection is retried
	// before the outage is surfaced to the caller.
	DefaultOutageTimeout = 300 * time.Second

	// DefaultRetryInterval is the pause between reconnect attempts.
	DefaultRetryInterval = 10 * time.Second

	// DefaultDialTimeout bounds a single dial attempt.
	DefaultDialTimeout = 30 * time.Second

	defaultPort = 22

	keepaliveRequest = "keepalive@openssh.com"
)

// Config is the persisted form of a ConnectionManager: host, credentials,
// and retry policy. It carries no live state, so a manager can always be
// reconstructed from it.
type Config struct {
	Host          string        `yaml:"host" json:"host"`
	Port          int           `yaml:"port,omitempty" json:"port,omitempty"`
	User          string        `yaml:"user" json:"user"`
	Password      string        `yaml:"password" json:"password"`
	OutageTimeout time.Duration `yaml:"outageTimeout,omitempty" json:"outage_timeout,omitempty"`
	RetryInterval time.Duration `yaml:"retryInterval,omitempty" json:"retry_interval,omitempty"`
	DialTimeout   time.Duration `yaml:"dialTimeout,omitempty" json:"dial_timeout,omitempty"`
}

// DialFunc establishes an SSH client connection. Tests substitute this to
// simulate transient outages without a network.
type DialFunc func(network, addr string, config *ssh.ClientConfig) (*ssh.Client, error)

// ProbeFunc reports whether an established client is still usable.
type ProbeFunc func(client *ssh.Client) bool

// ConnectionManager owns one resilient SSH session to one host under one
// credential pair. The client is dialed lazily and re-dialed whenever the
// liveness probe fails; reconnection retries every RetryInterval until the
// outage exceeds OutageTimeout, then surfaces a types.OutageError.
type ConnectionManager struct {
	cfg    Config
	logger zerolog.Logger

	mu          sync.Mutex
	client      *ssh.Client
	outageStart time.Time // zero while the connection is healthy

	keepaliveStop     chan struct{}
	keepaliveInterval time.Duration

	dial  DialFunc
	probe ProbeFunc
}

// New creates a connection manager from its persisted config. No network
// activity happens until the first Client call.
func New(cfg Config) *ConnectionManager {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.OutageTimeout == 0 {
		cfg.OutageTimeout = DefaultOutageTimeout
	}
	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = DefaultRetryInterval
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	return &ConnectionManager{
		cfg:    cfg,
		logger: log.WithComponent("remote"),
		dial:   ssh.Dial,
		probe:  probeKeepalive,
	}
}

// probeKeepalive checks transport liveness with a keepalive global
// request. The result is never cached: liveness is a view of the current
// connection, recomputed on every access.
func probeKeepalive(client *ssh.Client) bool {
	if client == nil {
		return false
	}
	_, _, err := client.SendRequest(keepaliveRequest, true, nil)
	return err == nil
}

// Client returns a live SSH client, reconnecting if the current one is
// dead. It never returns a handle bound to a dead transport.
func (c *ConnectionManager) Client() (*ssh.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil && c.probe(c.client) {
		return c.client, nil
	}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c.client, nil
}

// connect dials until it succeeds or the outage tolerance is exhausted.
// Caller must hold c.mu.
func (c *ConnectionManager) connect() error {
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}

	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
	sshCfg := &ssh.ClientConfig{
		User:            c.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(c.cfg.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         c.cfg.DialTimeout,
	}

	for {
		metrics.ReconnectAttempts.WithLabelValues(c.cfg.Host).Inc()
		client, err := c.dial("tcp", addr, sshCfg)
		if err == nil {
			c.outageStart = time.Time{}
			c.client = client
			if c.keepaliveInterval > 0 {
				c.armKeepalive(client)
			}
			c.logger.Info().Str("host", c.cfg.Host).Str("user", c.cfg.User).Msg("connection established")
			return nil
		}

		c.logger.Warn().Str("host", c.cfg.Host).Err(err).Msg("connection outage")
		if c.outageStart.IsZero() {
			c.outageStart = time.Now()
		}
		if time.Since(c.outageStart) > c.cfg.OutageTimeout {
			metrics.ConnectionOutages.WithLabelValues(c.cfg.Host).Inc()
			return &types.OutageError{Host: c.cfg.Host, LastErr: err}
		}
		time.Sleep(c.cfg.RetryInterval)
	}
}

// SetKeepalive arms (or re-arms) a keepalive sender on the live
// connection. Re-arming resets the send interval; the sender follows the
// connection across reconnects.
func (c *ConnectionManager) SetKeepalive(interval time.Duration) error {
	client, err := c.Client()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.keepaliveInterval = interval
	c.armKeepalive(client)
	return nil
}

// armKeepalive starts the keepalive goroutine for the given client,
// stopping any previous one. Caller must hold c.mu.
func (c *ConnectionManager) armKeepalive(client *ssh.Client) {
	if c.keepaliveStop != nil {
		close(c.keepaliveStop)
	}
	stop := make(chan struct{})
	c.keepaliveStop = stop
	interval := c.keepaliveInterval

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if _, _, err := client.SendRequest(keepaliveRequest, true, nil); err != nil {
					// Connection died; the next Client() call redials.
					return
				}
			}
		}
	}()
}

// SFTP opens a file-transfer subchannel on the live connection. The
// returned client is owned by the caller and must be closed.
func (c *ConnectionManager) SFTP() (*sftp.Client, error) {
	client, err := c.Client()
	if err != nil {
		return nil, err
	}
	ftp, err := sftp.NewClient(client)
	if err != nil {
		return nil, fmt.Errorf("failed to open sftp channel to %s: %w", c.cfg.Host, err)
	}
	return ftp, nil
}

// Host returns the target host identifier
func (c *ConnectionManager) Host() string {
	return c.cfg.Host
}

// Spec returns the persisted form of the manager. Reconstructing with New
// yields an equivalent manager that reconnects lazily on next use.
func (c *ConnectionManager) Spec() Config {
	return c.cfg
}

// Close tears down the live connection, if any. The manager stays usable;
// the next Client call redials.
func (c *ConnectionManager) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.keepaliveStop != nil {
		close(c.keepaliveStop)
		c.keepaliveStop = nil
	}
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}
