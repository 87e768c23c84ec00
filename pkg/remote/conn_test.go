package remote

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/cephqe/harness/pkg/log"
	"github.com/cephqe/harness/pkg/types"
)

func TestMain(m *testing.M) {
	log.Init(log.Config{Level: log.ErrorLevel, Output: os.Stderr})
	os.Exit(m.Run())
}

// testManager returns a manager with fast retry timing and a stubbed
// transport, so outages can be simulated without a network.
func testManager(dial DialFunc) *ConnectionManager {
	c := New(Config{
		Host:          "node-0.example.com",
		User:          "cephuser",
		Password:      "secret",
		OutageTimeout: 60 * time.Millisecond,
		RetryInterval: 5 * time.Millisecond,
	})
	c.dial = dial
	c.probe = func(*ssh.Client) bool { return true }
	return c
}

func TestClientDialsLazily(t *testing.T) {
	dials := 0
	c := testManager(func(network, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
		dials++
		assert.Equal(t, "tcp", network)
		assert.Equal(t, "node-0.example.com:22", addr)
		assert.Equal(t, "cephuser", cfg.User)
		return &ssh.Client{}, nil
	})

	assert.Equal(t, 0, dials, "no dial before first use")

	_, err := c.Client()
	require.NoError(t, err)
	assert.Equal(t, 1, dials)

	// While the probe reports alive, no redial happens
	_, err = c.Client()
	require.NoError(t, err)
	assert.Equal(t, 1, dials)
}

func TestClientRetriesTransientOutage(t *testing.T) {
	dials := 0
	c := testManager(func(network, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
		dials++
		if dials < 3 {
			return nil, errors.New("connection refused")
		}
		return &ssh.Client{}, nil
	})

	// Fails for less than the tolerance, then the outage clears
	client, err := c.Client()
	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.Equal(t, 3, dials)
	assert.True(t, c.outageStart.IsZero(), "outage mark cleared on success")
}

func TestClientGivesUpAfterOutageTimeout(t *testing.T) {
	lastErr := errors.New("no route to host")
	c := testManager(func(network, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
		return nil, lastErr
	})

	start := time.Now()
	_, err := c.Client()
	require.Error(t, err)

	var outage *types.OutageError
	require.ErrorAs(t, err, &outage)
	assert.Equal(t, "node-0.example.com", outage.Host)
	assert.ErrorIs(t, err, lastErr)

	// It retried for at least the tolerance window before surfacing
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestClientRecoversAfterFatalOutage(t *testing.T) {
	healthy := false
	c := testManager(func(network, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
		if !healthy {
			return nil, errors.New("down")
		}
		return &ssh.Client{}, nil
	})

	_, err := c.Client()
	require.Error(t, err)

	// The manager stays usable once the host comes back. The outage mark
	// is not reset by failure, so the very next attempt either succeeds
	// or surfaces immediately.
	healthy = true
	_, err = c.Client()
	require.NoError(t, err)
	assert.True(t, c.outageStart.IsZero())
}

func TestSpecRoundTrip(t *testing.T) {
	cfg := Config{
		Host:     "osd-1.example.com",
		User:     "cephuser",
		Password: "secret",
	}
	c := New(cfg)

	spec := c.Spec()
	assert.Equal(t, "osd-1.example.com", spec.Host)
	assert.Equal(t, 22, spec.Port, "default port applied")
	assert.Equal(t, DefaultOutageTimeout, spec.OutageTimeout)
	assert.Equal(t, DefaultRetryInterval, spec.RetryInterval)

	// Reconstruction is a pure function of the persisted form
	restored := New(spec)
	assert.Equal(t, spec, restored.Spec())
	assert.Nil(t, restored.client, "no live state restored")
}

func TestCloseLeavesManagerUsable(t *testing.T) {
	dials := 0
	c := testManager(func(network, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
		dials++
		return &ssh.Client{}, nil
	})

	_, err := c.Client()
	require.NoError(t, err)
	require.Equal(t, 1, dials)

	c.client = nil // avoid closing the fake transport
	require.NoError(t, c.Close())

	_, err = c.Client()
	require.NoError(t, err)
	assert.Equal(t, 2, dials, "redialed after close")
}
