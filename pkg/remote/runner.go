package remote

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"

	"github.com/cephqe/harness/pkg/log"
	"github.com/cephqe/harness/pkg/metrics"
	"github.com/cephqe/harness/pkg/types"
)

// Runner is the uniform remote-command execution contract. Run executes a
// command with a timeout and returns its captured output and exit status;
// Stream executes a long-running command, accumulating output until the
// remote process exits; Open returns a handle to a remote file over SFTP.
// SetKeepalive and Close manage the underlying connection, so callers
// never touch the transport directly.
type Runner interface {
	Run(cmd string, timeout time.Duration) (types.CommandResult, error)
	Stream(cmd string) (string, int, error)
	Open(path string, flags int) (*RemoteFile, error)
	SetKeepalive(interval time.Duration) error
	Close() error
}

// RemoteFile is an open remote file plus the SFTP channel it rides on.
// Closing it releases both.
type RemoteFile struct {
	*sftp.File
	ftp *sftp.Client
}

// Close closes the file and its SFTP channel
func (f *RemoteFile) Close() error {
	ferr := f.File.Close()
	cerr := f.ftp.Close()
	if ferr != nil {
		return ferr
	}
	return cerr
}

// sshRunner implements Runner over one ConnectionManager
type sshRunner struct {
	conn   *ConnectionManager
	logger zerolog.Logger
}

// NewRunner creates a Runner bound to the given connection
func NewRunner(conn *ConnectionManager) Runner {
	return &sshRunner{
		conn:   conn,
		logger: log.WithHost(conn.Host()),
	}
}

// Run executes cmd in a fresh session and waits up to timeout for it to
// finish. A non-zero exit status is not an error here: the command ran,
// and the status is reported in the result for the caller to judge.
func (r *sshRunner) Run(cmd string, timeout time.Duration) (types.CommandResult, error) {
	var res types.CommandResult

	client, err := r.conn.Client()
	if err != nil {
		metrics.CommandsTotal.WithLabelValues(r.conn.Host(), "error").Inc()
		return res, err
	}

	session, err := client.NewSession()
	if err != nil {
		metrics.CommandsTotal.WithLabelValues(r.conn.Host(), "error").Inc()
		return res, fmt.Errorf("failed to create session to %s: %w", r.conn.Host(), err)
	}
	defer session.Close()

	var bout, berr bytes.Buffer
	session.Stdout = &bout
	session.Stderr = &berr

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- session.Run(cmd)
	}()

	select {
	case err = <-done:
	case <-time.After(timeout):
		session.Close()
		metrics.CommandsTotal.WithLabelValues(r.conn.Host(), "error").Inc()
		return res, fmt.Errorf("command %q timed out after %s on %s", cmd, timeout, r.conn.Host())
	}
	metrics.CommandDuration.WithLabelValues(r.conn.Host()).Observe(time.Since(start).Seconds())

	res.Stdout = bout.String()
	res.Stderr = berr.String()
	if err != nil {
		// An ExitError means the SSH exchange itself succeeded and the
		// remote command exited non-zero. Anything else is a transport
		// failure and propagates.
		exitErr, ok := err.(*ssh.ExitError)
		if !ok {
			metrics.CommandsTotal.WithLabelValues(r.conn.Host(), "error").Inc()
			return res, fmt.Errorf("failed running %q on %s: %w", cmd, r.conn.Host(), err)
		}
		res.ExitStatus = exitErr.ExitStatus()
	}

	if res.ExitStatus == 0 {
		metrics.CommandsTotal.WithLabelValues(r.conn.Host(), "ok").Inc()
	} else {
		metrics.CommandsTotal.WithLabelValues(r.conn.Host(), "failed").Inc()
	}
	return res, nil
}

// streamWriter accumulates command output while logging each chunk as it
// arrives. Stdout and stderr share one writer, so it is locked.
type streamWriter struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	logger zerolog.Logger
}

func (w *streamWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logger.Debug().Str("output", string(p)).Msg("long-running output")
	return w.buf.Write(p)
}

func (w *streamWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

// Stream executes a long-running command, accumulating combined output
// until the remote process exits. There is no timeout: the call returns
// when the exit status is available. Exit status is returned as data, not
// as an error.
func (r *sshRunner) Stream(cmd string) (string, int, error) {
	client, err := r.conn.Client()
	if err != nil {
		return "", 0, err
	}

	session, err := client.NewSession()
	if err != nil {
		return "", 0, fmt.Errorf("failed to create session to %s: %w", r.conn.Host(), err)
	}
	defer session.Close()

	w := &streamWriter{logger: r.logger}
	session.Stdout = w
	session.Stderr = w

	r.logger.Info().Str("cmd", cmd).Msg("long-running command")
	if err := session.Start(cmd); err != nil {
		return "", 0, fmt.Errorf("failed starting %q on %s: %w", cmd, r.conn.Host(), err)
	}

	status := 0
	if err := session.Wait(); err != nil {
		exitErr, ok := err.(*ssh.ExitError)
		if !ok {
			return w.String(), 0, fmt.Errorf("failed running %q on %s: %w", cmd, r.conn.Host(), err)
		}
		status = exitErr.ExitStatus()
	}
	return w.String(), status, nil
}

// Open opens a remote file over a fresh SFTP channel with os.O_* flags.
// The returned handle owns the channel; the caller must close it.
func (r *sshRunner) Open(path string, flags int) (*RemoteFile, error) {
	ftp, err := r.conn.SFTP()
	if err != nil {
		return nil, err
	}
	if flags == 0 {
		flags = os.O_RDONLY
	}
	f, err := ftp.OpenFile(path, flags)
	if err != nil {
		ftp.Close()
		return nil, fmt.Errorf("failed to open %s on %s: %w", path, r.conn.Host(), err)
	}
	return &RemoteFile{File: f, ftp: ftp}, nil
}

// SetKeepalive arms the keepalive sender on the underlying connection
func (r *sshRunner) SetKeepalive(interval time.Duration) error {
	return r.conn.SetKeepalive(interval)
}

// Close tears down the underlying connection
func (r *sshRunner) Close() error {
	return r.conn.Close()
}
