package types

import "fmt"

// CommandError reports a remote command that exited non-zero while exit
// code checking was requested. It carries enough context to diagnose the
// failure without re-running: the command, the captured stderr, and the
// host it ran on.
type CommandError struct {
	Cmd        string
	Stderr     string
	Host       string
	ExitStatus int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed on %s: exit status %d: %s",
		e.Cmd, e.Host, e.ExitStatus, e.Stderr)
}

// OutageError reports a connection that could not be re-established within
// the configured outage tolerance. LastErr is the final transport error
// observed before giving up.
type OutageError struct {
	Host    string
	LastErr error
}

func (e *OutageError) Error() string {
	return fmt.Sprintf("connection outage on %s: %v", e.Host, e.LastErr)
}

func (e *OutageError) Unwrap() error {
	return e.LastErr
}
