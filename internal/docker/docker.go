package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Binary invoked for all container operations.
const defaultBinary = "docker"

// Invokes the docker CLI with structured argument lists.
//
// Every operation builds its full argument vector explicitly; no command
// strings are assembled through shell interpolation, so platform and tool
// names taken from user input cannot change the shape of an invocation.
type Client struct {
	bin string
}

// Creates a client that shells out to the docker binary on PATH.
func New() *Client {
	return &Client{bin: defaultBinary}
}

// A bind source mounted into a container.
//
// Source is either an absolute host path or a named volume.
type Mount struct {
	Source string // Host path or volume name.
	Target string // Mount point inside the container.
}

// Formats the mount as a docker -v argument value.
func (m Mount) flag() string {
	return m.Source + ":" + m.Target
}

// Runs docker with the given arguments, capturing stdout and stderr.
//
// A non-zero exit is classified via the captured stderr: unknown images and
// an unreachable daemon map to their sentinel errors so callers can tell a
// missing image apart from a dead service.
func (c *Client) capture(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", classify(stderr.String(), args)
		}
		// docker itself could not be started.
		return "", fmt.Errorf("%w: %v", ErrDaemonUnavailable, err)
	}

	return stdout.String(), nil
}

// Runs docker with the given arguments, streaming output to the terminal.
//
// Used for builds and script runs, whose progress the user wants to watch
// live. A non-zero exit is returned as an error naming the failing
// subcommand.
func (c *Client) stream(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, c.bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: docker %s exited with code %d",
				ErrCommandFailed, subcommand(args), exitErr.ExitCode())
		}
		return fmt.Errorf("%w: %v", ErrDaemonUnavailable, err)
	}

	return nil
}

// Runs docker fully attached to the terminal, including stdin.
//
// This is the terminal handoff for interactive debug sessions: the child
// owns the terminal until it exits, and control returns here afterwards.
// Signal handling inside the session is delegated to docker's own -it
// plumbing.
func (c *Client) attach(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, c.bin, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: docker %s exited with code %d",
				ErrCommandFailed, subcommand(args), exitErr.ExitCode())
		}
		return fmt.Errorf("%w: %v", ErrDaemonUnavailable, err)
	}

	return nil
}

// Maps a failed invocation's stderr to the proper sentinel error.
func classify(stderr string, args []string) error {
	msg := strings.TrimSpace(stderr)
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "no such image"),
		strings.Contains(lower, "no such object"):
		return fmt.Errorf("%w: %s", ErrImageNotFound, msg)
	case strings.Contains(lower, "cannot connect to the docker daemon"),
		strings.Contains(lower, "error during connect"):
		return fmt.Errorf("%w: %s", ErrDaemonUnavailable, msg)
	default:
		return fmt.Errorf("%w: docker %s: %s", ErrCommandFailed, subcommand(args), msg)
	}
}

// Returns the docker subcommand from an argument vector, for error messages.
func subcommand(args []string) string {
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			return a
		}
	}
	return "(unknown)"
}
