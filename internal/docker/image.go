package docker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Go template passed to docker inspect to extract the creation timestamp.
const createdFormat = "{{.Created}}"

// Returns the creation time of a local image, normalized to UTC.
//
// Returns [ErrImageNotFound] when no image with the name exists locally and
// [ErrDaemonUnavailable] when the query could not reach the daemon at all.
// Callers must distinguish the two: a missing image means "build it", a dead
// daemon means nothing further can succeed.
func (c *Client) ImageCreatedAt(ctx context.Context, image string) (time.Time, error) {
	out, err := c.capture(ctx, "image", "inspect", image, "--format", createdFormat)
	if err != nil {
		return time.Time{}, err
	}

	created, err := parseCreated(out)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: image %s: %v", ErrCommandFailed, image, err)
	}

	return created, nil
}

// Parses the timestamp printed by docker inspect.
func parseCreated(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Builds an image from a Dockerfile.
//
// The build context is the directory containing the Dockerfile, matching the
// per-platform directory convention. Output streams to the terminal.
func (c *Client) BuildImage(ctx context.Context, image, dockerfile, contextDir string) error {
	slog.Debug("building image", "image", image, "dockerfile", dockerfile)
	return c.stream(ctx, "build", "-t", image, "-f", dockerfile, contextDir)
}

// Removes a local image.
//
// Removing an image that does not exist returns [ErrImageNotFound]; callers
// cleaning up may ignore it.
func (c *Client) RemoveImage(ctx context.Context, image string) error {
	_, err := c.capture(ctx, "rmi", image)
	return err
}

// Creates a named volume if it does not already exist.
//
// docker volume create is idempotent, so no existence check is needed.
func (c *Client) EnsureVolume(ctx context.Context, name string) error {
	_, err := c.capture(ctx, "volume", "create", name)
	return err
}

// Options for running a script inside a fresh container.
type RunOptions struct {
	Image   string   // Image to run.
	Mounts  []Mount  // Bind mounts and volumes.
	Workdir string   // Working directory inside the container.
	CPUs    int      // CPU limit; 0 means unlimited.
	Command []string // Command and arguments to execute.
}

// Builds the argument vector for docker run.
//
// Containers are always auto-removed; this system never reuses a container
// across invocations.
func runArgs(opts RunOptions, interactive bool) []string {
	args := []string{"run", "--rm"}
	if interactive {
		args = append(args, "-it")
	}
	if opts.CPUs > 0 {
		args = append(args, "--cpus", strconv.Itoa(opts.CPUs))
	}
	for _, m := range opts.Mounts {
		args = append(args, "-v", m.flag())
	}
	if opts.Workdir != "" {
		args = append(args, "-w", opts.Workdir)
	}
	args = append(args, opts.Image)
	args = append(args, opts.Command...)
	return args
}

// Runs a command inside a fresh, auto-removed container.
//
// Output streams to the terminal. A non-zero exit from the command is
// returned as [ErrCommandFailed]; the container is gone either way.
func (c *Client) RunScript(ctx context.Context, opts RunOptions) error {
	slog.Debug("running container", "image", opts.Image, "command", opts.Command)
	return c.stream(ctx, runArgs(opts, false)...)
}

// Runs a command in a fresh container attached to the terminal.
//
// Used for interactive debug sessions. stdin, stdout, and stderr are all
// inherited so the session behaves like a local shell.
func (c *Client) RunInteractive(ctx context.Context, opts RunOptions) error {
	slog.Debug("starting interactive container", "image", opts.Image)
	return c.attach(ctx, runArgs(opts, true)...)
}
