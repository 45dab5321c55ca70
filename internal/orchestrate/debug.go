package orchestrate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/driftbuild/xbuild/internal/docker"
	"github.com/driftbuild/xbuild/internal/platform"
)

// Shell started inside interactive debug containers.
const debugShell = "/bin/bash"

// Controls an interactive debug session.
type DebugOptions struct {
	Role        Role      // Builder or tester image namespace.
	ProjectRoot string    // Base path for deploy/ and external/ mounts.
	Root        string    // Scripts root holding the platform directories.
	Platform    string    // Requested platform; empty prompts for one.
	Force       bool      // Force an image rebuild.
	Input       io.Reader // Source for prompt answers; defaults to stdin by the caller.
	Output      io.Writer // Destination for the prompt itself.
}

// Starts an interactive shell in a platform's container.
//
// Platform resolution and image readiness mirror [Run]; instead of the tool
// loop, control is handed to a terminal-attached session bound to the
// platform's workspace. When no platform is given, one is selected via an
// enumerated prompt. Invalid prompt input aborts cleanly before any image
// is built or container started.
func Debug(ctx context.Context, svc ContainerService, opts DebugOptions) error {
	platformName, err := resolveDebugPlatform(opts)
	if err != nil {
		return err
	}

	o := &orchestrator{svc: svc, opts: Options{
		Role:        opts.Role,
		ProjectRoot: opts.ProjectRoot,
		Root:        opts.Root,
		Force:       opts.Force,
	}}

	if err := o.ensureImage(ctx, platformName); err != nil {
		return err
	}

	mounts, err := o.mounts(filepath.Join(opts.Root, platformName))
	if err != nil {
		return err
	}

	slog.Info("starting debug session", "platform", platformName, "role", opts.Role)

	return svc.RunInteractive(ctx, docker.RunOptions{
		Image:   opts.Role.ImageName(platformName),
		Mounts:  mounts,
		Workdir: workspaceTarget,
		Command: []string{debugShell},
	})
}

// Resolves the platform for a debug session.
//
// An explicit request is validated against the catalog; when it names more
// than one platform, the first is used with a warning, since a debug
// session binds a single terminal. An empty request prompts.
func resolveDebugPlatform(opts DebugOptions) (string, error) {
	if strings.TrimSpace(opts.Platform) == "" {
		available := platform.List(opts.Root)
		if len(available) == 0 {
			return "", fmt.Errorf("%w in %s/", ErrNoPlatforms, opts.Root)
		}
		return promptSelect(opts.Input, opts.Output, available)
	}

	platforms, err := platform.ValidatePlatforms(opts.Platform, opts.Root)
	if err != nil {
		return "", err
	}
	if len(platforms) > 1 {
		slog.Warn("debug supports one platform at a time, using the first",
			"platform", platforms[0],
		)
	}
	return platforms[0], nil
}

// Asks the user to pick one of the listed platforms.
//
// Accepts a 1-based number or an exact platform name. Anything else aborts
// the operation with [ErrSelectionAborted] and no side effects.
func promptSelect(in io.Reader, out io.Writer, options []string) (string, error) {
	fmt.Fprintln(out, "Select a platform:")
	for i, name := range options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, name)
	}
	fmt.Fprint(out, "> ")

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return "", ErrSelectionAborted
	}

	choice, ok := parseSelection(scanner.Text(), options)
	if !ok {
		return "", fmt.Errorf("%w: %q is not a listed platform", ErrSelectionAborted, strings.TrimSpace(scanner.Text()))
	}
	return choice, nil
}

// Matches prompt input against the option list.
func parseSelection(input string, options []string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(options) {
			return "", false
		}
		return options[n-1], true
	}

	for _, name := range options {
		if name == input {
			return name, true
		}
	}
	return "", false
}
