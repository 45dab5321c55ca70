package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/driftbuild/xbuild/internal/docker"
	"github.com/driftbuild/xbuild/internal/orchestrate"
	"github.com/driftbuild/xbuild/internal/platform"
)

// Name of the per-platform directory holding intermediate build artifacts.
const artifactsDir = "artifacts"

// Represents the 'xbuild clean' command.
type CleanCmd struct{}

// Executes the clean command.
//
// Removes the contents of every platform's artifacts directory. The
// directories themselves stay in place so scripts can rely on them.
func (c *CleanCmd) Run(ctx context.Context) error {
	root := projectPath(buildDir)

	for _, p := range platform.List(root) {
		dir := filepath.Join(root, p, artifactsDir)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		slog.Info("cleaning artifacts", "platform", p, "dir", dir)
		for _, entry := range entries {
			if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
				return err
			}
		}
	}

	return nil
}

// Represents the 'xbuild clean-docker' command.
type CleanDockerCmd struct {
	Platforms string `short:"p" help:"Comma-separated platforms to remove images for. Default: all platforms." placeholder:"NAMES"`
}

// Executes the clean-docker command.
//
// Removes the builder and tester images for the selected platforms. Images
// that were never built are skipped silently.
func (c *CleanDockerCmd) Run(ctx context.Context) error {
	platforms, err := c.selected()
	if err != nil {
		return err
	}

	client := docker.New()
	for _, p := range platforms {
		for _, role := range []orchestrate.Role{orchestrate.RoleBuilder, orchestrate.RoleTester} {
			image := role.ImageName(p)
			slog.Info("removing image", "image", image)
			if err := client.RemoveImage(ctx, image); err != nil {
				if errors.Is(err, docker.ErrImageNotFound) {
					continue
				}
				return err
			}
		}
	}

	return nil
}

// Resolves the platform selection for image cleanup.
//
// An empty selection covers the union of the build and test catalogs, since
// either root may have produced images.
func (c *CleanDockerCmd) selected() ([]string, error) {
	if c.Platforms == "" {
		union := platform.List(projectPath(buildDir))
		for _, p := range platform.List(projectPath(testDir)) {
			if !slices.Contains(union, p) {
				union = append(union, p)
			}
		}
		return union, nil
	}

	// Validate against whichever root knows the name.
	buildPlatforms, buildErr := platform.ValidatePlatforms(c.Platforms, projectPath(buildDir))
	if buildErr == nil {
		return buildPlatforms, nil
	}
	return platform.ValidatePlatforms(c.Platforms, projectPath(testDir))
}
