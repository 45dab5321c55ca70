package cli

import (
	"context"
	"os"

	"github.com/driftbuild/xbuild/internal/docker"
	"github.com/driftbuild/xbuild/internal/orchestrate"
)

// Represents the 'xbuild debug-build' command.
type DebugBuildCmd struct {
	Platform          string `short:"p" help:"Platform to debug. Prompts when omitted." placeholder:"NAME"`
	ForceImageRebuild bool   `short:"f" help:"Force rebuild of the container image."`
}

// Executes the debug-build command.
func (c *DebugBuildCmd) Run(ctx context.Context) error {
	return debugSession(ctx, orchestrate.RoleBuilder, buildDir, c.Platform, c.ForceImageRebuild)
}

// Represents the 'xbuild debug-test' command.
type DebugTestCmd struct {
	Platform          string `short:"p" help:"Platform to debug. Prompts when omitted." placeholder:"NAME"`
	ForceImageRebuild bool   `short:"f" help:"Force rebuild of the container image."`
}

// Executes the debug-test command.
func (c *DebugTestCmd) Run(ctx context.Context) error {
	return debugSession(ctx, orchestrate.RoleTester, testDir, c.Platform, c.ForceImageRebuild)
}

// Starts an interactive session in the selected platform's container.
func debugSession(ctx context.Context, role orchestrate.Role, root, platformName string, force bool) error {
	return orchestrate.Debug(ctx, docker.New(), orchestrate.DebugOptions{
		Role:        role,
		ProjectRoot: RootCmd.Project,
		Root:        projectPath(root),
		Platform:    platformName,
		Force:       force,
		Input:       os.Stdin,
		Output:      os.Stdout,
	})
}
