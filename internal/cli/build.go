package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/driftbuild/xbuild/internal/docker"
	"github.com/driftbuild/xbuild/internal/orchestrate"
)

// Represents the 'xbuild build' command.
type BuildCmd struct {
	Tools             string `short:"t" help:"Comma-separated tools to build (e.g. neovim). Default: all tools for each platform." placeholder:"NAMES"`
	Platforms         string `short:"p" help:"Comma-separated platforms (e.g. GLIBC227,EL7). Default: all platforms." placeholder:"NAMES"`
	ForceImageRebuild bool   `short:"f" help:"Force rebuild of container images."`
}

// Executes the build command.
func (c *BuildCmd) Run(ctx context.Context) error {
	return runRole(ctx, orchestrate.Options{
		Role:        orchestrate.RoleBuilder,
		ProjectRoot: RootCmd.Project,
		Root:        projectPath(buildDir),
		Platforms:   c.Platforms,
		Tools:       c.Tools,
		Force:       c.ForceImageRebuild,
	})
}

// Represents the 'xbuild test' command.
type TestCmd struct {
	Tools             string `short:"t" help:"Comma-separated tools to test. Default: all tools for each platform." placeholder:"NAMES"`
	Platforms         string `short:"p" help:"Comma-separated platforms. Default: all platforms." placeholder:"NAMES"`
	ForceImageRebuild bool   `short:"f" help:"Force rebuild of container images."`
}

// Executes the test command.
func (c *TestCmd) Run(ctx context.Context) error {
	return runRole(ctx, orchestrate.Options{
		Role:        orchestrate.RoleTester,
		ProjectRoot: RootCmd.Project,
		Root:        projectPath(testDir),
		Platforms:   c.Platforms,
		Tools:       c.Tools,
		Force:       c.ForceImageRebuild,
	})
}

// Runs the orchestrator and reduces its report to an exit status.
func runRole(ctx context.Context, opts orchestrate.Options) error {
	report, err := orchestrate.Run(ctx, docker.New(), opts)
	if report != nil {
		summarize(report)
	}
	if err != nil {
		return err
	}

	if report.Failed() {
		return errors.New("one or more steps failed, see the report above")
	}
	return nil
}

// Logs the per-platform, per-tool outcome of a run.
func summarize(report *orchestrate.Report) {
	for _, p := range report.Platforms {
		switch p.Status {
		case orchestrate.StatusSkipped:
			slog.Warn("platform skipped", "platform", p.Platform)
		case orchestrate.StatusFailed:
			slog.Error("platform failed", "platform", p.Platform, "error", p.Err)
		default:
			for _, t := range p.Tools {
				if t.Outcome == orchestrate.OutcomeOK {
					slog.Info("step succeeded", "platform", p.Platform, "tool", t.Tool)
					continue
				}
				slog.Error("step failed",
					"platform", p.Platform,
					"tool", t.Tool,
					"script", t.Script,
					"outcome", t.Outcome,
					"error", t.Err,
				)
			}
		}
	}
}
