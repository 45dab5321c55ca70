package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	goruntime "runtime"
	"time"

	"github.com/driftbuild/xbuild/internal/docker"
	"github.com/driftbuild/xbuild/internal/platform"
)

const (

	// Name of the shared build-cache volume mounted into every container.
	// Access is never concurrent: platforms and tools run strictly one at a
	// time, so the volume needs no locking.
	cacheVolume = "build-cache"

	// Mount points inside containers.
	cacheTarget     = "/cache"
	externalTarget  = "/external"
	deployTarget    = "/deploy"
	workspaceTarget = "/workspace"

	// Optional per-platform hook scripts.
	postImageBuildScript = "post_image_build.sh"
	collectDepsScript    = "collect_dependencies.sh"
)

// The container operations the orchestrator needs.
//
// Implemented by [docker.Client]; tests substitute a recording fake.
type ContainerService interface {
	ImageCreatedAt(ctx context.Context, image string) (time.Time, error)
	BuildImage(ctx context.Context, image, dockerfile, contextDir string) error
	EnsureVolume(ctx context.Context, name string) error
	RunScript(ctx context.Context, opts docker.RunOptions) error
	RunInteractive(ctx context.Context, opts docker.RunOptions) error
}

// Controls one orchestration run.
type Options struct {
	Role        Role   // Builder or tester.
	ProjectRoot string // Base path for deploy/ and external/ mounts.
	Root        string // Scripts root holding the platform directories.
	Platforms   string // Requested platform selection; empty means all.
	Tools       string // Requested tool selection; empty means all.
	Force       bool   // Force image rebuilds regardless of timestamps.
	CPUs        int    // CPU limit for build containers; 0 means host count.
}

// Holds shared state for one run across all platforms.
type orchestrator struct {
	svc  ContainerService
	opts Options
}

// Executes the selected (platform x tool) matrix, sequentially.
//
// Platforms are processed strictly left-to-right in validation order; tools
// within a platform strictly in script order. Per-tool failures are recorded
// and the loop continues, so one invocation surfaces every failure it can.
// Only two things end the run early: an invalid platform selection (nothing
// sensible can execute) and an unreachable docker daemon (nothing further
// can succeed). The returned report always covers every platform reached.
func Run(ctx context.Context, svc ContainerService, opts Options) (*Report, error) {
	platforms, err := platform.ValidatePlatforms(opts.Platforms, opts.Root)
	if err != nil {
		return nil, err
	}
	if len(platforms) == 0 {
		return nil, fmt.Errorf("%w in %s/", ErrNoPlatforms, opts.Root)
	}

	if opts.CPUs == 0 {
		opts.CPUs = goruntime.NumCPU()
	}

	o := &orchestrator{svc: svc, opts: opts}

	// The cache volume is shared by every build container; create it up
	// front so the first tool step does not race its own mount.
	if opts.Role == RoleBuilder {
		if err := svc.EnsureVolume(ctx, cacheVolume); err != nil {
			return nil, err
		}
	}

	report := &Report{Role: opts.Role}
	for _, p := range platforms {
		result := o.runPlatform(ctx, p)
		report.Platforms = append(report.Platforms, result)

		if errors.Is(result.Err, docker.ErrDaemonUnavailable) {
			return report, result.Err
		}
	}

	return report, nil
}

// Drives a single platform from validation through its tool loop.
func (o *orchestrator) runPlatform(ctx context.Context, platformName string) PlatformResult {
	slog.Info("processing platform", "platform", platformName, "role", o.opts.Role)

	result := PlatformResult{Platform: platformName}

	tools, err := platform.ValidateTools(o.opts.Tools, o.opts.Root, platformName, o.opts.Role.Prefix())
	if err != nil {
		// The invalid selection rejects this platform only; siblings in the
		// same invocation still run.
		slog.Error(err.Error())
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	if len(tools) == 0 {
		slog.Warn("no scripts found, skipping platform",
			"platform", platformName,
			"prefix", o.opts.Role.Prefix(),
		)
		result.Status = StatusSkipped
		return result
	}

	if err := o.ensureImage(ctx, platformName); err != nil {
		slog.Error("image not ready", "platform", platformName, "error", err)
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	for _, tool := range tools {
		result.Tools = append(result.Tools, o.runTool(ctx, platformName, tool))
	}

	result.Status = StatusDone
	return result
}

// Brings the platform's image up to date, rebuilding when stale.
//
// After a fresh build, the optional post_image_build hook runs once inside
// the new image with the platform directory as working directory.
func (o *orchestrator) ensureImage(ctx context.Context, platformName string) error {
	image := o.opts.Role.ImageName(platformName)
	platformDir := filepath.Join(o.opts.Root, platformName)
	descriptor := filepath.Join(platformDir, "Dockerfile")

	rebuild, err := needsRebuild(ctx, o.svc, image, descriptor, o.opts.Force)
	if err != nil {
		return err
	}
	if !rebuild {
		return nil
	}

	slog.Info("building image", "image", image, "descriptor", descriptor)
	if err := o.svc.BuildImage(ctx, image, descriptor, platformDir); err != nil {
		return err
	}

	return o.runPostImageBuild(ctx, image, platformDir)
}

// Runs the post_image_build hook if the platform declares one.
func (o *orchestrator) runPostImageBuild(ctx context.Context, image, platformDir string) error {
	if _, err := os.Stat(filepath.Join(platformDir, postImageBuildScript)); err != nil {
		return nil
	}

	slog.Info("running post image build hook", "image", image)

	mounts, err := o.mounts(platformDir)
	if err != nil {
		return err
	}

	return o.svc.RunScript(ctx, docker.RunOptions{
		Image:   image,
		Mounts:  mounts,
		Workdir: workspaceTarget,
		Command: []string{workspaceTarget + "/" + postImageBuildScript},
	})
}

// Executes one tool's authoritative script inside a fresh container.
//
// A missing script and a non-zero exit are both recorded on the result; the
// caller continues with the next tool either way. For the build role, a
// successful step is immediately followed by the dependency collection hook
// when the platform declares one.
func (o *orchestrator) runTool(ctx context.Context, platformName, tool string) ToolResult {
	result := ToolResult{Tool: tool}

	script, ok := platform.Script(o.opts.Root, platformName, o.opts.Role.Prefix(), tool)
	if !ok {
		slog.Error("no script found for tool",
			"platform", platformName,
			"tool", tool,
			"prefix", o.opts.Role.Prefix(),
		)
		result.Outcome = OutcomeMissing
		return result
	}
	result.Script = script

	slog.Info("running tool step", "platform", platformName, "tool", tool, "script", script)

	platformDir := filepath.Join(o.opts.Root, platformName)
	if err := o.runInWorkspace(ctx, platformName, platformDir, script); err != nil {
		slog.Error("tool step failed",
			"platform", platformName,
			"tool", tool,
			"script", script,
			"error", err,
		)
		result.Outcome = OutcomeFailed
		result.Err = err
		return result
	}

	if o.opts.Role == RoleBuilder {
		if err := o.collectDependencies(ctx, platformName, platformDir); err != nil {
			slog.Error("dependency collection failed",
				"platform", platformName,
				"tool", tool,
				"error", err,
			)
			result.Outcome = OutcomeFailed
			result.Err = err
			return result
		}
	}

	result.Outcome = OutcomeOK
	return result
}

// Runs the dependency collection hook after a successful build step.
//
// The hook is optional; platforms without one simply skip collection. It
// runs immediately after its tool's build step, never batched at the end.
func (o *orchestrator) collectDependencies(ctx context.Context, platformName, platformDir string) error {
	if _, err := os.Stat(filepath.Join(platformDir, collectDepsScript)); err != nil {
		return nil
	}

	slog.Debug("collecting distribution dependencies", "platform", platformName)
	return o.runInWorkspace(ctx, platformName, platformDir, collectDepsScript)
}

// Runs a platform-local script inside a fresh container with the standard
// mount set.
func (o *orchestrator) runInWorkspace(ctx context.Context, platformName, platformDir, script string) error {
	mounts, err := o.mounts(platformDir)
	if err != nil {
		return err
	}

	cpus := 0
	if o.opts.Role == RoleBuilder {
		cpus = o.opts.CPUs
	}

	return o.svc.RunScript(ctx, docker.RunOptions{
		Image:   o.opts.Role.ImageName(platformName),
		Mounts:  mounts,
		Workdir: workspaceTarget,
		CPUs:    cpus,
		Command: []string{workspaceTarget + "/" + script},
	})
}

// Returns the standard mount set for a platform's containers.
//
// Every container sees the shared cache volume, the tool sources, the
// deploy output tree, and the platform's own directory as its workspace.
// Host paths are made absolute so docker receives bind sources rather than
// accidental volume names.
func (o *orchestrator) mounts(platformDir string) ([]docker.Mount, error) {
	absPlatform, err := filepath.Abs(platformDir)
	if err != nil {
		return nil, err
	}
	absExternal, err := filepath.Abs(filepath.Join(o.opts.ProjectRoot, "external"))
	if err != nil {
		return nil, err
	}
	absDeploy, err := filepath.Abs(filepath.Join(o.opts.ProjectRoot, "deploy"))
	if err != nil {
		return nil, err
	}

	return []docker.Mount{
		{Source: cacheVolume, Target: cacheTarget},
		{Source: absExternal, Target: externalTarget},
		{Source: absDeploy, Target: deployTarget},
		{Source: absPlatform, Target: workspaceTarget},
	}, nil
}
