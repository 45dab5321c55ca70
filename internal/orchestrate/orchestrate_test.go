package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/driftbuild/xbuild/internal/docker"
)

// Records container-service calls without touching docker.
type fakeService struct {
	created    map[string]time.Time // Existing images and their creation times.
	inspectErr error                // Overrides ImageCreatedAt when set.
	failRun    map[string]bool      // Script paths whose runs exit non-zero.

	volumes []string
	builds  []string
	runs    []docker.RunOptions
}

func newFakeService() *fakeService {
	return &fakeService{
		created: make(map[string]time.Time),
		failRun: make(map[string]bool),
	}
}

func (f *fakeService) ImageCreatedAt(_ context.Context, image string) (time.Time, error) {
	if f.inspectErr != nil {
		return time.Time{}, f.inspectErr
	}
	created, ok := f.created[image]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", docker.ErrImageNotFound, image)
	}
	return created, nil
}

func (f *fakeService) BuildImage(_ context.Context, image, _, _ string) error {
	f.builds = append(f.builds, image)
	f.created[image] = time.Now().UTC()
	return nil
}

func (f *fakeService) EnsureVolume(_ context.Context, name string) error {
	f.volumes = append(f.volumes, name)
	return nil
}

func (f *fakeService) RunScript(_ context.Context, opts docker.RunOptions) error {
	f.runs = append(f.runs, opts)
	if len(opts.Command) > 0 && f.failRun[opts.Command[0]] {
		return fmt.Errorf("%w: exit code 2", docker.ErrCommandFailed)
	}
	return nil
}

func (f *fakeService) RunInteractive(_ context.Context, opts docker.RunOptions) error {
	f.runs = append(f.runs, opts)
	return nil
}

// Returns the commands of all recorded script runs.
func (f *fakeService) commands() []string {
	var cmds []string
	for _, r := range f.runs {
		cmds = append(cmds, r.Command[0])
	}
	return cmds
}

// Creates a build root with one platform holding the given files.
func writePlatform(t *testing.T, root, name string, files ...string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("#!/bin/sh\n"), 0755); err != nil {
			t.Fatal(err)
		}
	}
}

func buildOptions(root string) Options {
	return Options{
		Role:        RoleBuilder,
		ProjectRoot: filepath.Dir(root),
		Root:        root,
		CPUs:        2,
	}
}

func TestRunOrdersToolsByScriptOrder(t *testing.T) {
	root := filepath.Join(t.TempDir(), "build")
	writePlatform(t, root, "GLIBC227",
		"Dockerfile",
		"build_neovim.1.sh",
		"build_treesitter.0.sh",
	)
	writePlatform(t, root, "EL7",
		"Dockerfile",
		"build_tmux.0.sh",
	)

	svc := newFakeService()
	opts := buildOptions(root)
	opts.Platforms = "GLIBC227"

	report, err := Run(context.Background(), svc, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// treesitter (order 0) before neovim (order 1); EL7 untouched.
	wantCmds := []string{
		"/workspace/build_treesitter.0.sh",
		"/workspace/build_neovim.1.sh",
	}
	assertCommands(t, svc.commands(), wantCmds)

	for _, b := range svc.builds {
		if b == "builder-el7" {
			t.Fatal("EL7 image was built despite not being selected")
		}
	}

	if len(report.Platforms) != 1 || report.Platforms[0].Platform != "GLIBC227" {
		t.Fatalf("report platforms = %v, want GLIBC227 only", report.Platforms)
	}
	if report.Failed() {
		t.Fatal("report marked failed")
	}
}

func TestRunInvalidToolRejectsPlatform(t *testing.T) {
	root := filepath.Join(t.TempDir(), "build")
	writePlatform(t, root, "EL7", "Dockerfile", "build_neovim.0.sh")

	svc := newFakeService()
	opts := buildOptions(root)
	opts.Tools = "ghost"

	report, err := Run(context.Background(), svc, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(svc.runs) != 0 {
		t.Fatalf("container invocations = %d, want 0", len(svc.runs))
	}
	if len(svc.builds) != 0 {
		t.Fatalf("image builds = %d, want 0", len(svc.builds))
	}
	if report.Platforms[0].Status != StatusFailed {
		t.Fatalf("status = %q, want failed", report.Platforms[0].Status)
	}
	if !report.Failed() {
		t.Fatal("report not marked failed")
	}
}

func TestRunInvalidToolOnOnePlatformSiblingProceeds(t *testing.T) {
	root := filepath.Join(t.TempDir(), "build")
	writePlatform(t, root, "A", "Dockerfile", "build_neovim.0.sh")
	writePlatform(t, root, "B", "Dockerfile", "build_tmux.0.sh")

	svc := newFakeService()
	opts := buildOptions(root)
	opts.Tools = "tmux"

	report, err := Run(context.Background(), svc, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Platforms[0].Status != StatusFailed {
		t.Fatalf("platform A status = %q, want failed", report.Platforms[0].Status)
	}
	if report.Platforms[1].Status != StatusDone {
		t.Fatalf("platform B status = %q, want done", report.Platforms[1].Status)
	}
	assertCommands(t, svc.commands(), []string{"/workspace/build_tmux.0.sh"})
}

func TestRunToolFailureContinues(t *testing.T) {
	root := filepath.Join(t.TempDir(), "build")
	writePlatform(t, root, "EL7",
		"Dockerfile",
		"build_first.0.sh",
		"build_second.1.sh",
	)

	svc := newFakeService()
	svc.failRun["/workspace/build_first.0.sh"] = true

	report, err := Run(context.Background(), svc, buildOptions(root))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The second tool still ran.
	assertCommands(t, svc.commands(), []string{
		"/workspace/build_first.0.sh",
		"/workspace/build_second.1.sh",
	})

	tools := report.Platforms[0].Tools
	if tools[0].Outcome != OutcomeFailed {
		t.Fatalf("first outcome = %q, want failed", tools[0].Outcome)
	}
	if tools[1].Outcome != OutcomeOK {
		t.Fatalf("second outcome = %q, want ok", tools[1].Outcome)
	}
	if !report.Failed() {
		t.Fatal("report not marked failed")
	}
}

func TestRunCollectsDependenciesAfterEachBuildStep(t *testing.T) {
	root := filepath.Join(t.TempDir(), "build")
	writePlatform(t, root, "EL7",
		"Dockerfile",
		"build_a.0.sh",
		"build_b.1.sh",
		"collect_dependencies.sh",
	)

	svc := newFakeService()
	if _, err := Run(context.Background(), svc, buildOptions(root)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Collection follows each step immediately, never batched.
	assertCommands(t, svc.commands(), []string{
		"/workspace/build_a.0.sh",
		"/workspace/collect_dependencies.sh",
		"/workspace/build_b.1.sh",
		"/workspace/collect_dependencies.sh",
	})
}

func TestRunTesterRoleSkipsCollection(t *testing.T) {
	root := filepath.Join(t.TempDir(), "test")
	writePlatform(t, root, "EL7",
		"Dockerfile",
		"test_a.0.sh",
		"collect_dependencies.sh",
	)

	svc := newFakeService()
	opts := buildOptions(root)
	opts.Role = RoleTester

	if _, err := Run(context.Background(), svc, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertCommands(t, svc.commands(), []string{"/workspace/test_a.0.sh"})
	if len(svc.volumes) != 0 {
		t.Fatalf("tester created volumes: %v", svc.volumes)
	}
}

func TestRunSkipsPlatformWithoutScripts(t *testing.T) {
	root := filepath.Join(t.TempDir(), "build")
	writePlatform(t, root, "EMPTY", "Dockerfile")
	writePlatform(t, root, "EL7", "Dockerfile", "build_a.0.sh")

	svc := newFakeService()
	report, err := Run(context.Background(), svc, buildOptions(root))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var empty *PlatformResult
	for i := range report.Platforms {
		if report.Platforms[i].Platform == "EMPTY" {
			empty = &report.Platforms[i]
		}
	}
	if empty == nil {
		t.Fatal("EMPTY missing from report")
	}
	if empty.Status != StatusSkipped {
		t.Fatalf("EMPTY status = %q, want skipped", empty.Status)
	}
	if report.Failed() {
		t.Fatal("skip counted as failure")
	}
	assertCommands(t, svc.commands(), []string{"/workspace/build_a.0.sh"})
}

func TestRunMissingDescriptorFailsPlatform(t *testing.T) {
	root := filepath.Join(t.TempDir(), "build")
	writePlatform(t, root, "EL7", "build_a.0.sh") // no Dockerfile
	writePlatform(t, root, "OK", "Dockerfile", "build_b.0.sh")

	svc := newFakeService()
	report, err := Run(context.Background(), svc, buildOptions(root))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Platforms[0].Status != StatusFailed {
		t.Fatalf("EL7 status = %q, want failed", report.Platforms[0].Status)
	}
	if !errors.Is(report.Platforms[0].Err, ErrDescriptorMissing) {
		t.Fatalf("EL7 err = %v, want ErrDescriptorMissing", report.Platforms[0].Err)
	}

	// The sibling platform still ran.
	if report.Platforms[1].Status != StatusDone {
		t.Fatalf("OK status = %q, want done", report.Platforms[1].Status)
	}
}

func TestRunDaemonUnavailableAbortsInvocation(t *testing.T) {
	root := filepath.Join(t.TempDir(), "build")
	writePlatform(t, root, "A", "Dockerfile", "build_a.0.sh")
	writePlatform(t, root, "B", "Dockerfile", "build_b.0.sh")

	svc := newFakeService()
	svc.inspectErr = fmt.Errorf("%w: dial unix", docker.ErrDaemonUnavailable)

	report, err := Run(context.Background(), svc, buildOptions(root))
	if !errors.Is(err, docker.ErrDaemonUnavailable) {
		t.Fatalf("error = %v, want ErrDaemonUnavailable", err)
	}

	// Platform B was never reached.
	if len(report.Platforms) != 1 {
		t.Fatalf("platforms processed = %d, want 1", len(report.Platforms))
	}
}

func TestRunSkipsRebuildWhenImageCurrent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "build")
	writePlatform(t, root, "EL7", "Dockerfile", "build_a.0.sh")

	svc := newFakeService()
	svc.created["builder-el7"] = time.Now().Add(time.Hour).UTC()

	if _, err := Run(context.Background(), svc, buildOptions(root)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(svc.builds) != 0 {
		t.Fatalf("builds = %v, want none", svc.builds)
	}
	assertCommands(t, svc.commands(), []string{"/workspace/build_a.0.sh"})
}

func TestRunPostImageBuildHookAfterFreshBuild(t *testing.T) {
	root := filepath.Join(t.TempDir(), "build")
	writePlatform(t, root, "EL7",
		"Dockerfile",
		"post_image_build.sh",
		"build_a.0.sh",
	)

	svc := newFakeService()
	if _, err := Run(context.Background(), svc, buildOptions(root)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertCommands(t, svc.commands(), []string{
		"/workspace/post_image_build.sh",
		"/workspace/build_a.0.sh",
	})
}

func TestRunEmptyCatalog(t *testing.T) {
	svc := newFakeService()
	_, err := Run(context.Background(), svc, buildOptions(filepath.Join(t.TempDir(), "build")))
	if !errors.Is(err, ErrNoPlatforms) {
		t.Fatalf("error = %v, want ErrNoPlatforms", err)
	}
}

func TestRunMountsWorkspace(t *testing.T) {
	root := filepath.Join(t.TempDir(), "build")
	writePlatform(t, root, "EL7", "Dockerfile", "build_a.0.sh")

	svc := newFakeService()
	if _, err := Run(context.Background(), svc, buildOptions(root)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	run := svc.runs[0]
	if run.Workdir != "/workspace" {
		t.Fatalf("workdir = %q, want /workspace", run.Workdir)
	}

	targets := make(map[string]string)
	for _, m := range run.Mounts {
		targets[m.Target] = m.Source
	}
	if targets["/cache"] != "build-cache" {
		t.Errorf("cache mount = %q, want build-cache", targets["/cache"])
	}
	if !filepath.IsAbs(targets["/workspace"]) {
		t.Errorf("workspace mount %q is not absolute", targets["/workspace"])
	}
	if !filepath.IsAbs(targets["/deploy"]) || !filepath.IsAbs(targets["/external"]) {
		t.Errorf("deploy/external mounts not absolute: %v", targets)
	}
}

func assertCommands(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("commands = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("commands = %v, want %v", got, want)
		}
	}
}
