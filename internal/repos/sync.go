package repos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/driftbuild/xbuild/internal/manifest"
	"github.com/driftbuild/xbuild/internal/paths"
)

var ErrSync = errors.New("repository sync failed")

// Runs a git invocation; replaced in tests.
type runFunc func(ctx context.Context, args ...string) error

// Synchronizes tool source repositories into the external directory.
type Syncer struct {
	externalDir string
	run         runFunc
}

// Creates a syncer writing below the given external directory.
func New(externalDir string) *Syncer {
	return &Syncer{externalDir: externalDir, run: runGit}
}

// Brings every declared tool repository up to date.
//
// A repository that has never been cloned is cloned on its declared branch;
// an existing clone is fast-forwarded. Failures are reported per repository
// and the remaining repositories still sync; the combined error is returned
// at the end.
func (s *Syncer) Sync(ctx context.Context, repos []manifest.ToolRepo) error {
	if err := os.MkdirAll(s.externalDir, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %v", ErrSync, err)
	}

	var errs []error
	for _, repo := range repos {
		if err := s.syncOne(ctx, repo); err != nil {
			slog.Error("sync failed", "tool", repo.Name, "url", repo.URL, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", repo.Name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrSync, errors.Join(errs...))
	}
	return nil
}

// Clones or updates a single repository.
func (s *Syncer) syncOne(ctx context.Context, repo manifest.ToolRepo) error {
	dir := filepath.Join(s.externalDir, repo.Name)

	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		slog.Info("updating tool source", "tool", repo.Name, "branch", repo.Branch)
		return s.run(ctx, "-C", dir, "pull", "--ff-only", "origin", repo.Branch)
	}

	slog.Info("cloning tool source", "tool", repo.Name, "url", repo.URL, "branch", repo.Branch)
	return s.run(ctx, "clone", "--branch", repo.Branch, repo.URL, dir)
}

// Invokes git with output streamed to the terminal.
func runGit(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
