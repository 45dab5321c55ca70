package cli

import (
	"context"
	"log/slog"

	"github.com/driftbuild/xbuild/internal/dist"
	"github.com/driftbuild/xbuild/internal/manifest"
)

// Represents the 'xbuild create-dist' command.
type CreateDistCmd struct{}

// Executes the create-dist command.
//
// Merges the per-platform deploy outputs into a single versioned
// distribution tree with a self-detecting dispatch script for every
// declared executable.
func (c *CreateDistCmd) Run(ctx context.Context) error {
	project, err := manifest.LoadProject(projectPath(manifest.ProjectFile))
	if err != nil {
		return err
	}

	executables, err := manifest.LoadExecutables(projectPath(manifest.ExecutablesFile))
	if err != nil {
		return err
	}

	tree, err := dist.Synthesize(dist.Options{
		Product:     project.Name,
		Version:     project.Version,
		SourceRoot:  projectPath(deployDir),
		ConfigRoot:  projectPath(buildDir),
		OutputRoot:  projectPath(distDir),
		Executables: executables,
	})
	if err != nil {
		return err
	}

	for _, p := range tree.MissingPredicates {
		slog.Warn("no detection predicate found", "platform", p)
	}
	slog.Info("distribution tree created", "root", tree.Root, "platforms", len(tree.Platforms))

	return nil
}
