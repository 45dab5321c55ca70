package cli

import (
	"context"
	"log/slog"

	"github.com/driftbuild/xbuild/internal/manifest"
	"github.com/driftbuild/xbuild/internal/repos"
)

// Represents the 'xbuild sync' command.
type SyncCmd struct{}

// Executes the sync command.
//
// Clones or updates every tool repository listed in the project manifest
// into the external directory.
func (c *SyncCmd) Run(ctx context.Context) error {
	list, err := manifest.LoadToolRepos(projectPath(manifest.ToolReposFile))
	if err != nil {
		return err
	}

	slog.Info("syncing tool repositories", "count", len(list), "dir", projectPath(extDir))

	return repos.New(projectPath(extDir)).Sync(ctx, list)
}
