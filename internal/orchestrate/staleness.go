package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/driftbuild/xbuild/internal/docker"
)

// Queries image metadata from the container service.
type imageInspector interface {
	ImageCreatedAt(ctx context.Context, image string) (time.Time, error)
}

// Decides whether a container image must be (re)built.
//
// The rules apply in order: a force request always rebuilds; a missing
// descriptor is fatal for this platform's image build (the build could not
// proceed anyway, so "no rebuild needed" would be a lie); a missing image
// rebuilds; otherwise the descriptor must be strictly newer than the image,
// both compared in UTC. Equal timestamps mean the image is current.
//
// A query failure other than "image not found" is returned as-is: an
// unreachable daemon must not be mistaken for a missing image.
func needsRebuild(ctx context.Context, svc imageInspector, image, descriptor string, force bool) (bool, error) {
	if force {
		slog.Info("force rebuild requested", "image", image)
		return true, nil
	}

	info, err := os.Stat(descriptor)
	if errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("%w: %s", ErrDescriptorMissing, descriptor)
	}
	if err != nil {
		// Permission or I/O trouble is not the same as "no descriptor";
		// surface it as-is.
		return false, err
	}

	created, err := svc.ImageCreatedAt(ctx, image)
	if errors.Is(err, docker.ErrImageNotFound) {
		slog.Info("image does not exist, will build", "image", image)
		return true, nil
	}
	if err != nil {
		return false, err
	}

	modified := info.ModTime().UTC()
	if modified.After(created) {
		slog.Info("descriptor newer than image, will rebuild",
			"image", image,
			"descriptor_modified", modified,
			"image_created", created,
		)
		return true, nil
	}

	slog.Debug("image is up to date", "image", image)
	return false, nil
}
