package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/driftbuild/xbuild/internal/docker"
)

// Writes a Dockerfile and pins its modification time.
func writeDescriptor(t *testing.T, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Dockerfile")
	if err := os.WriteFile(path, []byte("FROM scratch\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNeedsRebuildForce(t *testing.T) {
	// Force wins before the descriptor is even consulted.
	svc := newFakeService()
	got, err := needsRebuild(context.Background(), svc, "builder-el7", "does-not-matter", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Fatal("force = true did not request a rebuild")
	}
}

func TestNeedsRebuildMissingDescriptor(t *testing.T) {
	svc := newFakeService()
	_, err := needsRebuild(context.Background(), svc, "builder-el7",
		filepath.Join(t.TempDir(), "Dockerfile"), false)
	if !errors.Is(err, ErrDescriptorMissing) {
		t.Fatalf("error = %v, want ErrDescriptorMissing", err)
	}
}

func TestNeedsRebuildStatFailureIsNotMissing(t *testing.T) {
	// A filename past the filesystem's component limit fails stat with
	// ENAMETOOLONG. That is filesystem trouble, not an absent
	// descriptor, and must not read as one.
	descriptor := filepath.Join(t.TempDir(), strings.Repeat("d", 300))

	svc := newFakeService()
	_, err := needsRebuild(context.Background(), svc, "builder-el7", descriptor, false)
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrDescriptorMissing) {
		t.Fatalf("error = %v, must not be ErrDescriptorMissing", err)
	}
}

func TestNeedsRebuildMissingImage(t *testing.T) {
	svc := newFakeService()
	descriptor := writeDescriptor(t, time.Now())

	got, err := needsRebuild(context.Background(), svc, "builder-el7", descriptor, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Fatal("missing image did not request a rebuild")
	}
}

func TestNeedsRebuildTimestamps(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		mtime time.Time
		want  bool
	}{
		{
			name:  "descriptor newer",
			mtime: created.Add(time.Minute),
			want:  true,
		},
		{
			name:  "descriptor older",
			mtime: created.Add(-time.Minute),
			want:  false,
		},
		{
			name:  "equal timestamps",
			mtime: created,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeService()
			svc.created["builder-el7"] = created
			descriptor := writeDescriptor(t, tt.mtime)

			got, err := needsRebuild(context.Background(), svc, "builder-el7", descriptor, false)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("needsRebuild = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNeedsRebuildDaemonErrorIsFatal(t *testing.T) {
	svc := newFakeService()
	svc.inspectErr = fmt.Errorf("%w: dial unix", docker.ErrDaemonUnavailable)
	descriptor := writeDescriptor(t, time.Now())

	_, err := needsRebuild(context.Background(), svc, "builder-el7", descriptor, false)
	if !errors.Is(err, docker.ErrDaemonUnavailable) {
		t.Fatalf("error = %v, want ErrDaemonUnavailable", err)
	}
}

func TestNeedsRebuildIdempotent(t *testing.T) {
	svc := newFakeService()
	svc.created["builder-el7"] = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	descriptor := writeDescriptor(t, time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC))

	first, err := needsRebuild(context.Background(), svc, "builder-el7", descriptor, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := needsRebuild(context.Background(), svc, "builder-el7", descriptor, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("results differ across identical calls: %v then %v", first, second)
	}
}
