package dist

import (
	"io"
	"os"
	"path/filepath"

	"github.com/driftbuild/xbuild/internal/paths"
)

// Copies a directory tree, preserving file modes.
//
// Symbolic links are recreated as links rather than followed, since build
// outputs commonly use versioned .so symlink chains that must survive the
// copy intact. Copying over an existing tree overwrites what is already
// there, so a synthesis can be re-run in place.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.Type()&os.ModeSymlink != 0:
			dest, err := os.Readlink(path)
			if err != nil {
				return err
			}
			// A link left by a previous synthesis of the same version
			// must be replaced, not tripped over.
			if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
				return err
			}
			return os.Symlink(dest, target)

		case d.IsDir():
			return os.MkdirAll(target, paths.DefaultDirMode)

		default:
			info, err := d.Info()
			if err != nil {
				return err
			}
			return copyFile(path, target, info.Mode().Perm())
		}
	})
}

// Copies a single file with the given mode.
func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
