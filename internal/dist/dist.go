package dist

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/driftbuild/xbuild/internal/manifest"
	"github.com/driftbuild/xbuild/internal/paths"
	"github.com/driftbuild/xbuild/internal/platform"
)

// Filename of the platform detection predicate inside each platform subtree.
const predicateScript = "detect_platform.sh"

// Name of the dispatch-script directory inside a distribution tree. Also
// the reserved name dispatch scripts skip when probing platform subtrees.
const binDir = "bin"

// Controls distribution synthesis.
type Options struct {
	Product     string                // Product name for the tree directory.
	Version     string                // Semantic version for the tree directory.
	SourceRoot  string                // Per-platform build outputs (deploy tree).
	ConfigRoot  string                // Platform build configurations holding predicates.
	OutputRoot  string                // Directory receiving the distribution tree.
	Executables []manifest.Executable // Binaries that get dispatch scripts.
}

// Describes a synthesized distribution tree.
type Tree struct {
	Root              string   // Path of the distribution tree.
	Platforms         []string // Platform subtrees copied in.
	MissingPredicates []string // Platforms for which no predicate was found.
}

// Merges per-platform build outputs into a single self-detecting
// distribution tree.
//
// Every platform subdirectory of the source root is copied wholesale into
// `<output>/<product>_v<version>/` under its own name, together with its
// detection predicate located from the matching build configuration. A
// platform without a predicate is flagged on the result but does not abort
// synthesis; that platform simply can never win dispatch. Afterwards one
// dispatch script per declared executable is generated into bin/.
//
// Fails only when the source root is absent, no platforms were copied, or
// no executables were declared.
func Synthesize(opts Options) (*Tree, error) {
	if len(opts.Executables) == 0 {
		return nil, fmt.Errorf("%w: no executables declared", ErrSynthesize)
	}
	if _, err := os.Stat(opts.SourceRoot); err != nil {
		return nil, fmt.Errorf("%w: source root %s: %v", ErrSynthesize, opts.SourceRoot, err)
	}

	// Discover before touching the output, so a misconfigured source root
	// leaves no half-created tree behind.
	names := platform.List(opts.SourceRoot)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no platform outputs under %s", ErrSynthesize, opts.SourceRoot)
	}

	root := filepath.Join(opts.OutputRoot, fmt.Sprintf("%s_v%s", opts.Product, opts.Version))
	if err := os.MkdirAll(filepath.Join(root, binDir), paths.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesize, err)
	}

	tree := &Tree{Root: root}

	for _, name := range names {
		src := filepath.Join(opts.SourceRoot, name)
		dst := filepath.Join(root, name)

		slog.Info("copying platform output", "platform", name, "dest", dst)
		if err := copyTree(src, dst); err != nil {
			return nil, fmt.Errorf("%w: platform %s: %v", ErrSynthesize, name, err)
		}
		tree.Platforms = append(tree.Platforms, name)

		if err := placePredicate(opts.ConfigRoot, name, dst); err != nil {
			slog.Warn("no detection predicate found for platform",
				"platform", name,
				"config_root", opts.ConfigRoot,
			)
			tree.MissingPredicates = append(tree.MissingPredicates, name)
		}
	}

	for _, exe := range opts.Executables {
		if err := writeDispatchScript(root, exe.Name()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSynthesize, err)
		}
	}

	return tree, nil
}

// Copies the platform's detection predicate from its build configuration.
//
// The output directory name and the configuration directory name often
// differ in punctuation (a deploy tree may use GLIBC_227 where the build
// configuration is GLIBC227), so matching compares normalized identifiers.
func placePredicate(configRoot, platformName, dst string) error {
	for _, cfg := range platform.List(configRoot) {
		if normalizeIdentifier(cfg) != normalizeIdentifier(platformName) {
			continue
		}

		src := filepath.Join(configRoot, cfg, predicateScript)
		if _, err := os.Stat(src); err != nil {
			continue
		}

		return copyFile(src, filepath.Join(dst, predicateScript), paths.ScriptMode)
	}

	return fmt.Errorf("no predicate for %s", platformName)
}

// Normalizes a platform identifier for matching across directory trees.
func normalizeIdentifier(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "")
	name = strings.ReplaceAll(name, "-", "")
	return name
}
