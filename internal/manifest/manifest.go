package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Default manifest filenames at the project root.
const (
	ToolReposFile   = "tool_repos.yaml"
	ExecutablesFile = "executables.yaml"
	ProjectFile     = "pyproject.toml"
)

// A tool source repository declared in tool_repos.yaml.
type ToolRepo struct {
	Name   string // Tool name, the key in the manifest mapping.
	URL    string // Clone URL.
	Branch string // Branch to track.
}

// Wire format for one tool_repos.yaml entry.
type repoSpec struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch"`
}

// Loads and validates the tool repository manifest.
//
// Every entry must declare both url and branch; a missing field fails the
// whole load rather than producing a half-usable record. Entries are
// returned sorted by tool name so sync order is stable.
func LoadToolRepos(path string) ([]ToolRepo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}

	var specs map[string]repoSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrManifest, path, err)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: %s declares no repositories", ErrManifest, path)
	}

	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)

	repos := make([]ToolRepo, 0, len(names))
	for _, name := range names {
		spec := specs[name]
		if strings.TrimSpace(spec.URL) == "" {
			return nil, fmt.Errorf("%w: %s: repository %q has no url", ErrManifest, path, name)
		}
		if strings.TrimSpace(spec.Branch) == "" {
			return nil, fmt.Errorf("%w: %s: repository %q has no branch", ErrManifest, path, name)
		}
		repos = append(repos, ToolRepo{Name: name, URL: spec.URL, Branch: spec.Branch})
	}

	return repos, nil
}

// An executable declared in executables.yaml.
type Executable struct {
	Path string // Path as declared in the manifest.
}

// Returns the binary name: the final path segment.
func (e Executable) Name() string {
	return filepath.Base(e.Path)
}

// Loads the declared executables manifest.
//
// The manifest is a YAML sequence of paths. An absent or empty manifest is
// an error: distribution synthesis cannot generate dispatch scripts without
// knowing which binaries exist.
func LoadExecutables(path string) ([]Executable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}

	var entries []string
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrManifest, path, err)
	}

	var executables []Executable
	for i, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			return nil, fmt.Errorf("%w: %s: entry %d is empty", ErrManifest, path, i+1)
		}
		executables = append(executables, Executable{Path: entry})
	}
	if len(executables) == 0 {
		return nil, fmt.Errorf("%w: %s declares no executables", ErrManifest, path)
	}

	return executables, nil
}

// Product identity read from the pyproject manifest.
type Project struct {
	Name    string // Product name, used for the distribution tree.
	Version string // Semantic version string.
}

// Wire format for the subset of pyproject.toml this system reads.
//
// PEP 621 [project] metadata is preferred; the poetry table is a fallback
// for older manifests.
type pyproject struct {
	Project struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name    string `toml:"name"`
			Version string `toml:"version"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// Loads the product name and version from a pyproject.toml manifest.
//
// Fails when neither table supplies both fields.
func LoadProject(path string) (Project, error) {
	var pp pyproject
	if _, err := toml.DecodeFile(path, &pp); err != nil {
		return Project{}, fmt.Errorf("%w: %v", ErrManifest, err)
	}

	p := Project{Name: pp.Project.Name, Version: pp.Project.Version}
	if p.Name == "" {
		p.Name = pp.Tool.Poetry.Name
	}
	if p.Version == "" {
		p.Version = pp.Tool.Poetry.Version
	}

	if p.Name == "" || p.Version == "" {
		return Project{}, fmt.Errorf("%w: %s declares no project name/version", ErrManifest, path)
	}

	return p, nil
}
