package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseScript(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		prefix   string
		tool     string
		order    int
		ok       bool
	}{
		{
			name:     "simple build script",
			filename: "build_neovim.1.sh",
			prefix:   BuildPrefix,
			tool:     "neovim",
			order:    1,
			ok:       true,
		},
		{
			name:     "zero order",
			filename: "build_treesitter.0.sh",
			prefix:   BuildPrefix,
			tool:     "treesitter",
			order:    0,
			ok:       true,
		},
		{
			name:     "tool name with dots",
			filename: "build_tree.sitter.2.sh",
			prefix:   BuildPrefix,
			tool:     "tree.sitter",
			order:    2,
			ok:       true,
		},
		{
			name:     "test prefix",
			filename: "test_neovim.3.sh",
			prefix:   TestPrefix,
			tool:     "neovim",
			order:    3,
			ok:       true,
		},
		{
			name:     "multi-digit order",
			filename: "build_gcc.12.sh",
			prefix:   BuildPrefix,
			tool:     "gcc",
			order:    12,
			ok:       true,
		},
		{
			name:     "wrong prefix",
			filename: "test_neovim.1.sh",
			prefix:   BuildPrefix,
		},
		{
			name:     "missing order",
			filename: "build_neovim.sh",
			prefix:   BuildPrefix,
		},
		{
			name:     "non-numeric order",
			filename: "build_neovim.one.sh",
			prefix:   BuildPrefix,
		},
		{
			name:     "wrong extension",
			filename: "build_neovim.1.bash",
			prefix:   BuildPrefix,
		},
		{
			name:     "unrelated file",
			filename: "Dockerfile",
			prefix:   BuildPrefix,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := parseScript(tt.filename, tt.prefix)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !tt.ok {
				return
			}
			if s.tool != tt.tool {
				t.Errorf("tool = %q, want %q", s.tool, tt.tool)
			}
			if s.order != tt.order {
				t.Errorf("order = %d, want %d", s.order, tt.order)
			}
		})
	}
}

func TestToolsOrdering(t *testing.T) {
	root := t.TempDir()
	writeScripts(t, root, "GLIBC227",
		"build_neovim.1.sh",
		"build_treesitter.0.sh",
		"build_luajit.2.sh",
	)

	got := Tools(root, "GLIBC227", BuildPrefix)
	assertStrings(t, got, []string{"treesitter", "neovim", "luajit"})
}

func TestToolsShadowing(t *testing.T) {
	root := t.TempDir()
	writeScripts(t, root, "EL7",
		"build_neovim.5.sh",
		"build_neovim.1.sh",
		"build_treesitter.3.sh",
	)

	got := Tools(root, "EL7", BuildPrefix)

	// neovim appears once, ranked by its lowest order (1), ahead of
	// treesitter (3).
	assertStrings(t, got, []string{"neovim", "treesitter"})
}

func TestToolsTiesKeepDiscoveryOrder(t *testing.T) {
	root := t.TempDir()
	writeScripts(t, root, "EL7",
		"build_alpha.1.sh",
		"build_beta.1.sh",
		"build_gamma.0.sh",
	)

	got := Tools(root, "EL7", BuildPrefix)
	assertStrings(t, got, []string{"gamma", "alpha", "beta"})
}

func TestToolsMissingPlatform(t *testing.T) {
	got := Tools(t.TempDir(), "NOPE", BuildPrefix)
	if len(got) != 0 {
		t.Fatalf("Tools on missing platform = %v, want empty", got)
	}
}

func TestToolsIgnoresSubdirectories(t *testing.T) {
	root := t.TempDir()
	writeScripts(t, root, "EL7", "build_neovim.1.sh")
	mkdir(t, root, filepath.Join("EL7", "build_fake.0.sh"))

	got := Tools(root, "EL7", BuildPrefix)
	assertStrings(t, got, []string{"neovim"})
}

func TestScript(t *testing.T) {
	root := t.TempDir()
	writeScripts(t, root, "EL7",
		"build_foo.4.sh",
		"build_foo.2.sh",
		"build_foobar.0.sh",
	)

	name, ok := Script(root, "EL7", BuildPrefix, "foo")
	if !ok {
		t.Fatal("Script returned not found")
	}
	if name != "build_foo.2.sh" {
		t.Fatalf("Script = %q, want build_foo.2.sh", name)
	}
}

func TestScriptNotFound(t *testing.T) {
	root := t.TempDir()
	writeScripts(t, root, "EL7", "build_foo.1.sh")

	if _, ok := Script(root, "EL7", BuildPrefix, "bar"); ok {
		t.Fatal("Script found a script for an unknown tool")
	}
}

func TestScriptExactNameOnly(t *testing.T) {
	root := t.TempDir()
	writeScripts(t, root, "EL7", "build_foobar.0.sh")

	if _, ok := Script(root, "EL7", BuildPrefix, "foo"); ok {
		t.Fatal("Script matched a prefix of another tool name")
	}
}

// Creates a platform directory populated with empty script files.
func writeScripts(t *testing.T, root, platform string, names ...string) {
	t.Helper()
	dir := filepath.Join(root, platform)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), 0755); err != nil {
			t.Fatal(err)
		}
	}
}
