package platform

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// Script filename prefixes selecting the build or test role.
const (
	BuildPrefix = "build_"
	TestPrefix  = "test_"
)

// A tool step script discovered in a platform directory.
type script struct {
	tool     string // Tool name encoded in the filename.
	order    int    // Execution order, lower runs first.
	filename string // Filename relative to the platform directory.
}

// Matches "{prefix}{tool}.{order}.sh". The tool name is greedy so that names
// containing dots parse correctly: "build_tree.sitter.2.sh" yields the tool
// "tree.sitter" with order 2.
func scriptPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `(.+)\.(\d+)\.sh$`)
}

// Parses a directory entry against the script naming convention.
func parseScript(filename, prefix string) (script, bool) {
	m := scriptPattern(prefix).FindStringSubmatch(filename)
	if m == nil {
		return script{}, false
	}

	order, err := strconv.Atoi(m[2])
	if err != nil {
		// Unreachable for \d+ short of overflow; treat as no match.
		return script{}, false
	}

	return script{tool: m[1], order: order, filename: filename}, true
}

// Lists the step scripts for a platform, in directory order.
//
// A missing platform directory yields an empty list.
func listScripts(root, platform, prefix string) []script {
	entries, err := os.ReadDir(filepath.Join(root, platform))
	if err != nil {
		return nil
	}

	var scripts []script
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if s, ok := parseScript(entry.Name(), prefix); ok {
			scripts = append(scripts, s)
		}
	}
	return scripts
}

// Returns the tools available for a platform, in execution order.
//
// Each distinct tool name appears once. When several scripts declare the
// same tool, the lowest order value is authoritative and the others are
// shadowed. The result is sorted ascending by that authoritative order;
// tools sharing an order value keep their discovery order.
func Tools(root, platform, prefix string) []string {
	scripts := listScripts(root, platform, prefix)

	type entry struct {
		order int
		seen  int
	}
	lowest := make(map[string]entry)
	var names []string

	for i, s := range scripts {
		e, ok := lowest[s.tool]
		if !ok {
			lowest[s.tool] = entry{order: s.order, seen: i}
			names = append(names, s.tool)
			continue
		}
		if s.order < e.order {
			lowest[s.tool] = entry{order: s.order, seen: e.seen}
		}
	}

	sort.SliceStable(names, func(a, b int) bool {
		return lowest[names[a]].order < lowest[names[b]].order
	})

	return names
}

// Resolves the authoritative script filename for one tool.
//
// Among all scripts declaring exactly this tool name, the one with the
// lowest order wins. Returns false when no script matches; callers report
// this per tool and continue.
func Script(root, platform, prefix, tool string) (string, bool) {
	var best script
	found := false

	for _, s := range listScripts(root, platform, prefix) {
		if s.tool != tool {
			continue
		}
		if !found || s.order < best.order {
			best = s
			found = true
		}
	}

	return best.filename, found
}
