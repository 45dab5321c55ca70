package dist

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/driftbuild/xbuild/internal/paths"
)

// The runtime launcher generated per declared executable.
//
// The script probes each platform subtree next to its own bin directory by
// sourcing that subtree's detection predicate in the subtree's context; the
// first predicate to exit zero selects the platform. Editor binaries get a
// private XDG namespace under the matched subtree so user state never leaks
// between ABI environments. The real binary replaces the script's process,
// with all arguments forwarded.
var dispatchTemplate = template.Must(template.New("dispatch").Parse(`#!/usr/bin/env bash
# Launcher for {{.Name}}. Generated; do not edit.
# Picks the platform subtree matching the running host and executes the
# real binary from it.

here="$(cd "$(dirname "${BASH_SOURCE[0]}")" && pwd)"
root="$(dirname "$here")"

for dir in "$root"/*/; do
    dir="${dir%/}"
    candidate="$(basename "$dir")"
    if [ "$candidate" = "bin" ]; then
        continue
    fi
    if [ ! -f "$dir/detect_platform.sh" ]; then
        continue
    fi
    if ( cd "$dir" && . ./detect_platform.sh ) >/dev/null 2>&1; then
{{- if .Editor}}
        mkdir -p "$dir/.xdg/cache" "$dir/.xdg/config" "$dir/.xdg/state" "$dir/.xdg/data"
        export XDG_CACHE_HOME="$dir/.xdg/cache"
        export XDG_CONFIG_HOME="$dir/.xdg/config"
        export XDG_STATE_HOME="$dir/.xdg/state"
        export XDG_DATA_HOME="$dir/.xdg/data"
{{- end}}
        export LD_LIBRARY_PATH="$dir/lib${LD_LIBRARY_PATH:+:$LD_LIBRARY_PATH}"
        exec "$dir/bin/{{.Name}}" "$@"
    fi
done

echo "No supported platform detected. Available platforms:" >&2
for dir in "$root"/*/; do
    candidate="$(basename "${dir%/}")"
    if [ "$candidate" != "bin" ]; then
        echo "  - $candidate" >&2
    fi
done
exit 1
`))

// Template inputs for one dispatch script.
type dispatchData struct {
	Name   string // Binary name, the final path segment of the declared path.
	Editor bool   // Whether the binary is an interactive editor.
}

// Whether a binary name indicates an interactive editor.
//
// Editors get per-platform XDG state directories so plugins and caches
// compiled against one ABI are never loaded under another.
func isEditor(name string) bool {
	return name == "vim" || strings.HasSuffix(name, "vim")
}

// Renders the dispatch script for one executable.
func renderDispatchScript(name string) ([]byte, error) {
	var buf bytes.Buffer
	err := dispatchTemplate.Execute(&buf, dispatchData{
		Name:   name,
		Editor: isEditor(name),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Generates the dispatch script for one executable into the tree's bin
// directory, marked executable.
func writeDispatchScript(root, name string) error {
	script, err := renderDispatchScript(name)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(root, binDir, name), script, paths.ScriptMode)
}
