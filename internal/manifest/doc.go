// Package manifest loads the project-root manifests as typed records.
//
// Three manifests drive the system: tool_repos.yaml maps tool names to
// their source repositories, executables.yaml declares the binaries that
// get dispatch scripts in the distribution, and pyproject.toml supplies
// the product name and version. All three are validated at load time and
// fail fast on missing required fields.
package manifest
