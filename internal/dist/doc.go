// Package dist assembles the multi-platform distribution tree.
//
// Synthesis merges the per-platform build outputs into a single versioned
// directory, places each platform's detection predicate alongside its
// artifacts, and generates one dispatch script per declared executable.
// The resulting tree is self-detecting: running a dispatch script on any
// supported host selects the matching platform subtree at run time and
// hands the process over to that subtree's copy of the real binary.
package dist
