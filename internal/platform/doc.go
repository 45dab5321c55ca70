// Package platform resolves platforms and tool scripts from the directory
// convention.
//
// A platform is a subdirectory of a build or test root, named after the
// target ABI environment (e.g. "GLIBC227"). Inside a platform directory,
// step scripts follow the naming convention
//
//	{prefix}{tool}.{order}.sh
//
// where prefix selects the role ("build_" or "test_"), tool names the piece
// of software being built, and order is a non-negative integer controlling
// execution sequence. When multiple scripts declare the same tool, the one
// with the lowest order is authoritative and shadows the rest.
//
// Selection validation applies default-to-all semantics: an empty request
// resolves to everything discovered, while an explicit request must match
// the catalog or discovery results exactly. Validation failures carry the
// full list of valid alternatives.
package platform
