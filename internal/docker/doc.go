// Package docker wraps the docker CLI as an opaque command-execution
// service.
//
// The orchestration layers treat the container runtime as an external
// collaborator: they only need to build images, query image creation
// times, and run scripts inside fresh containers. This package provides
// exactly that surface, invoking the docker binary with structured
// argument lists (never shell strings) and mapping failures onto three
// sentinel errors:
//
//   - [ErrImageNotFound]: the queried image does not exist locally.
//   - [ErrDaemonUnavailable]: the daemon could not be reached; nothing
//     further can succeed in this invocation.
//   - [ErrCommandFailed]: the subcommand ran and exited non-zero.
//
// Build and run output streams to the terminal; inspect-style queries are
// captured. Interactive sessions attach all three standard streams so the
// container owns the terminal until it exits.
package docker
