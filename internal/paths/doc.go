// Package paths centralizes filesystem locations and permission modes.
//
// The configuration file location follows the XDG base directory
// specification so that per-user flag defaults live in the standard
// platform location.
package paths
