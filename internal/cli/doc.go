// Parses flags and dispatches the xbuild subcommands.
//
// All commands accept the following global flags:
//
//	-q, --quiet     Suppress informational output.
//	-v, --verbose   Enable verbose output.
//	-d, --debug     Enable debug output.
//	-C, --project   Project root containing build/, test/, and deploy/.
//
// Flags override build-time defaults set via linker flags. After parsing, the
// global logger is reconfigured to reflect the final level before the selected
// subcommand runs.
package cli
