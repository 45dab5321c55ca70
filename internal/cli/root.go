package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/driftbuild/xbuild/internal"
	"github.com/driftbuild/xbuild/internal/paths"
)

// Subdirectories of the project root holding the directory convention.
const (
	buildDir  = "build"
	testDir   = "test"
	deployDir = "deploy"
	distDir   = "dist"
	extDir    = "external"
)

// Represents the root command for the xbuild CLI.
var RootCmd struct {
	Quiet   bool   `short:"q" help:"Suppress informational output."`
	Verbose bool   `short:"v" help:"Enable verbose output."`
	Debug   bool   `short:"d" help:"Enable debug output."`
	Project string `short:"C" help:"Project root containing build/, test/, and deploy/." default:"." placeholder:"DIR"`

	Build         BuildCmd         `cmd:"" help:"Build tools for the selected platforms."`
	Test          TestCmd          `cmd:"" help:"Run tool tests on the selected platforms."`
	DebugBuild    DebugBuildCmd    `cmd:"" help:"Open an interactive shell in a platform's builder container."`
	DebugTest     DebugTestCmd     `cmd:"" help:"Open an interactive shell in a platform's tester container."`
	ListPlatforms ListPlatformsCmd `cmd:"" help:"List available build and test platforms."`
	ListTools     ListToolsCmd     `cmd:"" help:"List available tools per platform."`
	Sync          SyncCmd          `cmd:"" help:"Clone or update tool source repositories."`
	Clean         CleanCmd         `cmd:"" help:"Remove build artifacts from all platform directories."`
	CleanDocker   CleanDockerCmd   `cmd:"" help:"Remove container images for the selected platforms."`
	CreateDist    CreateDistCmd    `cmd:"" help:"Assemble the multi-platform distribution tree."`
	Version       VersionCmd       `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Builds and tests command-line tools across C library ABIs using containers,\nand assembles a self-detecting multi-platform distribution."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, paths.ConfigFile()),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
//
// Flags override build-time defaults set via linker flags.
func configureLogger() {
	debug := RootCmd.Debug || internal.IsDebug()
	quiet := RootCmd.Quiet || internal.IsQuiet()
	verbose := RootCmd.Verbose || internal.IsVerbose()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	} else if quiet {
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: verbose,
	})
	slog.SetDefault(slog.New(handler).WithGroup(internal.Name))
}

// Returns a convention subdirectory resolved against the project root.
//
// The base path is threaded explicitly instead of changing the process
// working directory, so every lookup names the same tree regardless of
// where the command was started.
func projectPath(sub string) string {
	return filepath.Join(RootCmd.Project, sub)
}
