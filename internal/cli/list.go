package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/driftbuild/xbuild/internal/platform"
)

// Represents the 'xbuild list-platforms' command.
type ListPlatformsCmd struct{}

// Executes the list-platforms command.
func (c *ListPlatformsCmd) Run(ctx context.Context) error {
	fmt.Println("Build platforms:")
	printNames(platform.List(projectPath(buildDir)))

	fmt.Println("\nTest platforms:")
	printNames(platform.List(projectPath(testDir)))

	return nil
}

// Represents the 'xbuild list-tools' command.
type ListToolsCmd struct{}

// Executes the list-tools command.
func (c *ListToolsCmd) Run(ctx context.Context) error {
	fmt.Println("Build tools by platform:")
	printTools(projectPath(buildDir), platform.BuildPrefix)

	fmt.Println("\nTest tools by platform:")
	printTools(projectPath(testDir), platform.TestPrefix)

	return nil
}

// Prints an indented name list, or a placeholder when empty.
func printNames(names []string) {
	if len(names) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, name := range names {
		fmt.Printf("  - %s\n", name)
	}
}

// Prints each platform's tools in execution order.
func printTools(root, prefix string) {
	platforms := platform.List(root)
	if len(platforms) == 0 {
		fmt.Println("  (none)")
		return
	}

	for _, p := range platforms {
		tools := platform.Tools(root, p, prefix)
		if len(tools) == 0 {
			fmt.Printf("  %s: (no scripts found)\n", p)
			continue
		}
		fmt.Printf("  %s: %s\n", p, strings.Join(tools, ", "))
	}
}
