// Package orchestrate drives containerized tool builds and tests.
//
// A run resolves the requested (platform x tool) selection, brings each
// platform's container image up to date, and executes every tool's step
// script in order inside fresh, auto-removed containers. Each platform
// moves through validation, an image staleness check, an optional image
// build, and the tool loop. Execution is fully sequential: platforms run
// left-to-right in validation order and tools run in their script order,
// one container at a time, which is what makes the shared cache volume
// safe without locking.
//
// Failures are collected, not propagated: a tool with a missing script or
// a non-zero exit is recorded on the report and the run moves on, so one
// invocation surfaces every problem it can reach. Only an unreachable
// daemon aborts the run, since no further container operation could
// succeed.
//
// Example usage:
//
//	report, err := orchestrate.Run(ctx, docker.New(), orchestrate.Options{
//	    Role:        orchestrate.RoleBuilder,
//	    ProjectRoot: ".",
//	    Root:        "build",
//	    Platforms:   "GLIBC227",
//	})
//	if err != nil {
//	    return err
//	}
//	if report.Failed() {
//	    return errors.New("one or more builds failed")
//	}
package orchestrate
