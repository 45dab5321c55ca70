package orchestrate

// Terminal state of one platform's run.
type Status string

const (
	StatusDone    Status = "done"    // All tools attempted; see per-tool outcomes.
	StatusSkipped Status = "skipped" // No tools found or selected for this platform.
	StatusFailed  Status = "failed"  // Validation or image readiness stopped the platform.
)

// Outcome of one tool's step within a platform.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeFailed  Outcome = "failed"
	OutcomeMissing Outcome = "missing-script"
)

// Records what happened to a single tool on a single platform.
type ToolResult struct {
	Tool    string  // Tool name.
	Script  string  // Resolved script filename; empty when missing.
	Outcome Outcome // What happened.
	Err     error   // Failure detail, nil on success.
}

// Records one platform's pass through the orchestrator state machine.
type PlatformResult struct {
	Platform string       // Platform name.
	Status   Status       // Terminal state.
	Err      error        // Why the platform skipped or failed, nil when done cleanly.
	Tools    []ToolResult // Per-tool outcomes, in execution order.
}

// Returns true if any tool on this platform did not complete successfully.
func (p *PlatformResult) failed() bool {
	if p.Status == StatusFailed {
		return true
	}
	for _, t := range p.Tools {
		if t.Outcome != OutcomeOK {
			return true
		}
	}
	return false
}

// The per-platform, per-tool outcome of one orchestration run.
//
// The orchestrator collects outcomes rather than unwinding on first failure,
// so a single invocation surfaces as much information as possible. Platforms
// appear in execution order.
type Report struct {
	Role      Role             // Role the run executed under.
	Platforms []PlatformResult // One entry per processed platform.
}

// Returns true if any platform or tool failed.
//
// Skipped platforms are not failures. A missing script is: it means the
// selection asked for work the platform cannot perform.
func (r *Report) Failed() bool {
	for i := range r.Platforms {
		if r.Platforms[i].Status == StatusSkipped {
			continue
		}
		if r.Platforms[i].failed() {
			return true
		}
	}
	return false
}
