package types

import (
	"fmt"
	"strings"
)

// TestStatus represents the possible states of a correlated verdict
type TestStatus string

const (
	// TestStatusPending is the zero state of a tree node before any batch
	// has painted it.
	TestStatusPending TestStatus = ""
	TestStatusPass    TestStatus = "pass"
	TestStatusFail    TestStatus = "fail"
	TestStatusError   TestStatus = "error"
)

// Failure describes why a scenario or target failed and where the failure
// should be surfaced. Line is the report line: the failing step's own line for
// step failures, the owning element's line for hook and setup failures.
type Failure struct {
	Label   string
	Message string
	Line    int
}

// String renders the failure the way it is attached to tree nodes and
// per-target verdicts.
func (f Failure) String() string {
	if f.Message == "" {
		return f.Label
	}
	return fmt.Sprintf("%s: %s", f.Label, f.Message)
}

// ScenarioVerdict is the classification of one report element. Verdicts are
// derived values, computed fresh on every correlation pass and never cached
// across batches.
type ScenarioVerdict struct {
	Name    string
	Line    int
	Status  TestStatus
	Failure *Failure
}

// Passed reports whether the element classified clean.
func (v ScenarioVerdict) Passed() bool {
	return v.Status == TestStatusPass
}

// TargetVerdict is the outcome for one requested target after a batch run.
type TargetVerdict struct {
	Target   RunTarget
	Status   TestStatus
	Failures []Failure
}

// FailureSummary joins the failure messages for display, one per line.
func (v TargetVerdict) FailureSummary() string {
	if len(v.Failures) == 0 {
		return ""
	}
	parts := make([]string, 0, len(v.Failures))
	for _, f := range v.Failures {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, "\n")
}
