package types

import "fmt"

// RunTarget is one thing the caller asked to run: a whole feature file, a
// single scenario, or a single example row under an outline. Targets are
// immutable, created per invocation and discarded once the batch's verdicts
// have been delivered.
type RunTarget struct {
	// Feature is the path-like identity of the feature file.
	Feature string `yaml:"file"`
	// ScenarioLine addresses one scenario or outline inside the file.
	// Zero means the whole file.
	ScenarioLine int `yaml:"scenario_line,omitempty"`
	// ExampleLine addresses one example row under an outline. Requires
	// ScenarioLine to be set as well.
	ExampleLine int `yaml:"example_line,omitempty"`
}

// Address renders the target the way a Cucumber-compatible runner expects it
// on the command line. The deepest requested line wins: an example row is
// addressed directly, falling back to the scenario line, falling back to the
// bare file.
func (t RunTarget) Address() string {
	switch {
	case t.ExampleLine > 0:
		return fmt.Sprintf("%s:%d", t.Feature, t.ExampleLine)
	case t.ScenarioLine > 0:
		return fmt.Sprintf("%s:%d", t.Feature, t.ScenarioLine)
	default:
		return t.Feature
	}
}

// WholeFile reports whether the target denotes the entire feature file.
func (t RunTarget) WholeFile() bool {
	return t.ScenarioLine == 0 && t.ExampleLine == 0
}

// Validate checks the structural invariants of a target.
func (t RunTarget) Validate() error {
	if t.Feature == "" {
		return fmt.Errorf("target requires a feature file")
	}
	if t.ScenarioLine < 0 || t.ExampleLine < 0 {
		return fmt.Errorf("target %s: line numbers must be positive", t.Feature)
	}
	if t.ExampleLine > 0 && t.ScenarioLine == 0 {
		return fmt.Errorf("target %s: example_line requires scenario_line", t.Feature)
	}
	return nil
}
