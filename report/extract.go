package report

import "github.com/feature-infra/gherkin-acceptor/types"

// FindFeature locates the first feature entry matching the given file
// identity. One physical file is reported once per invocation, so scanning
// stops at the first match. A false return is a reportable anomaly the caller
// should log, never a crash.
func FindFeature(doc Document, file string) (Feature, bool) {
	for _, f := range doc {
		if SameFile(file, f.URI) {
			return f, true
		}
	}
	return Feature{}, false
}

// ScenarioVerdicts classifies every non-background element of the matching
// feature entry, in report order. An absent file yields an empty list.
func ScenarioVerdicts(doc Document, file string) []types.ScenarioVerdict {
	feature, ok := FindFeature(doc, file)
	if !ok {
		return nil
	}

	var verdicts []types.ScenarioVerdict
	for _, el := range feature.Elements {
		if el.IsBackground() {
			continue
		}
		verdicts = append(verdicts, Classify(el))
	}
	return verdicts
}

// HasFailures answers "did this file have any failure at all", independent of
// any tree. It short-circuits on the first failing element. A file absent
// from the report counts as passed (fail-open): a tooling glitch must not be
// reported as a false failure, but callers should surface the miss through
// logging so it stays diagnosable.
func HasFailures(doc Document, file string) bool {
	feature, ok := FindFeature(doc, file)
	if !ok {
		return false
	}
	for _, el := range feature.Elements {
		if el.IsBackground() {
			continue
		}
		if elementFailed(el) {
			return true
		}
	}
	return false
}

// elementFailed applies the classifier's precedence without building failure
// messages.
func elementFailed(el Element) bool {
	if _, failed := failedHook(el.Before); failed {
		return true
	}
	allSkipped := len(el.Steps) > 0
	for _, step := range el.Steps {
		if step.Result.Status.Skipped() {
			continue
		}
		allSkipped = false
		if !step.Result.Status.Passed() {
			return true
		}
	}
	if allSkipped || len(el.Steps) == 0 {
		return true
	}
	_, failed := failedHook(el.After)
	return failed
}
