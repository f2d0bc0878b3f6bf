package report

import (
	"fmt"
	"strings"

	"github.com/feature-infra/gherkin-acceptor/types"
)

// Failure labels for non-step causes. Step failures are labeled with the
// failing step's own "<keyword> <name>".
const (
	LabelBeforeHookFailed = "Before Hook Failed"
	LabelAfterHookFailed  = "After Hook Failed"
	LabelScenarioSetup    = "Scenario Setup Error"
	LabelEmptyScenario    = "Empty Scenario"
)

const setupErrorMessage = "all steps were skipped; scenario setup likely failed upstream"

// Classify determines the verdict for one report element. Precedence, first
// applicable wins:
//
//  1. Before-hook failure, surfaced on the element's own line.
//  2. First truly-failing step (skipped steps are scanned past, never
//     reported as the cause), surfaced on that step's line.
//  3. All steps skipped: setup failed upstream, element's own line.
//  4. No steps at all, element's own line.
//  5. After-hook failure, only when nothing above fired; teardown failures
//     are secondary and never override the first real cause.
//  6. Passed.
func Classify(el Element) types.ScenarioVerdict {
	verdict := types.ScenarioVerdict{
		Name:   el.Name,
		Line:   el.Line,
		Status: types.TestStatusPass,
	}

	if hook, ok := failedHook(el.Before); ok {
		verdict.Status = types.TestStatusFail
		verdict.Failure = &types.Failure{
			Label:   LabelBeforeHookFailed,
			Message: hookMessage(hook),
			Line:    el.Line,
		}
		return verdict
	}

	allSkipped := len(el.Steps) > 0
	for _, step := range el.Steps {
		if step.Result.Status.Skipped() {
			continue
		}
		allSkipped = false
		if step.Result.Status.Passed() {
			continue
		}
		message := step.Result.ErrorMessage
		if message == "" {
			message = fmt.Sprintf("Step %s", step.Result.Status)
		}
		verdict.Status = types.TestStatusFail
		verdict.Failure = &types.Failure{
			Label:   stepLabel(step),
			Message: message,
			Line:    step.Line,
		}
		return verdict
	}

	if allSkipped {
		verdict.Status = types.TestStatusFail
		verdict.Failure = &types.Failure{
			Label:   LabelScenarioSetup,
			Message: setupErrorMessage,
			Line:    el.Line,
		}
		return verdict
	}

	if len(el.Steps) == 0 {
		verdict.Status = types.TestStatusFail
		verdict.Failure = &types.Failure{
			Label: LabelEmptyScenario,
			Line:  el.Line,
		}
		return verdict
	}

	if hook, ok := failedHook(el.After); ok {
		verdict.Status = types.TestStatusFail
		verdict.Failure = &types.Failure{
			Label:   LabelAfterHookFailed,
			Message: hookMessage(hook),
			Line:    el.Line,
		}
		return verdict
	}

	return verdict
}

// failedHook returns the first hook with a non-passed status.
func failedHook(hooks []Hook) (Hook, bool) {
	for _, h := range hooks {
		if !h.Result.Status.Passed() {
			return h, true
		}
	}
	return Hook{}, false
}

// hookMessage combines the hook's location and error text for display.
func hookMessage(h Hook) string {
	location := h.Match.Location
	errText := h.Result.ErrorMessage
	switch {
	case location != "" && errText != "":
		return fmt.Sprintf("%s: %s", location, errText)
	case location != "":
		return fmt.Sprintf("%s: hook %s", location, h.Result.Status)
	case errText != "":
		return errText
	default:
		return fmt.Sprintf("hook %s", h.Result.Status)
	}
}

// stepLabel renders the "<keyword> <name>" label for a failing step. Runner
// keywords usually carry a trailing space ("Given ").
func stepLabel(s Step) string {
	keyword := strings.TrimSpace(s.Keyword)
	if keyword == "" {
		return s.Name
	}
	return keyword + " " + s.Name
}
