package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feature-infra/gherkin-acceptor/types"
)

func passedStep(keyword, name string, line int) Step {
	return Step{Keyword: keyword, Name: name, Line: line, Result: Result{Status: StatusPassed}}
}

func TestClassify_Passed(t *testing.T) {
	el := Element{
		Name: "Valid login",
		Line: 5,
		Steps: []Step{
			passedStep("Given ", "a registered user", 6),
			passedStep("When ", "they log in", 7),
			passedStep("Then ", "they see the dashboard", 8),
		},
		Before: []Hook{{Result: Result{Status: StatusPassed}}},
		After:  []Hook{{Result: Result{Status: StatusPassed}}},
	}

	verdict := Classify(el)
	assert.Equal(t, types.TestStatusPass, verdict.Status)
	assert.Nil(t, verdict.Failure)
	assert.Equal(t, 5, verdict.Line)
	assert.Equal(t, "Valid login", verdict.Name)
}

func TestClassify_StepFailureSkipsSkippedSteps(t *testing.T) {
	// Steps [passed, skipped, failed, skipped]: the failure cause is the
	// third step, never the second.
	el := Element{
		Name: "Checkout",
		Line: 10,
		Steps: []Step{
			passedStep("Given ", "a cart", 11),
			{Keyword: "When ", Name: "coupons load", Line: 12, Result: Result{Status: StatusSkipped}},
			{Keyword: "When ", Name: "payment is taken", Line: 13, Result: Result{Status: StatusFailed, ErrorMessage: "card declined"}},
			{Keyword: "Then ", Name: "order confirmed", Line: 14, Result: Result{Status: StatusSkipped}},
		},
	}

	verdict := Classify(el)
	assert.Equal(t, types.TestStatusFail, verdict.Status)
	require.NotNil(t, verdict.Failure)
	assert.Equal(t, "When payment is taken", verdict.Failure.Label)
	assert.Equal(t, "card declined", verdict.Failure.Message)
	assert.Equal(t, 13, verdict.Failure.Line)
}

func TestClassify_UndefinedStepFailsWithSynthesizedMessage(t *testing.T) {
	el := Element{
		Name: "Search",
		Line: 3,
		Steps: []Step{
			{Keyword: "Given ", Name: "an index", Line: 4, Result: Result{Status: StatusUndefined}},
		},
	}

	verdict := Classify(el)
	require.NotNil(t, verdict.Failure)
	assert.Equal(t, "Given an index", verdict.Failure.Label)
	assert.Equal(t, "Step undefined", verdict.Failure.Message)
	assert.Equal(t, 4, verdict.Failure.Line)
}

func TestClassify_AllStepsSkipped(t *testing.T) {
	el := Element{
		Name: "Refund",
		Line: 20,
		Steps: []Step{
			{Line: 21, Result: Result{Status: StatusSkipped}},
			{Line: 22, Result: Result{Status: StatusSkipped}},
			{Line: 23, Result: Result{Status: StatusSkipped}},
		},
	}

	verdict := Classify(el)
	assert.Equal(t, types.TestStatusFail, verdict.Status)
	require.NotNil(t, verdict.Failure)
	assert.Equal(t, LabelScenarioSetup, verdict.Failure.Label)
	assert.Equal(t, 20, verdict.Failure.Line, "setup failures surface on the scenario's own line")
}

func TestClassify_EmptyScenario(t *testing.T) {
	el := Element{Name: "Placeholder", Line: 30}

	verdict := Classify(el)
	assert.Equal(t, types.TestStatusFail, verdict.Status)
	require.NotNil(t, verdict.Failure)
	assert.Equal(t, LabelEmptyScenario, verdict.Failure.Label)
	assert.Equal(t, 30, verdict.Failure.Line)
}

func TestClassify_BeforeHookWinsOverStepFailure(t *testing.T) {
	// The step failure physically precedes the hook entry in the document,
	// but a Before-hook failure is always the primary cause.
	el := Element{
		Name: "Login",
		Line: 5,
		Steps: []Step{
			{Keyword: "Given ", Name: "a session", Line: 6, Result: Result{Status: StatusFailed, ErrorMessage: "no session"}},
		},
		Before: []Hook{
			{Match: Match{Location: "hooks.Setup:12"}, Result: Result{Status: StatusFailed, ErrorMessage: "db unreachable"}},
		},
	}

	verdict := Classify(el)
	require.NotNil(t, verdict.Failure)
	assert.Equal(t, LabelBeforeHookFailed, verdict.Failure.Label)
	assert.Contains(t, verdict.Failure.Message, "hooks.Setup:12")
	assert.Contains(t, verdict.Failure.Message, "db unreachable")
	assert.Equal(t, 5, verdict.Failure.Line, "hook failures surface on the element's line, not the hook's location")
}

func TestClassify_AfterHookFailureIsSecondary(t *testing.T) {
	t.Run("after hook fails a passing scenario", func(t *testing.T) {
		el := Element{
			Name:  "Logout",
			Line:  40,
			Steps: []Step{passedStep("When ", "they log out", 41)},
			After: []Hook{{Result: Result{Status: StatusFailed, ErrorMessage: "teardown leak"}}},
		}

		verdict := Classify(el)
		require.NotNil(t, verdict.Failure)
		assert.Equal(t, LabelAfterHookFailed, verdict.Failure.Label)
		assert.Equal(t, 40, verdict.Failure.Line)
	})

	t.Run("after hook never overrides a step failure", func(t *testing.T) {
		el := Element{
			Name: "Logout",
			Line: 40,
			Steps: []Step{
				{Keyword: "When ", Name: "they log out", Line: 41, Result: Result{Status: StatusFailed, ErrorMessage: "boom"}},
			},
			After: []Hook{{Result: Result{Status: StatusFailed, ErrorMessage: "teardown leak"}}},
		}

		verdict := Classify(el)
		require.NotNil(t, verdict.Failure)
		assert.Equal(t, "When they log out", verdict.Failure.Label)
	})
}

func TestClassify_PendingAndAmbiguousStatusesFail(t *testing.T) {
	for _, status := range []Status{StatusPending, StatusAmbiguous} {
		el := Element{
			Line:  3,
			Steps: []Step{{Keyword: "Given ", Name: "x", Line: 4, Result: Result{Status: status}}},
		}
		verdict := Classify(el)
		assert.Equal(t, types.TestStatusFail, verdict.Status, "status %s must fail", status)
	}
}

func TestHookMessage(t *testing.T) {
	tests := []struct {
		name string
		hook Hook
		want string
	}{
		{
			name: "location and error",
			hook: Hook{Match: Match{Location: "hooks.Setup:12"}, Result: Result{Status: StatusFailed, ErrorMessage: "boom"}},
			want: "hooks.Setup:12: boom",
		},
		{
			name: "location only",
			hook: Hook{Match: Match{Location: "hooks.Setup:12"}, Result: Result{Status: StatusFailed}},
			want: "hooks.Setup:12: hook failed",
		},
		{
			name: "error only",
			hook: Hook{Result: Result{Status: StatusFailed, ErrorMessage: "boom"}},
			want: "boom",
		},
		{
			name: "neither",
			hook: Hook{Result: Result{Status: StatusPending}},
			want: "hook pending",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hookMessage(tt.hook))
		})
	}
}
