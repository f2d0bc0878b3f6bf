package runner

import (
	"github.com/feature-infra/gherkin-acceptor/types"
)

// ApplyVerdicts paints scenario verdicts onto the subtree rooted at root.
// Leaves are matched to verdicts by line number within the same feature
// file. Leaves with no matching verdict are left untouched, and verdicts
// with no matching leaf are dropped. Painting is idempotent: applying the
// same verdicts twice leaves the tree in the same state.
func ApplyVerdicts(root *types.FeatureNode, verdicts []types.ScenarioVerdict) {
	if root == nil {
		return
	}
	root.Walk(func(n *types.FeatureNode) {
		if !n.IsLeaf() {
			return
		}
		v, ok := verdictForLine(verdicts, n.Line)
		if !ok {
			return
		}
		if v.Passed() {
			n.SetVerdict(types.TestStatusPass, "", 0)
			return
		}
		n.SetVerdict(types.TestStatusFail, v.Failure.String(), v.Failure.Line)
	})
}

func verdictForLine(verdicts []types.ScenarioVerdict, line int) (types.ScenarioVerdict, bool) {
	for _, v := range verdicts {
		if v.Line == line {
			return v, true
		}
	}
	return types.ScenarioVerdict{}, false
}
