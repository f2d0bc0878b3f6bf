// Package reporting renders batch results as plain text for console output
// and per-run log files. It holds no IO of its own.
package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/feature-infra/gherkin-acceptor/types"
	"github.com/feature-infra/gherkin-acceptor/ui"
)

// StatusSymbol returns the console marker for a verdict status.
func StatusSymbol(status types.TestStatus) string {
	switch status {
	case types.TestStatusPass:
		return "✓ pass"
	case types.TestStatusPending:
		return "· not run"
	default:
		return "✗ fail"
	}
}

// FormatTargetSummary renders one target verdict, failures indented below.
func FormatTargetSummary(v types.TargetVerdict) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", StatusSymbol(v.Status), v.Target.Address())
	for _, f := range v.Failures {
		if f.Line > 0 {
			fmt.Fprintf(&sb, "    line %d: %s\n", f.Line, f.String())
		} else {
			fmt.Fprintf(&sb, "    %s\n", f.String())
		}
	}
	return sb.String()
}

// FormatBatchSummary renders the whole batch: header, one block per target,
// and a trailing tally.
func FormatBatchSummary(runID string, verdicts []types.TargetVerdict, duration time.Duration) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Batch %s (%.1fs)\n\n", runID, duration.Seconds())

	passed, failed := 0, 0
	for _, v := range verdicts {
		sb.WriteString(FormatTargetSummary(v))
		if v.Status == types.TestStatusPass {
			passed++
		} else {
			failed++
		}
	}

	fmt.Fprintf(&sb, "\n%d targets: %d passed, %d failed\n", len(verdicts), passed, failed)
	return sb.String()
}

// FormatFeatureTree renders a painted feature subtree with box-drawing
// prefixes, one node per line.
func FormatFeatureTree(root *types.FeatureNode) string {
	var sb strings.Builder
	writeNode(&sb, root, 0, true, nil)
	return sb.String()
}

func writeNode(sb *strings.Builder, node *types.FeatureNode, depth int, isLast bool, parentIsLast []bool) {
	var builder ui.TreePrefixBuilder
	prefix := builder.BuildPrefix(depth, isLast, parentIsLast)

	name := node.Name
	if name == "" {
		name = node.Feature
	}
	fmt.Fprintf(sb, "%s%s [%s]", prefix, name, StatusSymbol(node.Status))
	if node.Status == types.TestStatusFail && node.Message != "" {
		fmt.Fprintf(sb, " — %s", firstLine(node.Message))
	}
	sb.WriteString("\n")

	// Ancestor positions are tracked from depth 1 down; the root never
	// contributes a vertical line.
	childParents := parentIsLast
	if depth > 0 {
		childParents = append(append([]bool{}, parentIsLast...), isLast)
	}
	for i, child := range node.Children {
		writeNode(sb, child, depth+1, i == len(node.Children)-1, childParents)
	}
}

func firstLine(s string) string {
	if idx := strings.Index(s, "\n"); idx != -1 {
		return s[:idx]
	}
	return s
}
