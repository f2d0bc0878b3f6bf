package acceptor

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/feature-infra/gherkin-acceptor/report"
	"github.com/feature-infra/gherkin-acceptor/runner"
	"github.com/feature-infra/gherkin-acceptor/types"
)

// ResultFormatter is responsible for formatting and displaying batch results.
type ResultFormatter interface {
	FormatResults(result *runner.BatchResult) error
}

// ConsoleResultFormatter implements the ResultFormatter interface.
type ConsoleResultFormatter struct {
	logger log.Logger
	tree   *types.FeatureTree
	out    io.Writer
}

// NewConsoleResultFormatter creates a new ConsoleResultFormatter.
func NewConsoleResultFormatter(logger log.Logger, tree *types.FeatureTree) *ConsoleResultFormatter {
	return &ConsoleResultFormatter{
		logger: logger,
		tree:   tree,
		out:    os.Stdout,
	}
}

// FormatResults renders the batch results as a table. Each target gets a
// feature row; when the feature tree knows the target's scenarios, they
// are listed underneath with their own verdicts.
func (f *ConsoleResultFormatter) FormatResults(result *runner.BatchResult) error {
	f.logger.Info("Printing results...")
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle(fmt.Sprintf("Batch Results (%s)", formatDuration(result.Duration)))

	t.AppendHeader(table.Row{
		"Type", "ID", "Scenarios", "Passed", "Failed", "Status", "Error",
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Type", AutoMerge: true},
		{Name: "ID", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Scenarios", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Error", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, verdict := range result.Verdicts {
		f.appendTarget(t, verdict)
		t.AppendSeparator()
	}

	// Update the table style setting based on result status
	if result.Status == types.TestStatusPass {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		result.Stats.Total,
		result.Stats.Passed,
		result.Stats.Failed,
		getResultString(result.Status),
		"",
	})

	t.Render()
	return nil
}

func (f *ConsoleResultFormatter) appendTarget(t table.Writer, verdict types.TargetVerdict) {
	leaves := f.targetLeaves(verdict.Target)

	passed, failed := 0, 0
	for _, leaf := range leaves {
		switch leaf.Status {
		case types.TestStatusPass:
			passed++
		case types.TestStatusFail:
			failed++
		}
	}
	if len(leaves) == 0 {
		// No tree coverage for this target. Count it as one unit.
		passed = boolToInt(verdict.Status == types.TestStatusPass)
		failed = boolToInt(verdict.Status != types.TestStatusPass)
	}

	errorMsg := ""
	if len(verdict.Failures) > 0 {
		errorMsg = verdict.Failures[0].String()
	}

	t.AppendRow(table.Row{
		"Feature",
		verdict.Target.Address(),
		"-",
		passed,
		failed,
		getResultString(verdict.Status),
		errorMsg,
	})

	for i, leaf := range leaves {
		prefix := "├──"
		if i == len(leaves)-1 {
			prefix = "└──"
		}
		t.AppendRow(table.Row{
			"Scenario",
			fmt.Sprintf("%s %s", prefix, leaf.Name),
			"1",
			boolToInt(leaf.Status == types.TestStatusPass),
			boolToInt(leaf.Status == types.TestStatusFail),
			getResultString(leaf.Status),
			leaf.Message,
		})
	}
}

// targetLeaves returns the scenario leaves tracked for a target, narrowed
// to the requested line when the target addresses a single scenario.
func (f *ConsoleResultFormatter) targetLeaves(target types.RunTarget) []*types.FeatureNode {
	if f.tree == nil {
		return nil
	}
	for _, root := range f.tree.Roots() {
		if !report.SameFile(root.Feature, target.Feature) && !report.SameFile(target.Feature, root.Feature) {
			continue
		}
		leaves := root.Leaves()
		if target.WholeFile() {
			return leaves
		}
		var narrowed []*types.FeatureNode
		for _, leaf := range leaves {
			if leaf.Line == target.ScenarioLine || leaf.Line == target.ExampleLine {
				narrowed = append(narrowed, leaf)
			}
		}
		return narrowed
	}
	return nil
}
