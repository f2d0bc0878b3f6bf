// Package features builds feature node trees from Gherkin source files by
// thin line scanning. It recognizes just enough structure to address nodes by
// line number; step semantics stay with the external runner.
package features

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/feature-infra/gherkin-acceptor/types"
)

// Keywords recognized by the scanner. "Example:" is the Gherkin 6 synonym for
// "Scenario:"; "Scenario Template:" for "Scenario Outline:".
var (
	outlineKeywords  = []string{"Scenario Outline:", "Scenario Template:"}
	scenarioKeywords = []string{"Scenario:", "Example:"}
	docStringDelims  = []string{`"""`, "```"}
)

// ScanFile parses one feature file into a node tree rooted at the feature
// node. The file path becomes the tree's file identity.
func ScanFile(path string) (*types.FeatureNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading feature file: %w", err)
	}
	return Parse(path, data)
}

// Parse scans Gherkin source into a node tree. Line numbers are 1-based, as
// runners report them.
func Parse(feature string, data []byte) (*types.FeatureNode, error) {
	var (
		root       *types.FeatureNode
		container  *types.FeatureNode // root or current rule
		outline    *types.FeatureNode // current scenario outline, for example rows
		inExamples bool
		tableRow   int    // row counter inside the current examples table
		docDelim   string // open docstring delimiter, "" when outside
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Docstring content is opaque to the scanner. A line starting with
		// Feature: or Scenario: inside one is step data, not structure.
		if docDelim != "" {
			if strings.HasPrefix(line, docDelim) {
				docDelim = ""
			}
			continue
		}
		if delim := matchKeyword(line, docStringDelims); delim != "" {
			docDelim = delim
			continue
		}

		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "@") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Feature:"):
			if root != nil {
				return nil, fmt.Errorf("%s:%d: multiple Feature declarations", feature, lineNo)
			}
			root = &types.FeatureNode{
				Feature: feature,
				Line:    lineNo,
				Name:    keywordName(line, "Feature:"),
				Kind:    types.NodeKindFeature,
			}
			container = root

		case strings.HasPrefix(line, "Rule:"):
			if root == nil {
				return nil, fmt.Errorf("%s:%d: Rule before Feature", feature, lineNo)
			}
			rule := &types.FeatureNode{
				Feature: feature,
				Line:    lineNo,
				Name:    keywordName(line, "Rule:"),
				Kind:    types.NodeKindRule,
			}
			root.AddChild(rule)
			container = rule
			outline = nil
			inExamples = false

		case matchKeyword(line, outlineKeywords) != "":
			if root == nil {
				return nil, fmt.Errorf("%s:%d: scenario before Feature", feature, lineNo)
			}
			node := &types.FeatureNode{
				Feature: feature,
				Line:    lineNo,
				Name:    keywordName(line, matchKeyword(line, outlineKeywords)),
				Kind:    types.NodeKindScenario,
			}
			container.AddChild(node)
			outline = node
			inExamples = false

		case matchKeyword(line, scenarioKeywords) != "":
			if root == nil {
				return nil, fmt.Errorf("%s:%d: scenario before Feature", feature, lineNo)
			}
			node := &types.FeatureNode{
				Feature: feature,
				Line:    lineNo,
				Name:    keywordName(line, matchKeyword(line, scenarioKeywords)),
				Kind:    types.NodeKindScenario,
			}
			container.AddChild(node)
			outline = nil
			inExamples = false

		case strings.HasPrefix(line, "Examples:") || strings.HasPrefix(line, "Scenarios:"):
			inExamples = outline != nil
			tableRow = 0

		case strings.HasPrefix(line, "|"):
			if !inExamples || outline == nil {
				continue
			}
			tableRow++
			// The first table row is the header, not an example.
			if tableRow == 1 {
				continue
			}
			example := &types.FeatureNode{
				Feature: feature,
				Line:    lineNo,
				Name:    fmt.Sprintf("%s (row %d)", outline.Name, tableRow-1),
				Kind:    types.NodeKindExample,
			}
			outline.AddChild(example)

		case strings.HasPrefix(line, "Background:"):
			// Fixture narration, never a tree node.
			outline = nil
			inExamples = false
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", feature, err)
	}
	if root == nil {
		return nil, fmt.Errorf("%s: no Feature declaration found", feature)
	}
	return root, nil
}

// BuildTree scans a set of feature files into a fresh tree arena.
func BuildTree(files []string) (*types.FeatureTree, error) {
	tree := types.NewFeatureTree()
	for _, file := range files {
		root, err := ScanFile(file)
		if err != nil {
			return nil, err
		}
		if err := tree.Adopt(root); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// Discover walks a directory for feature files, returned in sorted order.
func Discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".feature") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering features under %s: %w", root, err)
	}
	return files, nil
}

func matchKeyword(line string, keywords []string) string {
	for _, kw := range keywords {
		if strings.HasPrefix(line, kw) {
			return kw
		}
	}
	return ""
}

func keywordName(line, keyword string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, keyword))
}
