// Package report models the JSON document produced by one batch run of a
// Cucumber-compatible runner and derives per-scenario verdicts from it. The
// package is pure: it reads an immutable document and produces immutable
// values, so callers are free to correlate targets in any order.
package report

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Status is a step or hook result status as reported by the runner.
type Status string

const (
	StatusPassed    Status = "passed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
	StatusUndefined Status = "undefined"
	StatusPending   Status = "pending"
	StatusAmbiguous Status = "ambiguous"
)

// Passed reports whether the status counts as a success. Every other status,
// including undefined and pending, marks the owning element failed.
func (s Status) Passed() bool {
	return s == StatusPassed
}

// Skipped reports whether the status is informative rather than causal: a
// skipped step must never be reported as the failure.
func (s Status) Skipped() bool {
	return s == StatusSkipped
}

// Document is one batch report: an ordered sequence of feature entries
// covering every target of a single invocation. Read-only once parsed.
type Document []Feature

// Feature is one file entry in the report.
type Feature struct {
	URI      string    `json:"uri"`
	ID       string    `json:"id,omitempty"`
	Keyword  string    `json:"keyword,omitempty"`
	Name     string    `json:"name,omitempty"`
	Line     int       `json:"line,omitempty"`
	Elements []Element `json:"elements"`
}

// Element is one item under a feature entry: a scenario, an example row, or a
// background fixture.
type Element struct {
	Type    string `json:"type,omitempty"`
	Keyword string `json:"keyword,omitempty"`
	Name    string `json:"name,omitempty"`
	Line    int    `json:"line"`
	Steps   []Step `json:"steps"`
	Before  []Hook `json:"before,omitempty"`
	After   []Hook `json:"after,omitempty"`
}

// IsBackground reports whether the element is fixture narration. Background
// entries are never test targets and are excluded from every verdict
// computation.
func (e Element) IsBackground() bool {
	return e.Type == "background"
}

// Step is one step execution inside an element.
type Step struct {
	Keyword string `json:"keyword,omitempty"`
	Name    string `json:"name,omitempty"`
	Line    int    `json:"line"`
	Result  Result `json:"result"`
}

// Hook is a Before or After routine attached to an element. A hook with any
// non-passed status fails the owning element regardless of step outcomes.
type Hook struct {
	Match  Match  `json:"match,omitempty"`
	Result Result `json:"result"`
}

// Match carries the hook's own source location.
type Match struct {
	Location string `json:"location,omitempty"`
}

// Result is the outcome of one step or hook.
type Result struct {
	Status       Status `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Duration     int64  `json:"duration,omitempty"`
}

// Load reads and parses a report file. Any failure, missing file included,
// means the batch has no usable report; the caller decides the recovery.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading report %s", path)
	}
	return Parse(data)
}

// Parse decodes a report document. The document must be valid JSON with a
// top-level array; any other shape is rejected. A bare "null" is valid JSON
// and unmarshals cleanly, so the array check cannot rely on Unmarshal alone.
func Parse(data []byte) (Document, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("malformed report: top-level value is not an array")
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "malformed report")
	}
	return doc, nil
}
