package acceptor

import (
	"github.com/feature-infra/gherkin-acceptor/metrics"
	"github.com/feature-infra/gherkin-acceptor/runner"
)

// MetricsReporter is responsible for reporting metrics from batch results.
type MetricsReporter interface {
	ReportResults(result *runner.BatchResult)
}

// DefaultMetricsReporter implements the MetricsReporter interface.
type DefaultMetricsReporter struct{}

// NewDefaultMetricsReporter creates a new DefaultMetricsReporter.
func NewDefaultMetricsReporter() *DefaultMetricsReporter {
	return &DefaultMetricsReporter{}
}

// ReportResults reports the batch results to metrics systems.
func (r *DefaultMetricsReporter) ReportResults(result *runner.BatchResult) {
	metrics.RecordBatch(
		result.RunID,
		string(result.Outcome),
		result.Stats.Total,
		result.Stats.Passed,
		result.Stats.Failed,
		result.Duration,
	)
}
