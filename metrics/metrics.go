package metrics

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/feature-infra/gherkin-acceptor/types"
)

const (
	MetricsNamespace = "gherkin_acceptor"
)

var (
	Debug                bool = true
	validResults              = []types.TestStatus{types.TestStatusPass, types.TestStatusFail, types.TestStatusError}
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	targetVerdictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "target_verdicts_total",
		Help:      "Count of per-target verdicts",
	}, []string{
		"run_id",
		"target",
		"result",
	})

	batchResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "batch_results",
		Help:      "Result of batch runs",
	}, []string{
		"run_id",
		"result",
	})

	batchTargetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "batch_targets_total",
		Help:      "Total number of targets in a batch",
	}, []string{
		"run_id",
	})

	batchTargetsPassed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "batch_targets_passed",
		Help:      "Number of passed targets in a batch",
	}, []string{
		"run_id",
	})

	batchTargetsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "batch_targets_failed",
		Help:      "Number of failed targets in a batch",
	}, []string{
		"run_id",
	})

	batchDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "batch_duration_seconds",
		Help:      "Duration of batch runs",
	}, []string{
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordTargetVerdict counts the outcome of one requested target.
func RecordTargetVerdict(runID string, target string, result types.TestStatus) {
	if !isValidResult(result) {
		log.Error("RecordTargetVerdict - invalid result", "result", result)
		return
	}
	if Debug {
		log.Debug("metric inc",
			"m", "target_verdicts_total",
			"run_id", runID,
			"target", target,
			"result", result)
	}
	targetVerdictsTotal.WithLabelValues(runID, target, string(result)).Inc()
}

// RecordBatch records the aggregate outcome of one batch run.
func RecordBatch(
	runID string,
	result string,
	total int,
	passed int,
	failed int,
	duration time.Duration,
) {
	batchResults.WithLabelValues(runID, result).Set(1)
	batchTargetsTotal.WithLabelValues(runID).Add(float64(total))
	batchTargetsPassed.WithLabelValues(runID).Add(float64(passed))
	batchTargetsFailed.WithLabelValues(runID).Add(float64(failed))
	batchDuration.WithLabelValues(runID).Set(duration.Seconds())
}

func isValidResult(result types.TestStatus) bool {
	return slices.Contains(validResults, result)
}
