package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/feature-infra/gherkin-acceptor/logging"
	"github.com/feature-infra/gherkin-acceptor/metrics"
	"github.com/feature-infra/gherkin-acceptor/report"
	"github.com/feature-infra/gherkin-acceptor/types"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Outcome describes how a batch invocation ended. Exactly one outcome is
// assigned per batch, decided at the moment the runner process returns.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeTimedOut  Outcome = "timed_out"
	OutcomeCancelled Outcome = "cancelled"
)

const (
	DefaultRunnerBinary = "cucumber-js"
	DefaultBatchTimeout = 10 * time.Minute

	// Report filename used when no file logger provides a run directory.
	fallbackReportFilename = "report.json"

	consoleHintMessage = "no usable report was produced; check the runner console output"
)

// BatchRunner executes a set of feature targets through the external
// runner in a single invocation and correlates the resulting report.
type BatchRunner interface {
	RunBatch(ctx context.Context, targets []types.RunTarget) (*BatchResult, error)
}

// ResultStats tracks aggregate counts for one batch run.
type ResultStats struct {
	Total     int
	Passed    int
	Failed    int
	StartTime time.Time
	EndTime   time.Time
}

// BatchResult captures the complete outcome of one batch invocation.
type BatchResult struct {
	RunID           string
	Outcome         Outcome
	ReportAvailable bool
	Status          types.TestStatus
	Verdicts        []types.TargetVerdict
	Duration        time.Duration
	Stats           ResultStats
}

// String returns a one-line summary of the batch result.
func (r *BatchResult) String() string {
	return fmt.Sprintf("Batch %s %s: %s (%d targets: %d passed, %d failed) in %.1fs",
		r.RunID, r.Outcome, r.Status,
		r.Stats.Total, r.Stats.Passed, r.Stats.Failed, r.Duration.Seconds())
}

// Config configures a BatchRunner.
type Config struct {
	// WorkDir is the directory the runner process is launched from.
	WorkDir string
	Log     log.Logger
	// RunnerBinary is the external runner executable. Defaults to
	// DefaultRunnerBinary when empty.
	RunnerBinary string
	// RunnerArgs are extra arguments placed before the generated
	// --format and target arguments.
	RunnerArgs []string
	// Timeout bounds one whole batch invocation. Defaults to
	// DefaultBatchTimeout when zero.
	Timeout time.Duration
	// Tree, when set, receives per-node verdicts after correlation.
	Tree *types.FeatureTree
	// FileLogger, when set, receives console output and per-target
	// verdicts, and provides the report destination.
	FileLogger *logging.FileLogger
}

type runner struct {
	workDir      string
	log          log.Logger
	runnerBinary string
	runnerArgs   []string
	timeout      time.Duration
	tree         *types.FeatureTree
	fileLogger   *logging.FileLogger
	runID        string
	tracer       trace.Tracer
}

// NewBatchRunner creates a BatchRunner from the provided config.
func NewBatchRunner(cfg Config) (BatchRunner, error) {
	if cfg.WorkDir == "" {
		return nil, fmt.Errorf("work directory is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Debug("No logger provided, using default")
	}
	if cfg.RunnerBinary == "" {
		cfg.RunnerBinary = DefaultRunnerBinary
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("invalid timeout: %v", cfg.Timeout)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultBatchTimeout
	}

	return &runner{
		workDir:      cfg.WorkDir,
		log:          cfg.Log,
		runnerBinary: cfg.RunnerBinary,
		runnerArgs:   cfg.RunnerArgs,
		timeout:      cfg.Timeout,
		tree:         cfg.Tree,
		fileLogger:   cfg.FileLogger,
		tracer:       otel.Tracer("batch runner"),
	}, nil
}

// RunBatch launches the external runner once for all targets and
// correlates the report it produces. An empty target list is a hard
// error: it signals a wiring mistake, not an empty result.
func (r *runner) RunBatch(ctx context.Context, targets []types.RunTarget) (*BatchResult, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets to run")
	}

	if r.fileLogger != nil {
		r.runID = r.fileLogger.GetRunID()
	} else {
		r.runID = uuid.New().String()
	}

	ctx, span := r.tracer.Start(ctx, fmt.Sprintf("batch %s", r.runID))
	defer span.End()

	result := &BatchResult{
		RunID:  r.runID,
		Status: types.TestStatusPass,
		Stats: ResultStats{
			Total:     len(targets),
			StartTime: time.Now(),
		},
	}

	reportPath, cleanup, err := r.reportDestination()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	r.log.Info("Running batch", "run_id", r.runID, "targets", len(targets), "timeout", r.timeout)

	outcome, console := r.launch(ctx, targets, reportPath)
	result.Outcome = outcome

	if r.fileLogger != nil && len(console) > 0 {
		if err := r.fileLogger.LogConsoleOutput(console); err != nil {
			r.log.Error("Failed to save console output", "run_id", r.runID, "error", err)
		}
	}

	switch outcome {
	case OutcomeCompleted:
		doc, err := report.Load(reportPath)
		if err != nil {
			r.log.Error("Batch produced no usable report", "run_id", r.runID, "error", err)
			metrics.RecordErrorDetails("unusable_report", err)
			r.failAll(result, targets, consoleHintMessage)
		} else {
			result.ReportAvailable = true
			r.correlate(ctx, doc, targets, result)
		}
	case OutcomeTimedOut:
		r.log.Error("Batch timed out", "run_id", r.runID, "timeout", r.timeout)
		metrics.RecordError("batch_timeout")
		r.failAll(result, targets, fmt.Sprintf("batch timed out after %v; check the runner console output", r.timeout))
	case OutcomeCancelled:
		r.log.Warn("Batch cancelled", "run_id", r.runID)
		r.failAll(result, targets, "batch was cancelled before completion")
	}

	r.finalize(result)
	return result, nil
}

// reportDestination picks where the runner writes its JSON report. The
// file logger's run directory is preferred so the raw report survives
// alongside the rest of the run artifacts.
func (r *runner) reportDestination() (string, func(), error) {
	if r.fileLogger != nil {
		return r.fileLogger.ReportPath(), func() {}, nil
	}
	dir, err := os.MkdirTemp("", "gherkin-acceptor-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return filepath.Join(dir, fallbackReportFilename), func() { os.RemoveAll(dir) }, nil
}

// launch runs the external runner to completion and classifies how the
// invocation ended. The outcome is decided exactly once, from the
// context state observed when the process returns. A non-zero exit by
// itself does not make an outcome abnormal: failing scenarios exit
// non-zero and the report carries their verdicts.
func (r *runner) launch(ctx context.Context, targets []types.RunTarget, reportPath string) (Outcome, []byte) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append([]string{}, r.runnerArgs...)
	args = append(args, "--format", "json:"+reportPath)
	for _, target := range targets {
		args = append(args, target.Address())
	}

	cmd := exec.CommandContext(runCtx, r.runnerBinary, args...)
	cmd.Dir = r.workDir

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	r.log.Debug("Launching runner", "command", cmd.String())
	err := cmd.Run()

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		return OutcomeTimedOut, output.Bytes()
	case ctx.Err() != nil:
		return OutcomeCancelled, output.Bytes()
	default:
		if err != nil {
			r.log.Debug("Runner exited non-zero", "run_id", r.runID, "error", err)
		}
		return OutcomeCompleted, output.Bytes()
	}
}

// correlate derives a verdict for every target from the loaded report
// and paints the feature tree. Cancellation between targets stops
// further painting without disturbing nodes already painted.
func (r *runner) correlate(ctx context.Context, doc report.Document, targets []types.RunTarget, result *BatchResult) {
	for i, target := range targets {
		select {
		case <-ctx.Done():
			result.Outcome = OutcomeCancelled
			r.failRemaining(result, targets[i:], "batch was cancelled before completion")
			return
		default:
		}
		result.Verdicts = append(result.Verdicts, r.correlateTarget(ctx, doc, target))
	}
}

func (r *runner) correlateTarget(ctx context.Context, doc report.Document, target types.RunTarget) types.TargetVerdict {
	_, span := r.tracer.Start(ctx, fmt.Sprintf("target %s", target.Address()))
	defer span.End()

	verdict := types.TargetVerdict{
		Target: target,
		Status: types.TestStatusPass,
	}

	if _, found := report.FindFeature(doc, target.Feature); !found {
		// Fail open. An absent file usually means a filter or path
		// mismatch upstream, and fabricating a failure for it would
		// mask real results. It still has to be loud and countable.
		r.log.Warn("Target missing from report, treating as passed",
			"run_id", r.runID, "target", target.Address())
		metrics.RecordError("target_missing_from_report")
		return verdict
	}

	if report.HasFailures(doc, target.Feature) {
		verdict.Status = types.TestStatusFail
	}

	scenarios := report.ScenarioVerdicts(doc, target.Feature)
	for _, sv := range scenarios {
		if !sv.Passed() && sv.Failure != nil {
			verdict.Failures = append(verdict.Failures, *sv.Failure)
		}
	}

	r.paintTree(target, scenarios, verdict.Status)
	return verdict
}

// paintTree writes scenario verdicts onto the matching feature subtree.
// A target without a registered tree node is not an error: the tree only
// covers what the caller chose to track.
func (r *runner) paintTree(target types.RunTarget, scenarios []types.ScenarioVerdict, status types.TestStatus) {
	if r.tree == nil {
		return
	}
	root := r.findRoot(target.Feature)
	if root == nil {
		r.log.Debug("No tree node registered for target", "target", target.Address())
		return
	}
	if len(root.Children) > 0 {
		ApplyVerdicts(root, scenarios)
	}
	root.SetVerdict(status, "", 0)
}

func (r *runner) findRoot(feature string) *types.FeatureNode {
	if root, ok := r.tree.Root(feature); ok {
		return root
	}
	for _, root := range r.tree.Roots() {
		if report.SameFile(root.Feature, feature) || report.SameFile(feature, root.Feature) {
			return root
		}
	}
	return nil
}

// failAll marks every target failed with a shared diagnostic message.
// Used when no report can speak for the targets.
func (r *runner) failAll(result *BatchResult, targets []types.RunTarget, message string) {
	result.Verdicts = result.Verdicts[:0]
	r.failRemaining(result, targets, message)
}

func (r *runner) failRemaining(result *BatchResult, targets []types.RunTarget, message string) {
	for _, target := range targets {
		result.Verdicts = append(result.Verdicts, types.TargetVerdict{
			Target: target,
			Status: types.TestStatusFail,
			Failures: []types.Failure{{
				Label:   "Runner Error",
				Message: message,
			}},
		})
	}
}

func (r *runner) finalize(result *BatchResult) {
	result.Stats.EndTime = time.Now()
	result.Duration = result.Stats.EndTime.Sub(result.Stats.StartTime)

	for _, v := range result.Verdicts {
		if v.Status == types.TestStatusPass {
			result.Stats.Passed++
		} else {
			result.Stats.Failed++
		}
		metrics.RecordTargetVerdict(r.runID, v.Target.Address(), v.Status)
		if r.fileLogger != nil {
			if err := r.fileLogger.LogTargetVerdict(v); err != nil {
				r.log.Error("Failed to log target verdict", "target", v.Target.Address(), "error", err)
			}
		}
	}

	if result.Stats.Failed > 0 || result.Outcome != OutcomeCompleted {
		result.Status = types.TestStatusFail
	}

	if r.fileLogger != nil {
		r.fileLogger.SetDuration(result.Duration)
		if err := r.fileLogger.Complete(); err != nil {
			r.log.Error("Failed to complete run artifacts", "run_id", r.runID, "error", err)
		}
	}

	r.log.Info("Batch finished",
		"run_id", r.runID,
		"outcome", result.Outcome,
		"status", result.Status,
		"passed", result.Stats.Passed,
		"failed", result.Stats.Failed,
		"duration", result.Duration)
}
