// Package logging persists batch results to per-run directories: a plain
// text summary, per-target failure detail, the raw report document, and the
// runner's console output.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/acarl005/stripansi"

	"github.com/feature-infra/gherkin-acceptor/reporting"
	"github.com/feature-infra/gherkin-acceptor/types"
)

const (
	RunDirectoryPrefix = "batchrun-" // Standardized prefix for run directories
	SummaryFilename    = "summary.log"
	ConsoleFilename    = "console.log"
	RawReportFilename  = "report.json"
	FailureDirectory   = "failed"
)

// ResultSink is an interface for different ways of consuming target verdicts.
type ResultSink interface {
	// Consume processes a single target verdict
	Consume(verdict types.TargetVerdict, runID string) error
	// Complete is called when all verdicts have been consumed
	Complete(runID string) error
}

// FileLogger handles writing batch output to files.
type FileLogger struct {
	baseDir string
	runDir  string
	runID   string

	mu       sync.Mutex
	sinks    []ResultSink
	duration time.Duration
}

// NewFileLogger creates the per-run directory and default sinks.
func NewFileLogger(baseDir string, runID string) (*FileLogger, error) {
	runDir := filepath.Join(baseDir, RunDirectoryPrefix+runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory %s: %w", runDir, err)
	}

	l := &FileLogger{
		baseDir: baseDir,
		runDir:  runDir,
		runID:   runID,
	}
	l.sinks = []ResultSink{
		&textSummarySink{logger: l},
		&failureDetailSink{runDir: runDir},
	}
	return l, nil
}

// GetRunID returns the run ID this logger writes under.
func (l *FileLogger) GetRunID() string {
	return l.runID
}

// RunDir returns the per-run directory path.
func (l *FileLogger) RunDir() string {
	return l.runDir
}

// ReportPath is where the external runner is asked to write the report, so
// the raw document survives the run for debugging.
func (l *FileLogger) ReportPath() string {
	return filepath.Join(l.runDir, RawReportFilename)
}

// LogTargetVerdict feeds one verdict to every sink.
func (l *FileLogger) LogTargetVerdict(verdict types.TargetVerdict) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, sink := range l.sinks {
		if err := sink.Consume(verdict, l.runID); err != nil {
			return fmt.Errorf("sink failed to consume verdict: %w", err)
		}
	}
	return nil
}

// LogConsoleOutput writes the runner's captured console output with ANSI
// escape sequences stripped, so the file stays readable outside a terminal.
func (l *FileLogger) LogConsoleOutput(output []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	clean := stripansi.Strip(string(output))
	path := filepath.Join(l.runDir, ConsoleFilename)
	if err := os.WriteFile(path, []byte(clean), 0o644); err != nil {
		return fmt.Errorf("failed to write console output: %w", err)
	}
	return nil
}

// SetDuration records the batch wall time for the summary.
func (l *FileLogger) SetDuration(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.duration = d
}

// Complete flushes every sink. Call once, after the last verdict.
func (l *FileLogger) Complete() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, sink := range l.sinks {
		if err := sink.Complete(l.runID); err != nil {
			return fmt.Errorf("sink failed to complete: %w", err)
		}
	}
	return nil
}

// textSummarySink accumulates verdicts and writes one summary file at
// completion.
type textSummarySink struct {
	logger   *FileLogger
	verdicts []types.TargetVerdict
}

func (s *textSummarySink) Consume(verdict types.TargetVerdict, _ string) error {
	s.verdicts = append(s.verdicts, verdict)
	return nil
}

func (s *textSummarySink) Complete(runID string) error {
	summary := reporting.FormatBatchSummary(runID, s.verdicts, s.logger.duration)
	path := filepath.Join(s.logger.runDir, SummaryFilename)
	return os.WriteFile(path, []byte(summary), 0o644)
}

// failureDetailSink writes one file per failing target as verdicts arrive.
type failureDetailSink struct {
	runDir string
}

func (s *failureDetailSink) Consume(verdict types.TargetVerdict, _ string) error {
	if verdict.Status == types.TestStatusPass {
		return nil
	}
	dir := filepath.Join(s.runDir, FailureDirectory)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, sanitizeFilename(verdict.Target.Address())+".log")
	return os.WriteFile(path, []byte(reporting.FormatTargetSummary(verdict)), 0o644)
}

func (s *failureDetailSink) Complete(string) error {
	return nil
}

// sanitizeFilename rewrites a target address into a safe file name.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_")
	return replacer.Replace(name)
}
