// Package acceptor runs batches of Gherkin feature targets through an
// external Cucumber-compatible runner and correlates the resulting JSON
// report back onto the registered feature tree.
package acceptor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/feature-infra/gherkin-acceptor/exitcodes"
	"github.com/feature-infra/gherkin-acceptor/features"
	"github.com/feature-infra/gherkin-acceptor/registry"
	"github.com/feature-infra/gherkin-acceptor/runner"
	"github.com/feature-infra/gherkin-acceptor/types"
)

// Acceptor wires the registry, feature tree, runner, scheduler and
// formatter into one service.
type Acceptor struct {
	ctx      context.Context
	config   *Config
	version  string
	registry *registry.Registry
	tree     *types.FeatureTree

	scheduler BatchScheduler
	executor  BatchExecutor
	formatter ResultFormatter
	reporter  MetricsReporter

	mu     sync.Mutex
	result *runner.BatchResult

	shutdownCallback func(error) // Callback to signal application shutdown
}

func New(ctx context.Context, config *Config, version string, shutdownCallback func(error)) (*Acceptor, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating acceptor with config",
		"planFile", config.PlanFile,
		"featuresDir", config.FeaturesDir,
		"runnerBinary", config.RunnerBinary,
		"runInterval", config.RunInterval,
		"runOnce", config.RunOnce)

	reg, err := registry.NewRegistry(registry.Config{
		Log:      config.Log,
		PlanFile: config.PlanFile,
		WorkDir:  config.FeaturesDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}

	tree, err := buildFeatureTree(config, reg)
	if err != nil {
		return nil, fmt.Errorf("failed to build feature tree: %w", err)
	}

	a := &Acceptor{
		ctx:              ctx,
		config:           config,
		version:          version,
		registry:         reg,
		tree:             tree,
		scheduler:        NewDefaultBatchScheduler(config.RunInterval, config.RunOnce, config.Log),
		executor:         NewDefaultBatchExecutor(config, reg, tree),
		formatter:        NewConsoleResultFormatter(config.Log, tree),
		reporter:         NewDefaultMetricsReporter(),
		shutdownCallback: shutdownCallback,
	}
	a.scheduler.RegisterCallback(a.runBatch)

	config.Log.Info("Created acceptor", "version", version, "targets", len(reg.Targets()), "features", tree.Len())
	return a, nil
}

// buildFeatureTree scans every feature file the plan targets. Targets
// whose file cannot be scanned still run; they just have no scenario
// breakdown in the output.
func buildFeatureTree(config *Config, reg *registry.Registry) (*types.FeatureTree, error) {
	seen := make(map[string]struct{})
	var files []string
	for _, target := range reg.Targets() {
		path := target.Feature
		if !filepath.IsAbs(path) {
			path = filepath.Join(config.FeaturesDir, path)
		}
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		if _, err := os.Stat(path); err != nil {
			config.Log.Warn("Feature file not found, skipping scan", "file", path, "error", err)
			continue
		}
		files = append(files, path)
	}
	return features.BuildTree(files)
}

// Start begins the batch schedule. In run-once mode it returns once the
// single batch has finished; in continuous mode it returns after the
// first batch and keeps running in the background.
func (a *Acceptor) Start(ctx context.Context) error {
	// Set up panic recovery to ensure we exit with code 2 for runtime errors
	defer func() {
		if r := recover(); r != nil {
			a.config.Log.Error("Runtime error occurred", "error", r)
			os.Exit(exitcodes.RuntimeErr)
		}
	}()

	a.ctx = ctx

	if a.config.RunOnce {
		a.config.Log.Info("Starting gherkin-acceptor in run-once mode")
	} else {
		a.config.Log.Info("Starting gherkin-acceptor in continuous mode", "interval", a.config.RunInterval)
	}

	if err := a.scheduler.Start(ctx); err != nil {
		a.config.Log.Error("Runtime error running batch", "error", err)
		return NewRuntimeError(err)
	}

	if a.config.RunOnce {
		a.config.Log.Info("Batch completed, exiting (run-once mode)")

		if result := a.Result(); result != nil && result.Status == types.TestStatusFail {
			a.config.Log.Warn("Run-once batch completed with failures, returning exit code 1")
			return NewBatchFailureError(result.String())
		}

		// Only needed when we're in run-once mode and everything passed
		go func() {
			a.shutdownCallback(nil)
		}()
		return nil
	}

	a.config.Log.Debug("gherkin-acceptor started successfully")
	return nil
}

// runBatch runs one batch and processes the results
func (a *Acceptor) runBatch() error {
	a.config.Log.Info("Running batch...")
	result, err := a.executor.RunBatch(a.ctx)
	if err != nil {
		// This is a runtime error, not a failing scenario
		return NewRuntimeError(err)
	}

	a.mu.Lock()
	a.result = result
	a.mu.Unlock()

	if err := a.formatter.FormatResults(result); err != nil {
		a.config.Log.Error("Error formatting results", "error", err)
	}
	fmt.Println(result.String())
	a.reporter.ReportResults(result)

	a.config.Log.Info("Batch run completed", "run_id", result.RunID, "status", result.Status)
	return nil
}

// Result returns the most recent batch result.
func (a *Acceptor) Result() *runner.BatchResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

// Stop stops the gherkin-acceptor service.
func (a *Acceptor) Stop(ctx context.Context) error {
	a.config.Log.Info("Stopping gherkin-acceptor")

	if a.scheduler.Stopped() {
		a.config.Log.Debug("Service already stopped, nothing to do")
		return nil
	}

	if err := a.scheduler.Stop(); err != nil {
		return err
	}

	a.config.Log.Info("gherkin-acceptor stopped successfully")
	return nil
}

// Stopped returns true if the gherkin-acceptor service is stopped.
func (a *Acceptor) Stopped() bool {
	return a.scheduler.Stopped()
}

// WaitForShutdown blocks until all goroutines have terminated.
// This is useful in tests to ensure complete cleanup before moving to the next test.
func (a *Acceptor) WaitForShutdown(ctx context.Context) error {
	return a.scheduler.WaitForShutdown(ctx)
}
