package acceptor

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"github.com/feature-infra/gherkin-acceptor/logging"
	"github.com/feature-infra/gherkin-acceptor/registry"
	"github.com/feature-infra/gherkin-acceptor/runner"
	"github.com/feature-infra/gherkin-acceptor/types"
)

// BatchExecutor is responsible for running one batch of targets.
type BatchExecutor interface {
	RunBatch(ctx context.Context) (*runner.BatchResult, error)
}

// DefaultBatchExecutor implements the BatchExecutor interface. Each call
// gets a fresh run directory and a fresh runner so artifacts from
// consecutive runs never mix.
type DefaultBatchExecutor struct {
	config   *Config
	registry *registry.Registry
	tree     *types.FeatureTree
	logger   log.Logger
}

// NewDefaultBatchExecutor creates a new DefaultBatchExecutor.
func NewDefaultBatchExecutor(config *Config, reg *registry.Registry, tree *types.FeatureTree) *DefaultBatchExecutor {
	return &DefaultBatchExecutor{
		config:   config,
		registry: reg,
		tree:     tree,
		logger:   config.Log,
	}
}

// RunBatch runs every registered target in a single runner invocation.
func (e *DefaultBatchExecutor) RunBatch(ctx context.Context) (*runner.BatchResult, error) {
	runID := uuid.New().String()

	fileLogger, err := logging.NewFileLogger(e.config.LogDir, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to create file logger: %w", err)
	}
	e.logger.Info("Saving run artifacts", "dir", fileLogger.RunDir())

	batchRunner, err := runner.NewBatchRunner(runner.Config{
		WorkDir:      e.config.FeaturesDir,
		Log:          e.logger,
		RunnerBinary: e.config.RunnerBinary,
		RunnerArgs:   e.config.RunnerArgs,
		Timeout:      e.config.BatchTimeout,
		Tree:         e.tree,
		FileLogger:   fileLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create batch runner: %w", err)
	}

	result, err := batchRunner.RunBatch(ctx, e.registry.Targets())
	if err != nil {
		e.logger.Error("Error running batch", "error", err)
		return nil, err
	}
	e.logger.Info("Batch run completed", "run_id", result.RunID, "status", result.Status)
	return result, nil
}
