package acceptor

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/log"
	"github.com/feature-infra/gherkin-acceptor/flags"
)

// Config holds the application configuration
type Config struct {
	PlanFile     string
	FeaturesDir  string        // Directory the runner is launched from
	RunnerBinary string        // External Cucumber-compatible runner executable
	RunnerArgs   []string      // Extra arguments placed before the generated ones
	RunInterval  time.Duration // Interval between batch runs
	RunOnce      bool          // Indicates if the service should exit after one batch run
	BatchTimeout time.Duration // Timeout for one whole batch invocation
	LogDir       string        // Directory to store per-run artifacts
	Log          log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, logger log.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	planFile := ctx.String(flags.PlanFile.Name)
	if planFile == "" {
		return nil, errors.New("batch plan file is required")
	}
	absPlanFile, err := filepath.Abs(planFile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for plan file '%s': %w", planFile, err)
	}

	featuresDir := ctx.String(flags.FeaturesDir.Name)
	if featuresDir == "" {
		featuresDir = filepath.Dir(absPlanFile)
	}
	absFeaturesDir, err := filepath.Abs(featuresDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for features directory '%s': %w", featuresDir, err)
	}

	logDir := ctx.String(flags.LogDir.Name)
	if logDir == "" {
		logDir = "logs"
	}
	logDir, err = filepath.Abs(logDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for log directory '%s': %w", logDir, err)
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)
	runOnce := runInterval == 0

	return &Config{
		PlanFile:     absPlanFile,
		FeaturesDir:  absFeaturesDir,
		RunnerBinary: ctx.String(flags.RunnerBinary.Name),
		RunnerArgs:   ctx.StringSlice(flags.RunnerArgs.Name),
		RunInterval:  runInterval,
		RunOnce:      runOnce,
		BatchTimeout: ctx.Duration(flags.BatchTimeout.Name),
		LogDir:       logDir,
		Log:          logger,
	}, nil
}
