package flags

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "GHERKIN_ACCEPTOR"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	PlanFile = &cli.StringFlag{
		Name:     "plan",
		Value:    "",
		Required: true,
		EnvVars:  prefixEnvVars("PLAN"),
		Usage:    "Path to the batch plan file (eg. 'plan.yaml')",
	}
	FeaturesDir = &cli.StringFlag{
		Name:    "features-dir",
		Value:   "",
		EnvVars: prefixEnvVars("FEATURES_DIR"),
		Usage:   "Directory the runner is launched from. Feature paths resolve against it. Defaults to the plan file's directory.",
	}
	RunnerBinary = &cli.StringFlag{
		Name:    "runner-binary",
		Value:   "cucumber-js",
		EnvVars: prefixEnvVars("RUNNER_BINARY"),
		Usage:   "Cucumber-compatible runner executable to invoke",
	}
	RunnerArgs = &cli.StringSliceFlag{
		Name:    "runner-arg",
		EnvVars: prefixEnvVars("RUNNER_ARGS"),
		Usage:   "Extra argument passed to the runner before the generated ones. May be repeated.",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: prefixEnvVars("RUN_INTERVAL"),
		Usage:   "Interval between batch runs (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
	BatchTimeout = &cli.DurationFlag{
		Name:    "timeout",
		Value:   10 * time.Minute,
		EnvVars: prefixEnvVars("TIMEOUT"),
		Usage:   "Timeout for one whole batch invocation",
	}
	LogDir = &cli.StringFlag{
		Name:    "logdir",
		Value:   "logs",
		EnvVars: prefixEnvVars("LOGDIR"),
		Usage:   "Directory to store per-run artifacts",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log.level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "The lowest log level that will be output (trace, debug, info, warn, error, crit)",
	}
)

var requiredFlags = []cli.Flag{
	PlanFile,
}

var optionalFlags = []cli.Flag{
	FeaturesDir,
	RunnerBinary,
	RunnerArgs,
	RunInterval,
	BatchTimeout,
	LogDir,
	LogLevel,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
