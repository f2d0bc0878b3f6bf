package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	acceptor "github.com/feature-infra/gherkin-acceptor"
	"github.com/feature-infra/gherkin-acceptor/flags"
	"github.com/feature-infra/gherkin-acceptor/service"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "gherkin-acceptor"
	app.Usage = "Gherkin Batch Acceptance Runner Service"
	app.Description = "gherkin-acceptor runs feature batches through a Cucumber-compatible runner and correlates the report"
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		if err == nil {
			return
		}
		// RuntimeError and BatchFailureError implement cli.ExitCoder, so
		// errors.As resolves their exit codes (2 and 1) directly.
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
			return
		}
		// Unspecified errors default to exit code 1
		cli.HandleExitCoder(cli.Exit(err.Error(), 1))
	}

	// Start telemetry
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Crit("Failed to setup open telemetry", "message", err)
	}
	defer otelShutdown()

	// Start healthz and metrics servers
	svc := service.New()
	svc.Start(context.Background())
	defer svc.Shutdown()

	if err := app.Run(os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(cliCtx *cli.Context) error {
	logger, err := newLogger(cliCtx.String(flags.LogLevel.Name))
	if err != nil {
		return acceptor.NewRuntimeError(err)
	}
	log.SetDefault(logger)

	cfg, err := acceptor.NewConfig(cliCtx, logger)
	if err != nil {
		// Wrap in RuntimeError to signal this should exit with code 2
		return acceptor.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}
	cfg.Log.Debug("Config", "config", cfg)

	ctx, stop := signal.NotifyContext(cliCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown := make(chan error, 1)
	app, err := acceptor.New(ctx, cfg, Version, func(err error) {
		shutdown <- err
	})
	if err != nil {
		return acceptor.NewRuntimeError(fmt.Errorf("failed to create acceptor: %w", err))
	}

	if err := app.Start(ctx); err != nil {
		return err
	}
	if cfg.RunOnce {
		return nil
	}

	// Continuous mode: block until a shutdown is requested.
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-shutdown:
		if err != nil {
			return err
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		return acceptor.NewRuntimeError(err)
	}
	return app.WaitForShutdown(stopCtx)
}

func newLogger(level string) (log.Logger, error) {
	lvl, err := parseLogLevel(level)
	if err != nil {
		return nil, err
	}
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, lvl, true)
	return log.NewLogger(handler), nil
}

func parseLogLevel(level string) (slog.Level, error) {
	switch level {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "", "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}
