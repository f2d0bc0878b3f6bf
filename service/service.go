// Package service hosts the acceptor's sidecar HTTP endpoints: a liveness
// probe and the Prometheus scrape target. They bind fixed ports and live
// for the whole process, independent of individual batch runs.
package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/feature-infra/gherkin-acceptor/metrics"
)

const (
	healthzAddr = ":8091"
	metricsAddr = ":9090"

	shutdownGrace = 5 * time.Second
)

// endpoint is one sidecar HTTP server.
type endpoint interface {
	Start(ctx context.Context, addr string) error
	Shutdown(ctx context.Context) error
}

type Service struct {
	healthz *HealthzServer
	metrics *MetricsServer
}

func New() *Service {
	return &Service{
		healthz: &HealthzServer{},
		metrics: &MetricsServer{},
	}
}

// Start launches both endpoints in the background and returns immediately.
// A failed bind is logged and counted but does not take the process down;
// batches can still run without the sidecars.
func (s *Service) Start(ctx context.Context) {
	go serve(ctx, "healthz", healthzAddr, s.healthz)
	go serve(ctx, "metrics", metricsAddr, s.metrics)
}

func serve(ctx context.Context, name, addr string, ep endpoint) {
	log.Info("Serving sidecar endpoint", "endpoint", name, "addr", addr)
	if err := ep.Start(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Sidecar endpoint failed", "endpoint", name, "error", err)
		metrics.RecordErrorDetails("sidecar_"+name, err)
	}
}

// Shutdown drains both endpoints, bounded by a short grace period.
func (s *Service) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := s.healthz.Shutdown(ctx); err != nil {
		log.Warn("Healthz endpoint did not shut down cleanly", "error", err)
	}
	if err := s.metrics.Shutdown(ctx); err != nil {
		log.Warn("Metrics endpoint did not shut down cleanly", "error", err)
	}
	log.Info("Sidecar endpoints stopped")
}
