package main

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream/internal/metrics"
	"github.com/input-output-hk/catalyst-forge-libs/s3stream/s3types"
)

// metricsServer exposes upload metrics while a command runs. A nil server is
// valid and does nothing.
type metricsServer struct {
	srv      *http.Server
	recorder *metrics.Recorder
	logger   *slog.Logger
}

// startMetrics serves /metrics on addr. An empty addr disables metrics.
func startMetrics(addr string, logger *slog.Logger) (*metricsServer, error) {
	if addr == "" {
		return nil, nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	m := &metricsServer{
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		recorder: metrics.NewRecorder(reg),
		logger:   logger,
	}

	go func() {
		if err := m.srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())
	return m, nil
}

// Recorder returns the upload recorder, or nil when metrics are disabled.
func (m *metricsServer) Recorder() s3types.UploadRecorder {
	if m == nil {
		return nil
	}
	return m.recorder
}

// Shutdown stops the server.
func (m *metricsServer) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return m.srv.Shutdown(ctx)
}
