// Package gateway parses gateway service flags and launches the service.
package gateway

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/louisbranch/accesslog/internal/accesslog"
	entrypoint "github.com/louisbranch/accesslog/internal/platform/cmd"
	"github.com/louisbranch/accesslog/internal/platform/httpx"
)

const shutdownTimeout = 10 * time.Second

// Config holds gateway command configuration.
type Config struct {
	HTTPAddr       string        `env:"ACCESSLOG_GATEWAY_HTTP_ADDR" envDefault:"localhost:8080"`
	SampleInterval time.Duration `env:"ACCESSLOG_SAMPLE_INTERVAL" envDefault:"1s"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The gateway HTTP listen address")
	fs.DurationVar(&cfg.SampleInterval, "sample-interval", cfg.SampleInterval, "Minimum interval between error-severity request logs")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewHandler composes the gateway routes with the observability chain.
func NewHandler(cfg Config, logger zerolog.Logger, reg *prometheus.Registry) (http.Handler, error) {
	metricsSink, err := accesslog.NewPrometheusSink(reg)
	if err != nil {
		return nil, fmt.Errorf("compose metrics sink: %w", err)
	}
	observer := accesslog.New(accesslog.NewZerologSink(logger), metricsSink, accesslog.Options{
		SampleInterval: cfg.SampleInterval,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"service":"gateway"}`))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return httpx.Chain(mux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		httpx.Trace(entrypoint.ServiceGateway),
		observer.Middleware(),
	), nil
}

// Run starts the gateway HTTP service and blocks until ctx is cancelled or
// the server fails.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGateway, func(ctx context.Context) error {
		logger := zerolog.New(os.Stdout).With().
			Timestamp().
			Str("service", entrypoint.ServiceGateway).
			Logger()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		handler, err := NewHandler(cfg, logger, reg)
		if err != nil {
			return fmt.Errorf("compose gateway handler: %w", err)
		}

		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("serve gateway: %w", err)
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown gateway: %w", err)
			}
			return nil
		}
	})
}
