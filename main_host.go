//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"splitkb/app"
	"splitkb/hal"
	"splitkb/internal/buildinfo"
	"splitkb/internal/config"
	"splitkb/internal/metrics"
)

func main() {
	var (
		configPath  string
		backend     string
		headless    bool
		iterations  uint64
		withStats   bool
		metricsAddr string
		version     bool
	)
	flag.StringVar(&configPath, "config", "", "Path to a YAML config file.")
	flag.StringVar(&backend, "backend", "", "Override the backend (virtual, linux).")
	flag.BoolVar(&headless, "headless", false, "Run without a window.")
	flag.Uint64Var(&iterations, "iterations", 0, "Stop after N scan iterations (0 = run forever).")
	flag.BoolVar(&withStats, "stats", false, "Print scan statistics every 10 seconds.")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Serve statistics for Prometheus on this address.")
	flag.BoolVar(&version, "version", false, "Print the build and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.String())
		return
	}

	cfg, err := loadConfig(configPath, backend)
	if err != nil {
		fail(err)
	}
	if metricsAddr != "" {
		cfg.Stats.MetricsAddr = metricsAddr
	}
	if withStats || cfg.Stats.MetricsAddr != "" {
		cfg.Stats.Enabled = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := app.Options{MaxIterations: iterations}
	if cfg.Stats.MetricsAddr != "" {
		m := metrics.New()
		opts.Sink = m
		srv := serveMetrics(cfg.Stats.MetricsAddr, m)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	run := func(ctx context.Context, h hal.HAL) error {
		return app.New(h, cfg, opts).Run(ctx)
	}
	if headless {
		err = hal.RunHeadless(ctx, cfg, run)
	} else {
		err = hal.RunWindow(ctx, cfg, run)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fail(err)
	}
}

func loadConfig(path, backend string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if backend != "" {
		cfg.Backend = backend
		if err := config.Validate(&cfg); err != nil {
			return config.Config{}, fmt.Errorf("config: %w", err)
		}
		config.Normalize(&cfg)
	}
	return cfg, nil
}

func serveMetrics(addr string, m *metrics.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			color.New(color.FgYellow).Fprintln(os.Stderr, "metrics:", err)
		}
	}()
	return srv
}

func fail(err error) {
	color.New(color.FgRed).Fprintln(os.Stderr, "splitkb:", err)
	os.Exit(1)
}
