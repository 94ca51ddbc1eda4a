// Command eegmon acquires a single-channel EEG stream, filters it and
// serves the live spectrum over HTTP.
//
// Usage:
//
//	eegmon [flags]
//
// Endpoints:
//
//	/spectrum?max_hz=60   latest spectrum as JSON
//	/frame?max_hz=60      latest frame (raw, filtered, spectrum, stats)
//	/ws                   websocket stream of frames
//	/metrics              Prometheus metrics
//	/healthz              liveness
//
// Examples:
//
//	eegmon
//	eegmon -config eegmon.yaml
//	eegmon -transport file:/dev/ttyUSB0 -listen :9000
//	eegmon -transport tcp:192.168.1.20:5000
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-eeg/internal/config"
	"github.com/cwbudde/algo-eeg/internal/logging"
	"github.com/cwbudde/algo-eeg/internal/metrics"
	"github.com/cwbudde/algo-eeg/internal/server"
	"github.com/cwbudde/algo-eeg/monitor"
	"github.com/cwbudde/algo-eeg/source"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	transport := flag.String("transport", "", "byte source: synthetic, file:<path> or tcp:<host>:<port>")
	listen := flag.String("listen", "", "HTTP listen address")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: eegmon [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Filters a streamed EEG channel and serves its spectrum.\n")
		fmt.Fprintf(os.Stderr, "Environment: %s, %s, %s override the file.\n\n",
			config.EnvTransport, config.EnvListen, config.EnvLogLevel)
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*configPath, *transport, *listen); err != nil {
		fmt.Fprintf(os.Stderr, "eegmon: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, transport, listen string) error {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return err
	}
	if transport != "" {
		cfg.Monitor.Source.Transport = transport
	}
	if listen != "" {
		cfg.Server.Listen = listen
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	rec := metrics.New(prometheus.DefaultRegisterer)

	p, err := monitor.New(cfg.Monitor,
		monitor.WithLogger(logger.Named("pipeline")),
		monitor.WithRecorder(rec),
	)
	if err != nil {
		return err
	}

	src, err := source.Open(cfg.Monitor.Source, cfg.Monitor.SampleRate)
	if err != nil {
		return err
	}

	hub := server.NewHub(cfg.Monitor.DisplayMaxHz, logger.Named("hub"))
	runner, err := monitor.NewRunner(p, src, cfg.Monitor.TickInterval,
		monitor.WithLogger(logger.Named("runner")),
		monitor.WithRecorder(rec),
		monitor.WithSink(hub),
	)
	if err != nil {
		_ = src.Close()
		return err
	}
	srv := server.New(hub, cfg.Server, server.WithLogger(logger.Named("http")))

	logger.Info("starting",
		zap.String("transport", cfg.Monitor.Source.Transport),
		zap.Int("baud_rate", cfg.Monitor.Source.BaudRate),
		zap.Float64("sample_rate", cfg.Monitor.SampleRate),
		zap.Int("buffer_size", cfg.Monitor.BufferSize),
		zap.Float64("notch_hz", cfg.Monitor.NotchFrequency),
		zap.Float64("lowpass_hz", cfg.Monitor.LowpassCutoff),
		zap.Int("filter_order", cfg.Monitor.FilterOrder),
		zap.Duration("tick_interval", cfg.Monitor.TickInterval),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- runner.Run(ctx) }()
	srvErr := make(chan error, 1)
	go func() { srvErr <- srv.ListenAndServe() }()

	select {
	case err = <-runErr:
	case err = <-srvErr:
		cancel()
		<-runErr
	}

	if shutdownErr := srv.Shutdown(context.Background()); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	if err != nil {
		logger.Error("stopped", zap.Error(err))
		return err
	}
	logger.Info("stopped")
	return nil
}
