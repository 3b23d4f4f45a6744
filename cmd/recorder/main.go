// recorder captures the live MEXC contract WebSocket feed for one symbol and
// appends every push message to its per-channel CSV file.
//
// Usage: go run ./cmd/recorder --config configs/downloader.example.yaml --duration 3m
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cariantohs/mexc-data/internal/config"
	"github.com/cariantohs/mexc-data/internal/connection"
	"github.com/cariantohs/mexc-data/internal/stream"
	"github.com/cariantohs/mexc-data/internal/version"
	"github.com/cariantohs/mexc-data/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/downloader.example.yaml", "path to config file")
	duration := flag.Duration("duration", 0, "override stream.run_duration")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting recorder", "version", version.Version, "config", *configPath)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *duration > 0 {
		cfg.Stream.RunDuration = *duration
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		logger.Error("failed to create output dir", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	sinks, err := writer.NewStreamWriter(cfg.OutputDir, cfg.Stream.DepthLimit)
	if err != nil {
		logger.Error("failed to open capture files", "error", err)
		os.Exit(1)
	}
	defer sinks.Close()

	connCfg := connection.DefaultClientConfig()
	connCfg.URL = cfg.Stream.URL
	connCfg.WriteTimeout = cfg.Stream.WriteTimeout
	connCfg.BufferSize = cfg.Stream.BufferSize

	session := stream.New(stream.Config{
		Symbol:       cfg.Symbol,
		RunDuration:  cfg.Stream.RunDuration,
		PingInterval: cfg.Stream.PingInterval,
		DepthLimit:   cfg.Stream.DepthLimit,
	}, connection.NewClient(connCfg, logger), sinks, logger)

	start := time.Now()
	err = session.Run(ctx)

	stats := session.Stats()
	logger.Info("capture finished",
		"state", session.State(),
		"elapsed", time.Since(start).Round(time.Second),
		"received", stats.Received,
		"routed", stats.Routed,
		"malformed", stats.Malformed,
		"files", sinks.Files(),
	)

	if err != nil && ctx.Err() == nil {
		logger.Error("session ended with error", "error", err)
		os.Exit(1)
	}
}
