// downloader fetches the full public market-data set for one MEXC futures
// contract: metadata snapshots, funding history, complete kline histories
// for every configured interval (traded, index and fair price), and an
// optional timed live-stream capture at the end.
//
// Usage: go run ./cmd/downloader --config configs/downloader.example.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/cariantohs/mexc-data/internal/api"
	"github.com/cariantohs/mexc-data/internal/backfill"
	"github.com/cariantohs/mexc-data/internal/config"
	"github.com/cariantohs/mexc-data/internal/connection"
	"github.com/cariantohs/mexc-data/internal/model"
	"github.com/cariantohs/mexc-data/internal/stream"
	"github.com/cariantohs/mexc-data/internal/version"
	"github.com/cariantohs/mexc-data/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/downloader.example.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting downloader",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"symbol", cfg.Symbol,
		"output_dir", cfg.OutputDir,
		"mode", cfg.Kline.Mode,
	)

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

	client := api.NewClient(
		cfg.API.BaseURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxAttempts, cfg.API.RetryBackoff),
		api.WithSpacing(cfg.API.RequestSpacing),
	)

	if ts, err := client.ServerTime(ctx); err != nil {
		logger.Warn("server time check failed", "error", err)
	} else {
		logger.Info("exchange reachable", "server_time_ms", ts)
	}

	fetchSnapshots(ctx, cfg, client, logger)
	fetchFunding(ctx, cfg, client, logger)
	runBackfills(ctx, cfg, client, logger)

	if cfg.Stream.Enable && ctx.Err() == nil {
		runCapture(ctx, cfg, logger)
	}

	logger.Info("downloader finished", "output_dir", cfg.OutputDir)
}

// fetchSnapshots saves the one-shot metadata documents. Each failure is
// reported and the run moves on to the next resource.
func fetchSnapshots(ctx context.Context, cfg *config.Config, client *api.Client, logger *slog.Logger) {
	out := func(name string) string { return filepath.Join(cfg.OutputDir, name) }

	if details, err := client.ContractDetail(ctx, cfg.Symbol); err != nil {
		logger.Error("contract detail failed", "error", err)
	} else if err := writer.SaveJSON(out("contract_detail.json"), details); err != nil {
		logger.Error("save contract detail failed", "error", err)
	}

	if tk, err := client.Ticker(ctx, cfg.Symbol); err != nil {
		logger.Error("ticker failed", "error", err)
	} else if err := writer.SaveJSON(out("ticker.json"), tk); err != nil {
		logger.Error("save ticker failed", "error", err)
	}

	if deals, err := client.Deals(ctx, cfg.Symbol, 100); err != nil {
		logger.Error("deals failed", "error", err)
	} else if err := writer.SaveJSON(out("deals_recent.json"), deals); err != nil {
		logger.Error("save deals failed", "error", err)
	}

	if depth, err := client.Depth(ctx, cfg.Symbol, 50); err != nil {
		logger.Error("depth failed", "error", err)
	} else if err := writer.SaveJSON(out("depth_snapshot.json"), depth); err != nil {
		logger.Error("save depth failed", "error", err)
	}

	if commits, err := client.DepthCommits(ctx, cfg.Symbol, 20); err != nil {
		logger.Error("depth commits failed", "error", err)
	} else if err := writer.SaveJSON(out("depth_commits.json"), commits); err != nil {
		logger.Error("save depth commits failed", "error", err)
	}

	if idx, err := client.IndexPrice(ctx, cfg.Symbol); err != nil {
		logger.Error("index price failed", "error", err)
	} else if err := writer.SaveJSON(out("index_price_now.json"), idx); err != nil {
		logger.Error("save index price failed", "error", err)
	}

	if fair, err := client.FairPrice(ctx, cfg.Symbol); err != nil {
		logger.Error("fair price failed", "error", err)
	} else if err := writer.SaveJSON(out("fair_price_now.json"), fair); err != nil {
		logger.Error("save fair price failed", "error", err)
	}
}

// fetchFunding saves the current funding state and the full settlement history.
func fetchFunding(ctx context.Context, cfg *config.Config, client *api.Client, logger *slog.Logger) {
	if fr, err := client.FundingRate(ctx, cfg.Symbol); err != nil {
		logger.Error("funding rate failed", "error", err)
	} else if err := writer.SaveJSON(filepath.Join(cfg.OutputDir, "funding_rate_now.json"), fr); err != nil {
		logger.Error("save funding rate failed", "error", err)
	}

	records, err := client.FundingHistory(ctx, cfg.Symbol, cfg.Funding.PageSize)
	if err != nil {
		logger.Error("funding history failed", "error", err)
		return
	}
	path := filepath.Join(cfg.OutputDir, "funding_rate_history.csv")
	if err := writer.WriteFundingHistory(path, records); err != nil {
		logger.Error("save funding history failed", "error", err)
		return
	}
	logger.Info("funding history saved", "rows", len(records), "path", path)
}

// runBackfills reconstructs every configured candle series. Each
// (kind, interval) backfill is independent: one failing is logged and the
// others proceed.
func runBackfills(ctx context.Context, cfg *config.Config, client *api.Client, logger *slog.Logger) {
	engine := backfill.New(backfill.Config{MaxPageSize: cfg.Kline.MaxPageSize}, client, logger)

	type job struct {
		kind     model.KlineKind
		interval model.Interval
		file     string
	}

	var jobs []job
	for _, iv := range cfg.Kline.Intervals {
		jobs = append(jobs, job{model.KindLast, iv, fmt.Sprintf("kline_%s.csv", iv)})
	}
	for _, iv := range cfg.Kline.IndexFairIntervals {
		jobs = append(jobs, job{model.KindIndex, iv, fmt.Sprintf("index_price_kline_%s.csv", iv)})
		jobs = append(jobs, job{model.KindFair, iv, fmt.Sprintf("fair_price_kline_%s.csv", iv)})
	}

	var g errgroup.Group
	g.SetLimit(cfg.Kline.Parallelism)

	for _, j := range jobs {
		j := j
		g.Go(func() error {
			req := backfill.Request{Kind: j.kind, Symbol: cfg.Symbol, Interval: j.interval}

			var candles []model.Candle
			var err error
			if cfg.Kline.Mode == config.ModeRange {
				candles, err = engine.Range(ctx, req, cfg.Kline.Start.Unix(), cfg.Kline.End.Unix())
			} else {
				candles, err = engine.FullHistory(ctx, req)
			}
			if err != nil {
				logger.Error("backfill failed",
					"kind", j.kind,
					"interval", j.interval,
					"error", err,
				)
				return nil
			}
			if len(candles) == 0 {
				logger.Info("backfill empty", "kind", j.kind, "interval", j.interval)
				return nil
			}

			path := filepath.Join(cfg.OutputDir, j.file)
			if err := writer.WriteCandles(path, candles); err != nil {
				logger.Error("save candles failed", "path", path, "error", err)
				return nil
			}
			logger.Info("backfill complete",
				"kind", j.kind,
				"interval", j.interval,
				"rows", len(candles),
				"path", path,
			)
			return nil
		})
	}

	g.Wait()
}

// runCapture records the live stream for the configured duration.
func runCapture(ctx context.Context, cfg *config.Config, logger *slog.Logger) {
	sinks, err := writer.NewStreamWriter(cfg.OutputDir, cfg.Stream.DepthLimit)
	if err != nil {
		logger.Error("failed to open capture files", "error", err)
		return
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

	if err := session.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("stream capture ended with error", "error", err)
	}

	logger.Info("stream capture done", "files", sinks.Files())
}
