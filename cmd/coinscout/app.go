package main

import (
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coinscout/coinscout/internal/application/pipeline"
	"github.com/coinscout/coinscout/internal/config"
	"github.com/coinscout/coinscout/internal/domain/cycle"
	"github.com/coinscout/coinscout/internal/domain/scoring"
	"github.com/coinscout/coinscout/internal/infrastructure/providers"
	httpiface "github.com/coinscout/coinscout/internal/interfaces/http"
	"github.com/coinscout/coinscout/internal/telemetry/metrics"
)

// app bundles the wired components every subcommand starts from.
type app struct {
	cfg      config.Config
	registry *metrics.Registry
	cmc      *providers.CoinMarketCapProvider
	coinbase *providers.CoinbaseProvider
	scanner  *pipeline.Scanner
}

// buildApp loads configuration, applies any flag overrides, and wires
// the full pipeline: providers, scorer, cycle analyzer, ranker, scanner.
func buildApp(path string, overrides ...func(*config.Config)) (*app, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(&cfg)
	}

	// The config file sets the level unless the flag already did.
	if logLevel == "" && cfg.LogLevel != "" {
		if parsed, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			zerolog.SetGlobalLevel(parsed)
		}
	}

	registry := metrics.NewRegistry()
	limiter := providers.NewRateLimiter()

	cmc := providers.NewCoinMarketCapProvider(cfg.CMC, limiter)
	cmc.SetMetrics(registry)

	var cache redis.Cmdable
	if cfg.Redis.Enabled {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis listing cache enabled")
	}
	coinbase := providers.NewCoinbaseProvider(cfg.Coinbase, cache, limiter)
	coinbase.SetMetrics(registry)

	scorer := scoring.NewScorer(&cfg.Scoring)
	ranker := pipeline.NewRanker(scorer, cycle.NewAdjuster(), cfg.Ranker)
	ranker.SetListingChecker(coinbase)
	ranker.SetMetrics(registry)

	scanner := pipeline.NewScanner(cmc, cycle.NewAnalyzer(), ranker, cfg.Scan)
	scanner.SetMetrics(registry)

	return &app{
		cfg:      cfg,
		registry: registry,
		cmc:      cmc,
		coinbase: coinbase,
		scanner:  scanner,
	}, nil
}

// opsServer builds the ops HTTP server over the app's registry and
// provider health trackers.
func (a *app) opsServer() (*httpiface.Server, error) {
	return httpiface.NewServer(a.cfg.Server, a.registry, a.cmc.Health(), a.coinbase.Health())
}
