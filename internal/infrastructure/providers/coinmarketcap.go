package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/coinscout/coinscout/internal/domain/market"
	"github.com/coinscout/coinscout/internal/telemetry/metrics"
)

const cmcProviderName = "coinmarketcap"

// CoinMarketCapConfig configures the CMC market-data provider.
type CoinMarketCapConfig struct {
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RPS            float64       `yaml:"rps"`
	Burst          int           `yaml:"burst"`
}

// DefaultCoinMarketCapConfig returns sensible free-tier settings.
func DefaultCoinMarketCapConfig() CoinMarketCapConfig {
	return CoinMarketCapConfig{
		BaseURL:        "https://pro-api.coinmarketcap.com",
		RequestTimeout: 10 * time.Second,
		RPS:            0.5,
		Burst:          2,
	}
}

// CoinMarketCapProvider implements the market-data collaborator: quotes,
// listings, and the BTC dominance reading. Every call goes through the
// shared rate limiter and a circuit breaker, and records health.
type CoinMarketCapProvider struct {
	config   CoinMarketCapConfig
	client   *http.Client
	limiter  *RateLimiter
	breaker  *gobreaker.CircuitBreaker
	health   *metrics.ProviderHealth
	registry *metrics.Registry
}

// NewCoinMarketCapProvider creates the provider and registers its rate
// bucket on the given limiter.
func NewCoinMarketCapProvider(config CoinMarketCapConfig, limiter *RateLimiter) *CoinMarketCapProvider {
	if config.BaseURL == "" {
		config.BaseURL = DefaultCoinMarketCapConfig().BaseURL
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultCoinMarketCapConfig().RequestTimeout
	}
	if config.RPS <= 0 {
		config.RPS = DefaultCoinMarketCapConfig().RPS
	}
	if config.Burst <= 0 {
		config.Burst = DefaultCoinMarketCapConfig().Burst
	}

	limiter.InitializeProvider(cmcProviderName, config.RPS, config.Burst)

	return &CoinMarketCapProvider{
		config:  config,
		client:  &http.Client{Timeout: config.RequestTimeout},
		limiter: limiter,
		breaker: newProviderBreaker(cmcProviderName),
		health:  metrics.NewProviderHealth(cmcProviderName),
	}
}

// Health exposes the provider's health tracker for the ops surface.
func (p *CoinMarketCapProvider) Health() *metrics.ProviderHealth {
	return p.health
}

// SetMetrics attaches the telemetry registry for request counters.
func (p *CoinMarketCapProvider) SetMetrics(registry *metrics.Registry) {
	p.registry = registry
}

type cmcQuote struct {
	Price           float64 `json:"price"`
	MarketCap       float64 `json:"market_cap"`
	Volume24h       float64 `json:"volume_24h"`
	PercentChange1h float64 `json:"percent_change_1h"`
	PercentChange24 float64 `json:"percent_change_24h"`
	PercentChange7d float64 `json:"percent_change_7d"`
	PercentChange30 float64 `json:"percent_change_30d"`
}

type cmcAsset struct {
	Symbol string              `json:"symbol"`
	Name   string              `json:"name"`
	Quote  map[string]cmcQuote `json:"quote"`
}

func (a cmcAsset) toSnapshot() market.AssetSnapshot {
	usd := a.Quote["USD"]
	return market.AssetSnapshot{
		Symbol:    a.Symbol,
		Name:      a.Name,
		Price:     usd.Price,
		MarketCap: usd.MarketCap,
		Volume24h: usd.Volume24h,
		Change1h:  usd.PercentChange1h,
		Change24h: usd.PercentChange24,
		Change7d:  usd.PercentChange7d,
		Change30d: usd.PercentChange30,
		FetchedAt: time.Now(),
	}
}

// Quote fetches the latest snapshot for one symbol. A response that does
// not contain the symbol yields market.ErrNotFound.
func (p *CoinMarketCapProvider) Quote(ctx context.Context, symbol string) (market.AssetSnapshot, error) {
	symbol = strings.ToUpper(symbol)

	var response struct {
		Data map[string]cmcAsset `json:"data"`
	}
	endpoint := fmt.Sprintf("/v1/cryptocurrency/quotes/latest?symbol=%s", url.QueryEscape(symbol))
	if err := p.getJSON(ctx, "quote", endpoint, &response); err != nil {
		return market.AssetSnapshot{}, err
	}

	asset, ok := response.Data[symbol]
	if !ok {
		return market.AssetSnapshot{}, fmt.Errorf("quote %s: %w", symbol, market.ErrNotFound)
	}

	return asset.toSnapshot(), nil
}

// Listings fetches an ordered page of assets.
func (p *CoinMarketCapProvider) Listings(ctx context.Context, limit int, sortKey, sortDir string) ([]market.AssetSnapshot, error) {
	var response struct {
		Data []cmcAsset `json:"data"`
	}
	endpoint := fmt.Sprintf("/v1/cryptocurrency/listings/latest?limit=%d&sort=%s&sort_dir=%s",
		limit, url.QueryEscape(sortKey), url.QueryEscape(sortDir))
	if err := p.getJSON(ctx, "listings", endpoint, &response); err != nil {
		return nil, err
	}

	snapshots := make([]market.AssetSnapshot, 0, len(response.Data))
	for _, asset := range response.Data {
		snapshots = append(snapshots, asset.toSnapshot())
	}

	log.Debug().
		Int("assets", len(snapshots)).
		Str("sort", sortKey).
		Msg("listings retrieved")

	return snapshots, nil
}

// Dominance fetches BTC's share of total market capitalization.
func (p *CoinMarketCapProvider) Dominance(ctx context.Context) (float64, error) {
	var response struct {
		Data struct {
			BTCDominance float64 `json:"btc_dominance"`
		} `json:"data"`
	}
	if err := p.getJSON(ctx, "dominance", "/v1/global-metrics/quotes/latest", &response); err != nil {
		return 0, err
	}
	return response.Data.BTCDominance, nil
}

// getJSON performs one rate-limited, breaker-guarded GET and decodes the
// body into out. All failures come back as UpstreamError.
func (p *CoinMarketCapProvider) getJSON(ctx context.Context, op, endpoint string, out interface{}) error {
	if err := p.limiter.Wait(ctx, cmcProviderName); err != nil {
		return market.NewUpstream(cmcProviderName, op, err)
	}

	startTime := time.Now()
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.doRequest(ctx, endpoint, out)
	})
	duration := time.Since(startTime)

	p.health.RecordRequest(err == nil, duration)
	if p.registry != nil {
		result := "success"
		if err != nil {
			result = "error"
		}
		p.registry.ProviderRequests.WithLabelValues(cmcProviderName, result).Inc()
		p.registry.ProviderLatency.WithLabelValues(cmcProviderName).Observe(duration.Seconds())
	}

	if err != nil {
		p.health.SetDegraded(true, op+"_error")
		log.Error().
			Err(err).
			Str("op", op).
			Dur("duration", duration).
			Msg("CoinMarketCap request failed")
		return market.NewUpstream(cmcProviderName, op, err)
	}

	return nil
}

func (p *CoinMarketCapProvider) doRequest(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL+endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if p.config.APIKey != "" {
		req.Header.Set("X-CMC_PRO_API_KEY", p.config.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
