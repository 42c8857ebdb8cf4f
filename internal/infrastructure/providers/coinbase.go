package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/coinscout/coinscout/internal/domain/market"
	"github.com/coinscout/coinscout/internal/telemetry/metrics"
)

const coinbaseProviderName = "coinbase"

// CoinbaseConfig configures the exchange-listing provider.
type CoinbaseConfig struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	CacheKey       string        `yaml:"cache_key"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	RPS            float64       `yaml:"rps"`
	Burst          int           `yaml:"burst"`
}

// DefaultCoinbaseConfig returns the production settings.
func DefaultCoinbaseConfig() CoinbaseConfig {
	return CoinbaseConfig{
		BaseURL:        "https://api.exchange.coinbase.com",
		RequestTimeout: 10 * time.Second,
		CacheKey:       "coinscout:coinbase:currencies",
		CacheTTL:       time.Hour,
		RPS:            1,
		Burst:          2,
	}
}

// CoinbaseProvider answers exchange-listing membership. The currency set
// is cached in Redis with a TTL, with an in-process copy kept as a
// fallback when Redis is unavailable.
type CoinbaseProvider struct {
	config   CoinbaseConfig
	client   *http.Client
	cache    redis.Cmdable
	limiter  *RateLimiter
	breaker  *gobreaker.CircuitBreaker
	health   *metrics.ProviderHealth
	registry *metrics.Registry

	mu      sync.RWMutex
	local   map[string]bool
	fetched time.Time
}

// NewCoinbaseProvider creates the provider. cache may be nil, in which
// case only the in-process set is used.
func NewCoinbaseProvider(config CoinbaseConfig, cache redis.Cmdable, limiter *RateLimiter) *CoinbaseProvider {
	defaults := DefaultCoinbaseConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = defaults.RequestTimeout
	}
	if config.CacheKey == "" {
		config.CacheKey = defaults.CacheKey
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = defaults.CacheTTL
	}
	if config.RPS <= 0 {
		config.RPS = defaults.RPS
	}
	if config.Burst <= 0 {
		config.Burst = defaults.Burst
	}

	limiter.InitializeProvider(coinbaseProviderName, config.RPS, config.Burst)

	return &CoinbaseProvider{
		config:  config,
		client:  &http.Client{Timeout: config.RequestTimeout},
		cache:   cache,
		limiter: limiter,
		breaker: newProviderBreaker(coinbaseProviderName),
		health:  metrics.NewProviderHealth(coinbaseProviderName),
	}
}

// Health exposes the provider's health tracker for the ops surface.
func (p *CoinbaseProvider) Health() *metrics.ProviderHealth {
	return p.health
}

// SetMetrics attaches the telemetry registry for request counters.
func (p *CoinbaseProvider) SetMetrics(registry *metrics.Registry) {
	p.registry = registry
}

// IsListed reports whether the symbol trades on the exchange. The Redis
// set is consulted first; a cache miss refreshes the set from the
// exchange. Cache write failures are logged and ignored.
func (p *CoinbaseProvider) IsListed(ctx context.Context, symbol string) (bool, error) {
	symbol = strings.ToUpper(symbol)

	if p.cache != nil {
		exists, err := p.cache.Exists(ctx, p.config.CacheKey).Result()
		if err == nil && exists == 1 {
			listed, err := p.cache.SIsMember(ctx, p.config.CacheKey, symbol).Result()
			if err == nil {
				return listed, nil
			}
			log.Warn().Err(err).Msg("coinbase listing cache read failed")
		}
	}

	p.mu.RLock()
	if p.local != nil && time.Since(p.fetched) < p.config.CacheTTL {
		listed := p.local[symbol]
		p.mu.RUnlock()
		return listed, nil
	}
	p.mu.RUnlock()

	if err := p.refresh(ctx); err != nil {
		// Serve the stale in-process set rather than failing a lookup
		// that is only display metadata.
		p.mu.RLock()
		defer p.mu.RUnlock()
		if p.local != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("serving stale coinbase listing set")
			return p.local[symbol], nil
		}
		return false, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.local[symbol], nil
}

type coinbaseCurrency struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// refresh pulls the currency list from the exchange and repopulates both
// cache tiers.
func (p *CoinbaseProvider) refresh(ctx context.Context) error {
	if err := p.limiter.Wait(ctx, coinbaseProviderName); err != nil {
		return market.NewUpstream(coinbaseProviderName, "currencies", err)
	}

	startTime := time.Now()
	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.fetchCurrencies(ctx)
	})
	duration := time.Since(startTime)

	p.health.RecordRequest(err == nil, duration)
	if p.registry != nil {
		result := "success"
		if err != nil {
			result = "error"
		}
		p.registry.ProviderRequests.WithLabelValues(coinbaseProviderName, result).Inc()
		p.registry.ProviderLatency.WithLabelValues(coinbaseProviderName).Observe(duration.Seconds())
	}

	if err != nil {
		p.health.SetDegraded(true, "currencies_error")
		return market.NewUpstream(coinbaseProviderName, "currencies", err)
	}

	symbols := result.([]string)

	p.mu.Lock()
	p.local = make(map[string]bool, len(symbols))
	for _, s := range symbols {
		p.local[s] = true
	}
	p.fetched = time.Now()
	p.mu.Unlock()

	if p.cache != nil {
		p.storeInCache(ctx, symbols)
	}

	log.Debug().
		Int("currencies", len(symbols)).
		Dur("duration", duration).
		Msg("coinbase currency set refreshed")

	return nil
}

func (p *CoinbaseProvider) fetchCurrencies(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL+"/currencies", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	var currencies []coinbaseCurrency
	if err := json.NewDecoder(resp.Body).Decode(&currencies); err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(currencies))
	for _, currency := range currencies {
		symbols = append(symbols, strings.ToUpper(currency.ID))
	}
	// Deterministic member order keeps cache writes reproducible.
	sort.Strings(symbols)
	return symbols, nil
}

func (p *CoinbaseProvider) storeInCache(ctx context.Context, symbols []string) {
	members := make([]interface{}, len(symbols))
	for i, s := range symbols {
		members[i] = s
	}

	pipe := p.cache.TxPipeline()
	pipe.Del(ctx, p.config.CacheKey)
	pipe.SAdd(ctx, p.config.CacheKey, members...)
	pipe.Expire(ctx, p.config.CacheKey, p.config.CacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Msg("coinbase listing cache write failed")
	}
}
