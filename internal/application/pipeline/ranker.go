package pipeline

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/coinscout/coinscout/internal/domain/cycle"
	"github.com/coinscout/coinscout/internal/domain/market"
	"github.com/coinscout/coinscout/internal/domain/scoring"
	"github.com/coinscout/coinscout/internal/telemetry/metrics"
)

// DefaultTopK is the number of opportunities returned when the caller
// does not ask for a specific cut.
const DefaultTopK = 10

// DefaultWorkers bounds the per-asset fan-out so a large batch does not
// hammer upstream listing lookups.
const DefaultWorkers = 8

// ListingChecker answers whether a symbol is listed on the reference
// exchange. Lookups are cosmetic metadata; failures degrade to false.
type ListingChecker interface {
	IsListed(ctx context.Context, symbol string) (bool, error)
}

// RankerConfig tunes the batch ranking behavior.
type RankerConfig struct {
	TopK    int `yaml:"top_k"`
	Workers int `yaml:"workers"`
}

// DefaultRankerConfig returns the production ranker settings.
func DefaultRankerConfig() RankerConfig {
	return RankerConfig{TopK: DefaultTopK, Workers: DefaultWorkers}
}

// Ranker scores a batch of snapshots against one shared dominance state
// and returns the top opportunities by adjusted score. One malformed
// asset never aborts the batch: it is logged, counted, and dropped.
type Ranker struct {
	scorer   *scoring.Scorer
	adjuster *cycle.Adjuster
	config   RankerConfig

	listings ListingChecker
	registry *metrics.Registry
}

// NewRanker creates a ranker. Zero config fields fall back to defaults.
func NewRanker(scorer *scoring.Scorer, adjuster *cycle.Adjuster, config RankerConfig) *Ranker {
	if config.TopK <= 0 {
		config.TopK = DefaultTopK
	}
	if config.Workers <= 0 {
		config.Workers = DefaultWorkers
	}
	return &Ranker{scorer: scorer, adjuster: adjuster, config: config}
}

// SetListingChecker attaches the exchange-listing lookup.
func (r *Ranker) SetListingChecker(listings ListingChecker) {
	r.listings = listings
}

// SetMetrics attaches the telemetry registry.
func (r *Ranker) SetMetrics(registry *metrics.Registry) {
	r.registry = registry
}

// Rank analyzes every snapshot concurrently (bounded by the configured
// worker count), adjusts each by the shared dominance state, and returns
// the first k results ordered by adjusted score descending. Ties keep
// input order. k <= 0 selects the configured TopK. The returned count is
// the number of assets dropped for bad data.
//
// The dominance state is classified once per scan by the caller and
// shared across the whole batch; this method never re-fetches it.
func (r *Ranker) Rank(ctx context.Context, snapshots []market.AssetSnapshot, state cycle.DominanceState, k int) ([]cycle.AdjustedAnalysis, int, error) {
	if k <= 0 {
		k = r.config.TopK
	}

	// Results are written by index so the pre-sort order matches the
	// input order, which is what makes the tie-break stable.
	results := make([]*cycle.AdjustedAnalysis, len(snapshots))

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < r.config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.analyzeOne(ctx, snapshots[i], state)
			}
		}()
	}

	for i := range snapshots {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, 0, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	ranked := make([]cycle.AdjustedAnalysis, 0, len(snapshots))
	for _, result := range results {
		if result != nil {
			ranked = append(ranked, *result)
		}
	}
	dropped := len(snapshots) - len(ranked)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AdjustedScore > ranked[j].AdjustedScore
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}

	return ranked, dropped, nil
}

// Analyze scores and adjusts a single snapshot against the given
// dominance state. Errors propagate to the caller; batch scans wrap
// this with drop-and-continue handling instead.
func (r *Ranker) Analyze(ctx context.Context, snapshot market.AssetSnapshot, state cycle.DominanceState) (*cycle.AdjustedAnalysis, error) {
	analysis, err := r.scorer.Analyze(snapshot)
	if err != nil {
		return nil, err
	}

	if r.listings != nil {
		listed, err := r.listings.IsListed(ctx, snapshot.Symbol)
		if err != nil {
			log.Warn().
				Err(err).
				Str("symbol", snapshot.Symbol).
				Msg("exchange listing lookup failed, assuming unlisted")
			listed = false
		}
		analysis.OnCoinbase = listed
	}

	if r.registry != nil {
		r.registry.AssetsScored.Inc()
	}

	adjusted := r.adjuster.Adjust(analysis, state)
	return &adjusted, nil
}

// analyzeOne is the batch wrapper around Analyze: a failed asset is
// logged and counted, never fatal. A nil return means dropped.
func (r *Ranker) analyzeOne(ctx context.Context, snapshot market.AssetSnapshot, state cycle.DominanceState) *cycle.AdjustedAnalysis {
	adjusted, err := r.Analyze(ctx, snapshot, state)
	if err != nil {
		log.Warn().
			Err(err).
			Str("symbol", snapshot.Symbol).
			Msg("dropping asset from scan")
		if r.registry != nil {
			r.registry.AssetsDropped.WithLabelValues(dropReason(err)).Inc()
		}
		return nil
	}
	return adjusted
}

func dropReason(err error) string {
	switch {
	case market.IsInvalidInput(err):
		return "invalid_input"
	case market.IsUpstream(err):
		return "upstream_failure"
	default:
		return "other"
	}
}
