package metrics

import (
	"math"

	"github.com/coinscout/coinscout/internal/domain/market"
)

// MaturityMetric grades market cap size: lower score means a more
// established asset.
type MaturityMetric struct {
	Score    float64 `json:"score"`
	Category string  `json:"category"`
}

// VolumeMetric grades turnover relative to market cap on a [0,1] scale.
type VolumeMetric struct {
	Score    float64 `json:"score"`
	Category string  `json:"category"`
	Ratio    float64 `json:"ratio"`
}

// VolatilityMetric grades dispersion of the percent-change series.
type VolatilityMetric struct {
	Score    float64 `json:"score"`
	Category string  `json:"category"`
	StdDev   float64 `json:"std_dev"`
}

// MetricSet bundles every sub-metric computed for one snapshot.
type MetricSet struct {
	Maturity   MaturityMetric   `json:"market_maturity"`
	Volume     VolumeMetric     `json:"volume_health"`
	Momentum   float64          `json:"momentum"`
	Volatility VolatilityMetric `json:"volatility"`
}

// Calculator computes sub-metrics from raw snapshot fields. All methods
// are pure; the only state is the threshold table fixed at construction.
type Calculator struct {
	thresholds Thresholds
}

// NewCalculator creates a calculator with the given thresholds. A zero
// Thresholds value falls back to the production defaults.
func NewCalculator(thresholds Thresholds) *Calculator {
	if len(thresholds.MaturityTiers) == 0 {
		thresholds = DefaultThresholds()
	}
	return &Calculator{thresholds: thresholds}
}

// Compute evaluates the full metric set for one snapshot.
func (c *Calculator) Compute(snapshot market.AssetSnapshot) MetricSet {
	changes := snapshot.Changes()
	return MetricSet{
		Maturity:   c.MarketMaturity(snapshot.MarketCap),
		Volume:     c.VolumeHealth(snapshot.VolumeRatio()),
		Momentum:   c.Momentum(changes),
		Volatility: c.Volatility(changes),
	}
}

// MarketMaturity buckets market cap into the tier table. The first tier
// whose floor is met wins, so ordering in the table is significant.
func (c *Calculator) MarketMaturity(marketCap float64) MaturityMetric {
	for _, tier := range c.thresholds.MaturityTiers {
		if marketCap >= tier.MinCap {
			return MaturityMetric{Score: tier.Score, Category: tier.Category}
		}
	}
	// Unreachable with a well-formed table (last tier floors at 0), but
	// negative caps still need a defined answer.
	last := c.thresholds.MaturityTiers[len(c.thresholds.MaturityTiers)-1]
	return MaturityMetric{Score: last.Score, Category: last.Category}
}

// VolumeHealth scores the volume/market-cap ratio on a log curve that
// saturates at the exceptional ceiling. The category is judged on the
// unclamped ratio so a 0.80 turnover still reads Exceptional even though
// its score is pinned at 1.0.
func (c *Calculator) VolumeHealth(ratio float64) VolumeMetric {
	ceiling := c.thresholds.VolumeCeilingRatio

	clamped := ratio
	if clamped > ceiling {
		clamped = ceiling
	}
	if clamped < 0 {
		clamped = 0
	}

	score := math.Log10(clamped*100+1) / math.Log10(ceiling*100+1)

	var category string
	switch {
	case ratio >= ceiling:
		category = VolumeExceptional
	case ratio >= c.thresholds.VolumeStrongRatio:
		category = VolumeStrong
	case ratio >= c.thresholds.VolumeHealthyRatio:
		category = VolumeHealthy
	default:
		category = VolumeLow
	}

	return VolumeMetric{Score: score, Category: category, Ratio: ratio}
}

// Momentum computes an RSI-style oscillator over the percent-change
// series, rescaled to [0,1]. A series with no losses scores 1: there is
// no observed downside to weigh against the gains. An empty series also
// scores 1 for the same reason.
func (c *Calculator) Momentum(changes []float64) float64 {
	var gainSum, lossSum float64
	var gainN, lossN int

	for _, change := range changes {
		if change > 0 {
			gainSum += change
			gainN++
		} else if change < 0 {
			lossSum += -change
			lossN++
		}
	}

	avgGain := 0.0
	if gainN > 0 {
		avgGain = gainSum / float64(gainN)
	}
	avgLoss := 0.0
	if lossN > 0 {
		avgLoss = lossSum / float64(lossN)
	}

	if avgLoss == 0 {
		return 1.0
	}

	rs := avgGain / avgLoss
	return (100 - 100/(1+rs)) / 100
}

// Volatility measures the population standard deviation of the change
// series and scales it so that one full VolatilityScale of stddev maps
// to a score of 1. Empty and single-element series yield stddev 0.
func (c *Calculator) Volatility(changes []float64) VolatilityMetric {
	stdDev := populationStdDev(changes)
	score := math.Min(stdDev/c.thresholds.VolatilityScale, 1.0)

	var category string
	switch {
	case stdDev > c.thresholds.VolatilityHigh:
		category = VolatilityHighCat
	case stdDev > c.thresholds.VolatilityMedium:
		category = VolatilityMediumCat
	default:
		category = VolatilityLowCat
	}

	return VolatilityMetric{Score: score, Category: category, StdDev: stdDev}
}

func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))

	return math.Sqrt(variance)
}
