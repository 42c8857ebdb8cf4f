package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinscout/coinscout/internal/domain/market"
)

func TestMarketMaturity_TierBuckets(t *testing.T) {
	calc := NewCalculator(DefaultThresholds())

	tests := []struct {
		name      string
		marketCap float64
		wantScore float64
		wantCat   string
	}{
		{"mega cap", 500e9, 1.0, "Established"},
		{"established floor", 10e9, 1.0, "Established"},
		{"large cap", 5e9, 1.5, "Mature"},
		{"mature floor", 1e9, 1.5, "Mature"},
		{"mid cap", 500e6, 2.0, "Developing"},
		{"developing floor", 250e6, 2.0, "Developing"},
		{"small cap", 100e6, 2.5, "Emerging"},
		{"emerging floor", 50e6, 2.5, "Emerging"},
		{"micro cap", 10e6, 3.0, "Speculative"},
		{"dust", 1, 3.0, "Speculative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.MarketMaturity(tt.marketCap)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantCat, got.Category)
		})
	}
}

func TestVolumeHealth_ScoreSaturatesAtCeiling(t *testing.T) {
	calc := NewCalculator(DefaultThresholds())

	assert.Equal(t, 0.0, calc.VolumeHealth(0).Score, "zero ratio scores zero")
	assert.InDelta(t, 1.0, calc.VolumeHealth(0.50).Score, 1e-9, "ceiling ratio scores 1.0")
	assert.InDelta(t, 1.0, calc.VolumeHealth(0.80).Score, 1e-9, "beyond ceiling stays pinned at 1.0")
}

func TestVolumeHealth_CategoryUsesUnclampedRatio(t *testing.T) {
	calc := NewCalculator(DefaultThresholds())

	assert.Equal(t, VolumeLow, calc.VolumeHealth(0.05).Category)
	assert.Equal(t, VolumeHealthy, calc.VolumeHealth(0.20).Category)
	assert.Equal(t, VolumeStrong, calc.VolumeHealth(0.35).Category)
	assert.Equal(t, VolumeExceptional, calc.VolumeHealth(0.50).Category)
	assert.Equal(t, VolumeExceptional, calc.VolumeHealth(0.80).Category,
		"a 0.80 turnover is Exceptional even though the score is clamped")
}

func TestVolumeHealth_MonotonicOverRatioRange(t *testing.T) {
	calc := NewCalculator(DefaultThresholds())

	prev := -1.0
	for ratio := 0.0; ratio <= 0.50; ratio += 0.005 {
		score := calc.VolumeHealth(ratio).Score
		require.GreaterOrEqual(t, score, prev, "score must not decrease at ratio %.3f", ratio)
		require.GreaterOrEqual(t, score, 0.0)
		require.LessOrEqual(t, score, 1.0)
		prev = score
	}
}

func TestMomentum_RSIStyleOscillator(t *testing.T) {
	calc := NewCalculator(DefaultThresholds())

	assert.Equal(t, 1.0, calc.Momentum(nil), "empty series has no observed downside")
	assert.Equal(t, 1.0, calc.Momentum([]float64{1, 5, 10, 20}), "all gains means no downside")
	assert.Equal(t, 0.0, calc.Momentum([]float64{-1, -5, -10}), "all losses floors at 0")

	// Symmetric gains and losses: RS = 1, oscillator reads exactly 0.5.
	assert.InDelta(t, 0.5, calc.Momentum([]float64{10, -10}), 1e-9)

	// Gains twice the losses: RS = 2, momentum = 2/3.
	assert.InDelta(t, 2.0/3.0, calc.Momentum([]float64{20, -10}), 1e-9)

	// Zeros are neither gains nor losses.
	assert.Equal(t, 1.0, calc.Momentum([]float64{0, 0, 0}))
}

func TestVolatility_StdDevBands(t *testing.T) {
	calc := NewCalculator(DefaultThresholds())

	empty := calc.Volatility(nil)
	assert.Equal(t, 0.0, empty.StdDev, "empty series must not panic")
	assert.Equal(t, 0.0, empty.Score)
	assert.Equal(t, VolatilityLowCat, empty.Category)

	single := calc.Volatility([]float64{42})
	assert.Equal(t, 0.0, single.StdDev, "single value has zero dispersion")
	assert.Equal(t, VolatilityLowCat, single.Category)

	low := calc.Volatility([]float64{10, -10})
	assert.InDelta(t, 10.0, low.StdDev, 1e-9)
	assert.InDelta(t, 0.4, low.Score, 1e-9)
	assert.Equal(t, VolatilityLowCat, low.Category)

	medium := calc.Volatility([]float64{20, -20})
	assert.InDelta(t, 20.0, medium.StdDev, 1e-9)
	assert.Equal(t, VolatilityMediumCat, medium.Category)

	high := calc.Volatility([]float64{30, -30})
	assert.InDelta(t, 30.0, high.StdDev, 1e-9)
	assert.Equal(t, 1.0, high.Score, "score caps at 1.0")
	assert.Equal(t, VolatilityHighCat, high.Category)
}

func TestCompute_KnownSnapshot(t *testing.T) {
	calc := NewCalculator(DefaultThresholds())

	snapshot := market.AssetSnapshot{
		Symbol:    "BTC",
		MarketCap: 1e12,
		Volume24h: 5e10,
		Change1h:  1,
		Change24h: 5,
		Change7d:  10,
		Change30d: 20,
	}

	set := calc.Compute(snapshot)
	assert.Equal(t, 1.0, set.Maturity.Score)
	assert.Equal(t, "Established", set.Maturity.Category)
	assert.InDelta(t, 0.05, set.Volume.Ratio, 1e-9)
	assert.Equal(t, VolumeLow, set.Volume.Category)
	assert.Equal(t, 1.0, set.Momentum, "all-gain series")
}

func TestCompute_IsDeterministic(t *testing.T) {
	calc := NewCalculator(DefaultThresholds())

	snapshot := market.AssetSnapshot{
		Symbol:    "ETH",
		MarketCap: 4e11,
		Volume24h: 2e10,
		Change1h:  -0.5,
		Change24h: 3.2,
		Change7d:  -7.1,
		Change30d: 12.4,
	}

	first := calc.Compute(snapshot)
	second := calc.Compute(snapshot)
	assert.Equal(t, first, second, "pure calculators must be repeatable")
}

func TestNewCalculator_ZeroThresholdsFallBackToDefaults(t *testing.T) {
	calc := NewCalculator(Thresholds{})
	got := calc.MarketMaturity(20e9)
	assert.Equal(t, 1.0, got.Score)
}
