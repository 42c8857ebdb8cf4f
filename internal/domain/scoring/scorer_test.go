package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinscout/coinscout/internal/domain/market"
)

func snapshotFor(t *testing.T, marketCap, volume float64, changes [4]float64) market.AssetSnapshot {
	t.Helper()
	return market.AssetSnapshot{
		Symbol:    "TEST",
		Name:      "Test Asset",
		Price:     1.0,
		MarketCap: marketCap,
		Volume24h: volume,
		Change1h:  changes[0],
		Change24h: changes[1],
		Change7d:  changes[2],
		Change30d: changes[3],
	}
}

func TestAnalyze_ScoreAndReturnStayInBounds(t *testing.T) {
	scorer := NewScorer(nil)

	caps := []float64{1e6, 5e7, 3e8, 2e9, 5e10, 1e11, 1e12, 5e12}
	changeSets := [][4]float64{
		{0, 0, 0, 0},
		{1, 5, 10, 20},
		{-30, -40, -50, -60},
		{80, -70, 60, -50},
		{0.1, -0.1, 0.2, -0.2},
	}

	for _, cap := range caps {
		for _, changes := range changeSets {
			for _, volume := range []float64{0, cap * 0.01, cap * 0.3, cap * 2} {
				analysis, err := scorer.Analyze(snapshotFor(t, cap, volume, changes))
				require.NoError(t, err)
				assert.GreaterOrEqual(t, analysis.InvestmentScore, 1.0)
				assert.LessOrEqual(t, analysis.InvestmentScore, 10.0)
				assert.GreaterOrEqual(t, analysis.PotentialReturn, 1.0)
				assert.LessOrEqual(t, analysis.PotentialReturn, 10.0)
			}
		}
	}
}

func TestAnalyze_RejectsNonPositiveMarketCap(t *testing.T) {
	scorer := NewScorer(nil)

	for _, cap := range []float64{0, -1, -1e9} {
		_, err := scorer.Analyze(snapshotFor(t, cap, 1e6, [4]float64{1, 2, 3, 4}))
		require.Error(t, err, "market cap %.0f must be rejected", cap)
		assert.True(t, market.IsInvalidInput(err))
	}
}

func TestAnalyze_RejectsMalformedChangeSeries(t *testing.T) {
	scorer := NewScorer(nil)

	snapshot := snapshotFor(t, 1e9, 1e7, [4]float64{1, 2, 3, 4})
	snapshot.Change7d = math.NaN()

	_, err := scorer.Analyze(snapshot)
	require.Error(t, err)
	assert.True(t, market.IsInvalidInput(err))
}

func TestAnalyze_KnownScenario(t *testing.T) {
	scorer := NewScorer(nil)

	// marketCap 1e12, volume 5e10 (ratio 0.05), all-gain change series.
	analysis, err := scorer.Analyze(snapshotFor(t, 1e12, 5e10, [4]float64{1, 5, 10, 20}))
	require.NoError(t, err)

	assert.Equal(t, 1.0, analysis.Metrics.Maturity.Score)
	assert.Equal(t, "Established", analysis.Metrics.Maturity.Category)
	assert.Equal(t, "Low", analysis.Metrics.Volume.Category)
	assert.Equal(t, 1.0, analysis.Metrics.Momentum)

	// Hand-computed composite: maturity 1.2, volume 0.9114, momentum 2.5,
	// stability 0.1074, cap upside -0.2, turnover 0.025.
	assert.InDelta(t, 4.5438, analysis.InvestmentScore, 0.001)
	assert.GreaterOrEqual(t, analysis.InvestmentScore, 1.0)
	assert.LessOrEqual(t, analysis.InvestmentScore, 10.0)
}

func TestAnalyze_IsDeterministic(t *testing.T) {
	scorer := NewScorer(nil)
	snapshot := snapshotFor(t, 7e8, 9e7, [4]float64{-2.5, 4.1, -8.3, 15.0})

	first, err := scorer.Analyze(snapshot)
	require.NoError(t, err)
	second, err := scorer.Analyze(snapshot)
	require.NoError(t, err)

	assert.Equal(t, first, second, "scoring must have no hidden state")
}

func TestRiskLevel_Grading(t *testing.T) {
	scorer := NewScorer(nil)

	// Speculative cap, violent swings, no volume: every risk input maxed.
	risky, err := scorer.Analyze(snapshotFor(t, 1e6, 0, [4]float64{80, -70, 60, -50}))
	require.NoError(t, err)
	assert.Equal(t, RiskHigh, risky.Risk.Level)
	assert.Greater(t, risky.Risk.Score, 0.66)

	// Established cap, calm series, saturated volume: minimal risk.
	calm, err := scorer.Analyze(snapshotFor(t, 5e11, 3e11, [4]float64{0.1, 0.2, -0.1, 0.3}))
	require.NoError(t, err)
	assert.Equal(t, RiskLow, calm.Risk.Level)
	assert.LessOrEqual(t, calm.Risk.Score, 0.33)
}

func TestPotentialReturn_FavorsSmallerCaps(t *testing.T) {
	scorer := NewScorer(nil)
	changes := [4]float64{2, 4, 6, 8}

	small, err := scorer.Analyze(snapshotFor(t, 6e7, 6e6, changes))
	require.NoError(t, err)
	large, err := scorer.Analyze(snapshotFor(t, 8e11, 8e10, changes))
	require.NoError(t, err)

	assert.Greater(t, small.PotentialReturn, large.PotentialReturn,
		"same volume ratio and momentum, smaller cap has more room to run")
}
