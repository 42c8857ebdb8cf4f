package cycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinscout/coinscout/internal/domain/market"
	"github.com/coinscout/coinscout/internal/domain/scoring"
)

func analysisFor(t *testing.T, symbol string) *scoring.InvestmentAnalysis {
	t.Helper()
	analysis, err := scoring.NewScorer(nil).Analyze(market.AssetSnapshot{
		Symbol:    symbol,
		MarketCap: 5e9,
		Volume24h: 5e8,
		Change1h:  1,
		Change24h: -2,
		Change7d:  4,
		Change30d: -3,
	})
	require.NoError(t, err)
	return analysis
}

func TestAdjust_AltcoinUnderBTCDominance(t *testing.T) {
	state, err := NewAnalyzer().Classify(65)
	require.NoError(t, err)

	analysis := analysisFor(t, "ETH")
	adjusted := NewAdjuster().Adjust(analysis, state)

	assert.InDelta(t, analysis.InvestmentScore*0.8, adjusted.AdjustedScore, 1e-12)
	assert.Less(t, adjusted.AdjustedScore, analysis.InvestmentScore,
		"a non-unit impact must strictly change the score")
	assert.Equal(t, state, adjusted.Dominance, "full dominance state travels with the result")
}

func TestAdjust_BTCUnderBTCDominance(t *testing.T) {
	state, err := NewAnalyzer().Classify(65)
	require.NoError(t, err)

	analysis := analysisFor(t, "BTC")
	adjusted := NewAdjuster().Adjust(analysis, state)

	assert.InDelta(t, analysis.InvestmentScore*1.2, adjusted.AdjustedScore, 1e-12)
	assert.Greater(t, adjusted.AdjustedScore, analysis.InvestmentScore)
}

func TestAdjust_NeutralPhaseKeepsScore(t *testing.T) {
	state, err := NewAnalyzer().Classify(50)
	require.NoError(t, err)

	analysis := analysisFor(t, "SOL")
	adjusted := NewAdjuster().Adjust(analysis, state)

	assert.Equal(t, analysis.InvestmentScore, adjusted.AdjustedScore)
}

func TestAdjust_PreservesBaseAnalysis(t *testing.T) {
	state, err := NewAnalyzer().Classify(30)
	require.NoError(t, err)

	analysis := analysisFor(t, "ADA")
	adjusted := NewAdjuster().Adjust(analysis, state)

	assert.Equal(t, *analysis, adjusted.InvestmentAnalysis,
		"adjustment wraps the base analysis without mutating it")
	assert.Equal(t, analysis.InvestmentScore, adjusted.InvestmentScore)
}
