package cycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinscout/coinscout/internal/domain/market"
)

func TestClassify_PhaseTable(t *testing.T) {
	analyzer := NewAnalyzer()

	tests := []struct {
		name      string
		dominance float64
		wantPhase PhaseName
		wantStr   string
	}{
		{"deep btc dominance", 72, PhaseBTCDominance, "high"},
		{"btc dominance floor", 60, PhaseBTCDominance, "high"},
		{"documented btc case", 65, PhaseBTCDominance, "high"},
		{"just below dominance", 59.9, PhaseAccumulation, "medium"},
		{"mid accumulation", 52, PhaseAccumulation, "medium"},
		{"upper transition", 44.9, PhaseTransition, "medium"},
		{"lower transition", 36, PhaseTransition, "medium"},
		{"altcoin season ceiling", 35, PhaseAltcoinSeason, "high"},
		{"deep altcoin season", 20, PhaseAltcoinSeason, "high"},
		{"zero dominance", 0, PhaseAltcoinSeason, "high"},
		{"full dominance", 100, PhaseBTCDominance, "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := analyzer.Classify(tt.dominance)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPhase, state.Phase.Name)
			assert.Equal(t, tt.wantStr, state.Phase.Strength)
			assert.Equal(t, tt.dominance, state.CurrentDominance)
		})
	}
}

// Dominance of exactly 45 sits on both the transition ceiling and the
// accumulation floor. Rule order resolves it to accumulation; this test
// pins that behavior.
func TestClassify_BoundaryAt45IsAccumulation(t *testing.T) {
	state, err := NewAnalyzer().Classify(45)
	require.NoError(t, err)
	assert.Equal(t, PhaseAccumulation, state.Phase.Name)
}

func TestClassify_ImpactsAlwaysSumToTwo(t *testing.T) {
	analyzer := NewAnalyzer()

	for dominance := 0.0; dominance <= 100.0; dominance += 0.5 {
		state, err := analyzer.Classify(dominance)
		require.NoError(t, err)
		assert.Equal(t, 2.0, state.Impact.BTCImpact+state.Impact.AltcoinImpact,
			"impacts must sum to 2 at dominance %.1f", dominance)
	}
}

func TestClassify_ImpactBands(t *testing.T) {
	analyzer := NewAnalyzer()

	high, err := analyzer.Classify(65)
	require.NoError(t, err)
	assert.Equal(t, 1.2, high.Impact.BTCImpact)
	assert.Equal(t, 0.8, high.Impact.AltcoinImpact)

	low, err := analyzer.Classify(30)
	require.NoError(t, err)
	assert.Equal(t, 0.8, low.Impact.BTCImpact)
	assert.Equal(t, 1.2, low.Impact.AltcoinImpact)

	neutral, err := analyzer.Classify(50)
	require.NoError(t, err)
	assert.Equal(t, 1.0, neutral.Impact.BTCImpact)
	assert.Equal(t, 1.0, neutral.Impact.AltcoinImpact)
}

func TestClassify_RecommendationTemplates(t *testing.T) {
	analyzer := NewAnalyzer()

	tests := []struct {
		dominance      float64
		wantType       string
		wantConfidence string
	}{
		{70, "defensive", "high"},
		{30, "aggressive", "high"},
		{40, "cautious", "medium"},
		{50, "neutral", "medium"},
	}

	for _, tt := range tests {
		state, err := analyzer.Classify(tt.dominance)
		require.NoError(t, err)
		assert.Equal(t, tt.wantType, state.Recommendation.Type)
		assert.Equal(t, tt.wantConfidence, state.Recommendation.Confidence)
		assert.NotEmpty(t, state.Recommendation.Action)
	}
}

func TestClassify_RejectsOutOfRangeReadings(t *testing.T) {
	analyzer := NewAnalyzer()

	for _, dominance := range []float64{-0.1, 100.1, 500} {
		_, err := analyzer.Classify(dominance)
		require.Error(t, err, "dominance %.1f must be rejected", dominance)
		assert.True(t, market.IsInvalidInput(err))
	}
}

func TestClassify_IsStateless(t *testing.T) {
	analyzer := NewAnalyzer()

	first, err := analyzer.Classify(58)
	require.NoError(t, err)
	// A different reading in between must not affect the next result.
	_, err = analyzer.Classify(20)
	require.NoError(t, err)
	second, err := analyzer.Classify(58)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
