package cycle

import (
	"math"

	"github.com/coinscout/coinscout/internal/domain/market"
)

// classificationRule pairs a predicate with the phase it selects. Rules
// are evaluated top-down and the first match wins, which is what makes
// the 45.0 boundary deterministic.
type classificationRule struct {
	matches func(dominance float64) bool
	phase   Phase
}

// Analyzer classifies a BTC-dominance percentage into a market-cycle
// phase. It is stateless: no transition history is kept, every call is
// a fresh classification.
type Analyzer struct {
	rules []classificationRule
}

// NewAnalyzer builds the analyzer with the production rule table.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		rules: []classificationRule{
			{
				matches: func(d float64) bool { return d >= btcDominanceFloor },
				phase: Phase{
					Name:        PhaseBTCDominance,
					Strength:    "high",
					Description: "BTC is absorbing market share; altcoins underperform",
				},
			},
			{
				matches: func(d float64) bool { return d <= altcoinSeasonCeiling },
				phase: Phase{
					Name:        PhaseAltcoinSeason,
					Strength:    "high",
					Description: "Capital is rotating into altcoins at scale",
				},
			},
			{
				matches: func(d float64) bool { return d < transitionCeiling },
				phase: Phase{
					Name:        PhaseTransition,
					Strength:    "medium",
					Description: "Dominance is drifting down; rotation is underway but unconfirmed",
				},
			},
			{
				// Catch-all for [45, 60).
				matches: func(d float64) bool { return true },
				phase: Phase{
					Name:        PhaseAccumulation,
					Strength:    "medium",
					Description: "Dominance is range-bound; the market is building positions",
				},
			},
		},
	}
}

// Classify maps a dominance percentage to its full DominanceState.
// Readings outside [0,100] are invalid input, not clamped.
func (a *Analyzer) Classify(dominance float64) (DominanceState, error) {
	if math.IsNaN(dominance) || dominance < 0 || dominance > 100 {
		return DominanceState{}, market.NewInvalidInput("dominance", "must be a percentage in [0,100]")
	}

	var phase Phase
	for _, rule := range a.rules {
		if rule.matches(dominance) {
			phase = rule.phase
			break
		}
	}

	return DominanceState{
		CurrentDominance: dominance,
		Phase:            phase,
		Impact:           impactFor(dominance),
		Recommendation:   recommendations[phase.Name],
	}, nil
}

// impactFor derives the zero-sum rotation multipliers. The altcoin side
// is always the complement, so the pair sums to 2 exactly.
func impactFor(dominance float64) Impact {
	btc := neutralImpact
	switch {
	case dominance >= btcDominanceFloor:
		btc = btcFavoredImpact
	case dominance <= altcoinSeasonCeiling:
		btc = btcPressureImpact
	}
	return Impact{BTCImpact: btc, AltcoinImpact: 2 - btc}
}
