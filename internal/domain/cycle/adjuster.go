package cycle

import (
	"github.com/coinscout/coinscout/internal/domain/scoring"
)

// AdjustedAnalysis is an InvestmentAnalysis scaled by the market-cycle
// impact multiplier. It is a distinct type from the base analysis so the
// presence of dominance context is visible at compile time: once a scan
// has a DominanceState, everything downstream ranks and displays the
// adjusted score, never the base one.
type AdjustedAnalysis struct {
	scoring.InvestmentAnalysis

	Dominance     DominanceState `json:"dominance"`
	AdjustedScore float64        `json:"adjusted_score"`
}

// Adjuster applies the phase impact to a base analysis.
type Adjuster struct{}

// NewAdjuster creates an adjuster.
func NewAdjuster() *Adjuster {
	return &Adjuster{}
}

// Adjust scales the investment score by the impact that applies to the
// asset's symbol and attaches the full dominance state for audit. When
// the impact is not 1.0 the adjusted score strictly differs from the
// base score.
func (a *Adjuster) Adjust(analysis *scoring.InvestmentAnalysis, state DominanceState) AdjustedAnalysis {
	impact := state.ImpactFor(analysis.Snapshot.Symbol)
	return AdjustedAnalysis{
		InvestmentAnalysis: *analysis,
		Dominance:          state,
		AdjustedScore:      analysis.InvestmentScore * impact,
	}
}
