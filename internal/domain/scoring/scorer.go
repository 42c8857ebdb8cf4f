package scoring

import (
	"math"

	"github.com/coinscout/coinscout/internal/domain/market"
	"github.com/coinscout/coinscout/internal/domain/metrics"
)

// Risk level labels.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// RiskLevel grades an asset's risk on a [0,1] score with a label.
type RiskLevel struct {
	Level string  `json:"level"`
	Score float64 `json:"score"`
}

// InvestmentAnalysis is the full scoring result for one asset before
// any market-cycle adjustment is applied. It is a value object: built
// once per request and never mutated afterwards.
type InvestmentAnalysis struct {
	Snapshot market.AssetSnapshot `json:"snapshot"`
	Metrics  metrics.MetricSet    `json:"metrics"`

	InvestmentScore float64   `json:"investment_score"` // 1-10 composite
	Risk            RiskLevel `json:"risk"`
	PotentialReturn float64   `json:"potential_return"` // 1-10 upside estimate

	// Components records each weighted contribution to the composite
	// for attribution in reports.
	Components map[string]float64 `json:"components"`

	// OnCoinbase comes from an external listing lookup; it is display
	// metadata, never a scoring input.
	OnCoinbase bool `json:"on_coinbase"`
}

// Scorer combines sub-metrics into the composite investment score, risk
// level, and potential return. All methods are pure and deterministic.
type Scorer struct {
	config *Config
	calc   *metrics.Calculator
}

// NewScorer creates a scorer. A nil config uses the production defaults;
// the metric calculator is built from the config's thresholds.
func NewScorer(config *Config) *Scorer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Scorer{
		config: config,
		calc:   metrics.NewCalculator(config.Thresholds),
	}
}

// Analyze validates the snapshot, computes the metric set, and derives
// the composite score, risk level, and potential return. Non-positive
// market cap is rejected before any logarithm can turn it into NaN.
func (s *Scorer) Analyze(snapshot market.AssetSnapshot) (*InvestmentAnalysis, error) {
	if err := validateSnapshot(snapshot); err != nil {
		return nil, err
	}

	set := s.calc.Compute(snapshot)
	ratio := snapshot.VolumeRatio()

	components := map[string]float64{
		"maturity":   s.config.Weights.Maturity * (4 - set.Maturity.Score) * 2,
		"volume":     s.config.Weights.Volume * set.Volume.Score * 10,
		"momentum":   s.config.Weights.Momentum * set.Momentum * 10,
		"stability":  s.config.Weights.Stability * math.Max(0, 1-set.Volatility.Score),
		"cap_upside": s.config.Weights.CapUpside * math.Min(10, s.capUpside(snapshot.MarketCap)),
		"turnover":   s.config.Weights.Turnover * math.Min(10, ratio*5),
	}

	composite := 0.0
	for _, contribution := range components {
		composite += contribution
	}

	return &InvestmentAnalysis{
		Snapshot:        snapshot,
		Metrics:         set,
		InvestmentScore: s.clampScore(composite),
		Risk:            s.riskLevel(set),
		PotentialReturn: s.potentialReturn(snapshot.MarketCap, set),
		Components:      components,
	}, nil
}

// capUpside measures how far below the reference cap the asset sits, in
// scaled orders of magnitude. Negative for assets above the reference.
func (s *Scorer) capUpside(marketCap float64) float64 {
	return math.Log10(s.config.ReferenceCap/marketCap) * 2
}

// riskLevel blends volatility, immaturity, and illiquidity into a [0,1]
// score, then grades it against the configured cutoffs.
func (s *Scorer) riskLevel(set metrics.MetricSet) RiskLevel {
	score := s.config.Risk.Volatility*set.Volatility.Score +
		s.config.Risk.Maturity*(set.Maturity.Score/3) +
		s.config.Risk.Illiquidity*(1-set.Volume.Score)

	level := RiskLow
	switch {
	case score > s.config.RiskHighAbove:
		level = RiskHigh
	case score > s.config.RiskMediumAbove:
		level = RiskMedium
	}

	return RiskLevel{Level: level, Score: score}
}

// potentialReturn estimates upside on a 1-10 scale, dominated by the
// damped cap-upside term.
func (s *Scorer) potentialReturn(marketCap float64, set metrics.MetricSet) float64 {
	r := s.config.Return
	raw := 10 * (r.CapUpside*math.Log10(s.config.ReferenceCap/marketCap)*r.CapDamping +
		r.Volume*set.Volume.Score +
		r.Momentum*set.Momentum +
		r.Maturity*(4-set.Maturity.Score)/3)
	return s.clampScore(raw)
}

func (s *Scorer) clampScore(score float64) float64 {
	return math.Min(s.config.MaxScore, math.Max(s.config.MinScore, score))
}

func validateSnapshot(snapshot market.AssetSnapshot) error {
	if snapshot.MarketCap <= 0 {
		return market.NewInvalidInput("market_cap", "must be positive")
	}
	if math.IsNaN(snapshot.MarketCap) || math.IsInf(snapshot.MarketCap, 0) {
		return market.NewInvalidInput("market_cap", "is not finite")
	}
	if snapshot.Volume24h < 0 || math.IsNaN(snapshot.Volume24h) || math.IsInf(snapshot.Volume24h, 0) {
		return market.NewInvalidInput("volume_24h", "must be a non-negative finite number")
	}
	for _, change := range snapshot.Changes() {
		if math.IsNaN(change) || math.IsInf(change, 0) {
			return market.NewInvalidInput("percent_changes", "contain a non-finite value")
		}
	}
	return nil
}
