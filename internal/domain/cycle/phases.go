package cycle

// PhaseName identifies a macro market-cycle phase derived from BTC's
// dominance share of total market capitalization.
type PhaseName string

const (
	PhaseBTCDominance  PhaseName = "btc_dominance"
	PhaseAltcoinSeason PhaseName = "altcoin_season"
	PhaseTransition    PhaseName = "transition"
	PhaseAccumulation  PhaseName = "accumulation"
)

// Named boundary constants for the classification rule table. The
// transition ceiling and the accumulation floor are both 45: a dominance
// of exactly 45 resolves to accumulation because the transition rule is
// strictly-less-than. That boundary is pinned by a test and must not
// change silently.
const (
	btcDominanceFloor    = 60.0
	altcoinSeasonCeiling = 35.0
	transitionCeiling    = 45.0
)

// Impact multipliers applied while the respective phase holds. The pair
// models zero-sum rotation: btc + altcoin always equals 2.
const (
	btcFavoredImpact  = 1.2
	btcPressureImpact = 0.8
	neutralImpact     = 1.0
)

// Phase describes one market-cycle phase.
type Phase struct {
	Name        PhaseName `json:"name"`
	Strength    string    `json:"strength"` // "high" or "medium"
	Description string    `json:"description"`
}

// Impact carries the per-side score multipliers for a phase.
type Impact struct {
	BTCImpact     float64 `json:"btc_impact"`
	AltcoinImpact float64 `json:"altcoin_impact"`
}

// Recommendation is the fixed guidance template attached to a phase.
type Recommendation struct {
	Type       string `json:"type"`
	Action     string `json:"action"`
	Confidence string `json:"confidence"`
}

// DominanceState is the full classification of one dominance reading.
// It is fetched once per scan and shared immutably across every
// per-asset adjustment in that scan.
type DominanceState struct {
	CurrentDominance float64        `json:"current_dominance"`
	Phase            Phase          `json:"phase"`
	Impact           Impact         `json:"impact"`
	Recommendation   Recommendation `json:"recommendation"`
}

// ImpactFor returns the multiplier that applies to the given symbol
// under this state: the BTC side for BTC itself, the altcoin side for
// everything else.
func (s DominanceState) ImpactFor(symbol string) float64 {
	if symbol == BTCSymbol {
		return s.Impact.BTCImpact
	}
	return s.Impact.AltcoinImpact
}

// BTCSymbol is the ticker the adjuster treats as the dominance side.
const BTCSymbol = "BTC"

var recommendations = map[PhaseName]Recommendation{
	PhaseBTCDominance: {
		Type:       "defensive",
		Action:     "Rotate toward BTC; altcoins face headwinds while dominance holds above 60%",
		Confidence: "high",
	},
	PhaseAltcoinSeason: {
		Type:       "aggressive",
		Action:     "Favor quality altcoins; capital is rotating out of BTC",
		Confidence: "high",
	},
	PhaseTransition: {
		Type:       "cautious",
		Action:     "Rotation signals are mixed; keep position sizes small",
		Confidence: "medium",
	},
	PhaseAccumulation: {
		Type:       "neutral",
		Action:     "Accumulate majors on both sides; no rotation edge either way",
		Confidence: "medium",
	},
}
