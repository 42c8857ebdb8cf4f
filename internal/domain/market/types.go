package market

import "time"

// AssetSnapshot is a point-in-time view of one asset's market data.
// Snapshots are supplied by a data provider and never mutated after
// construction; every derived analysis is recomputed from scratch.
type AssetSnapshot struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	MarketCap float64   `json:"market_cap"`
	Volume24h float64   `json:"volume_24h"`
	Change1h  float64   `json:"percent_change_1h"`
	Change24h float64   `json:"percent_change_24h"`
	Change7d  float64   `json:"percent_change_7d"`
	Change30d float64   `json:"percent_change_30d"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`
}

// Changes returns the percent-change series ordered from the shortest
// to the longest window. Metric calculators operate on this series.
func (s AssetSnapshot) Changes() []float64 {
	return []float64{s.Change1h, s.Change24h, s.Change7d, s.Change30d}
}

// VolumeRatio is the 24h volume divided by market cap, the liquidity
// proxy used across scoring. Returns 0 when market cap is non-positive;
// callers that care must validate the snapshot first.
func (s AssetSnapshot) VolumeRatio() float64 {
	if s.MarketCap <= 0 {
		return 0
	}
	return s.Volume24h / s.MarketCap
}
