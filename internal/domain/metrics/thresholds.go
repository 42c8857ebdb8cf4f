package metrics

// MaturityTier maps a minimum market cap to a maturity score and label.
// Tiers are evaluated top-down; the first tier whose MinCap is met wins,
// so the slice must stay sorted by MinCap descending.
type MaturityTier struct {
	MinCap   float64 `yaml:"min_cap"`
	Score    float64 `yaml:"score"`
	Category string  `yaml:"category"`
}

// Thresholds holds every cutoff the metric calculators use. It is an
// immutable value passed into NewCalculator, so tests can override a
// single band without touching the algorithms.
type Thresholds struct {
	MaturityTiers []MaturityTier `yaml:"maturity_tiers"`

	// Volume ratio bands. Ceiling is the exceptional level: the health
	// score saturates there, and ratios at or above it are labeled
	// Exceptional.
	VolumeHealthyRatio float64 `yaml:"volume_healthy_ratio"`
	VolumeStrongRatio  float64 `yaml:"volume_strong_ratio"`
	VolumeCeilingRatio float64 `yaml:"volume_ceiling_ratio"`

	// Volatility bands over the stddev of the percent-change series.
	// Scale is the stddev at which the volatility score reaches 1.0.
	VolatilityScale  float64 `yaml:"volatility_scale"`
	VolatilityMedium float64 `yaml:"volatility_medium"`
	VolatilityHigh   float64 `yaml:"volatility_high"`
}

// Volume ratio categories.
const (
	VolumeLow         = "Low"
	VolumeHealthy     = "Healthy"
	VolumeStrong      = "Strong"
	VolumeExceptional = "Exceptional"
)

// Volatility categories.
const (
	VolatilityLowCat    = "Low"
	VolatilityMediumCat = "Medium"
	VolatilityHighCat   = "High"
)

// DefaultThresholds returns the production metric thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaturityTiers: []MaturityTier{
			{MinCap: 10e9, Score: 1.0, Category: "Established"},
			{MinCap: 1e9, Score: 1.5, Category: "Mature"},
			{MinCap: 250e6, Score: 2.0, Category: "Developing"},
			{MinCap: 50e6, Score: 2.5, Category: "Emerging"},
			{MinCap: 0, Score: 3.0, Category: "Speculative"},
		},
		VolumeHealthyRatio: 0.15,
		VolumeStrongRatio:  0.30,
		VolumeCeilingRatio: 0.50,
		VolatilityScale:    25.0,
		VolatilityMedium:   15.0,
		VolatilityHigh:     25.0,
	}
}
