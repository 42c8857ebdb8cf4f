package scoring

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coinscout/coinscout/internal/domain/metrics"
)

// Weights allocates the composite investment score across the six
// sub-metric components. The six weights must sum to 1.0.
type Weights struct {
	Maturity  float64 `yaml:"maturity"`   // maturity tier, inverted so established caps score higher
	Volume    float64 `yaml:"volume"`     // volume health score
	Momentum  float64 `yaml:"momentum"`   // RSI-style oscillator
	Stability float64 `yaml:"stability"`  // inverse volatility
	CapUpside float64 `yaml:"cap_upside"` // room to grow vs the reference cap
	Turnover  float64 `yaml:"turnover"`   // raw volume/cap ratio
}

// RiskWeights allocates the [0,1] risk score across its three inputs.
type RiskWeights struct {
	Volatility  float64 `yaml:"volatility"`
	Maturity    float64 `yaml:"maturity"`
	Illiquidity float64 `yaml:"illiquidity"`
}

// ReturnWeights allocates the potential-return estimate.
type ReturnWeights struct {
	CapUpside  float64 `yaml:"cap_upside"`
	Volume     float64 `yaml:"volume"`
	Momentum   float64 `yaml:"momentum"`
	Maturity   float64 `yaml:"maturity"`
	CapDamping float64 `yaml:"cap_damping"` // damping applied to the cap-upside log term
}

// Config carries every weight and bound the scorer uses. It is fixed at
// construction; overriding a value in tests never touches the algorithm.
type Config struct {
	Weights Weights       `yaml:"weights"`
	Risk    RiskWeights   `yaml:"risk"`
	Return  ReturnWeights `yaml:"return"`

	// ReferenceCap anchors the cap-upside term: assets far below it have
	// more room to grow.
	ReferenceCap float64 `yaml:"reference_cap"`

	// Composite and potential-return bounds.
	MinScore float64 `yaml:"min_score"`
	MaxScore float64 `yaml:"max_score"`

	// Risk level cutoffs over the [0,1] risk score.
	RiskHighAbove   float64 `yaml:"risk_high_above"`
	RiskMediumAbove float64 `yaml:"risk_medium_above"`

	WeightSumTolerance float64 `yaml:"weight_sum_tolerance"`

	Thresholds metrics.Thresholds `yaml:"thresholds"`
}

// DefaultConfig returns the production scoring configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Maturity:  0.20,
			Volume:    0.20,
			Momentum:  0.25,
			Stability: 0.15,
			CapUpside: 0.10,
			Turnover:  0.10,
		},
		Risk: RiskWeights{
			Volatility:  0.40,
			Maturity:    0.30,
			Illiquidity: 0.30,
		},
		Return: ReturnWeights{
			CapUpside:  0.40,
			Volume:     0.20,
			Momentum:   0.20,
			Maturity:   0.20,
			CapDamping: 0.50,
		},
		ReferenceCap:       1e11,
		MinScore:           1.0,
		MaxScore:           10.0,
		RiskHighAbove:      0.66,
		RiskMediumAbove:    0.33,
		WeightSumTolerance: 0.001,
		Thresholds:         metrics.DefaultThresholds(),
	}
}

// LoadConfig reads a scoring configuration from a YAML file, fills in
// defaults for omitted sections, and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate checks that the weight allocations are internally consistent.
func (c *Config) Validate() error {
	compositeSum := c.Weights.Maturity + c.Weights.Volume + c.Weights.Momentum +
		c.Weights.Stability + c.Weights.CapUpside + c.Weights.Turnover
	if math.Abs(compositeSum-1.0) > c.WeightSumTolerance {
		return fmt.Errorf("composite weights sum %.4f outside tolerance %.4f of 1.0",
			compositeSum, c.WeightSumTolerance)
	}

	riskSum := c.Risk.Volatility + c.Risk.Maturity + c.Risk.Illiquidity
	if math.Abs(riskSum-1.0) > c.WeightSumTolerance {
		return fmt.Errorf("risk weights sum %.4f outside tolerance %.4f of 1.0",
			riskSum, c.WeightSumTolerance)
	}

	for name, w := range map[string]float64{
		"maturity":   c.Weights.Maturity,
		"volume":     c.Weights.Volume,
		"momentum":   c.Weights.Momentum,
		"stability":  c.Weights.Stability,
		"cap_upside": c.Weights.CapUpside,
		"turnover":   c.Weights.Turnover,
	} {
		if w < 0 {
			return fmt.Errorf("%s weight cannot be negative: %.4f", name, w)
		}
	}

	if c.ReferenceCap <= 0 {
		return fmt.Errorf("reference cap must be positive: %.2f", c.ReferenceCap)
	}
	if c.MinScore >= c.MaxScore {
		return fmt.Errorf("min score %.2f must be below max score %.2f", c.MinScore, c.MaxScore)
	}
	if c.RiskMediumAbove >= c.RiskHighAbove {
		return fmt.Errorf("risk cutoffs out of order: medium %.2f, high %.2f",
			c.RiskMediumAbove, c.RiskHighAbove)
	}

	return nil
}
