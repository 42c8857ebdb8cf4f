package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidate_RejectsBadWeightSum(t *testing.T) {
	config := DefaultConfig()
	config.Weights.Momentum = 0.50 // composite now sums to 1.25

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "composite weights sum")
}

func TestValidate_RejectsNegativeWeight(t *testing.T) {
	config := DefaultConfig()
	config.Weights.Turnover = -0.10
	config.Weights.Momentum = 0.45 // keep the sum at 1.0

	require.Error(t, config.Validate())
}

func TestValidate_RejectsDisorderedRiskCutoffs(t *testing.T) {
	config := DefaultConfig()
	config.RiskMediumAbove = 0.70

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "risk cutoffs out of order")
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	yaml := `
weights:
  maturity: 0.25
  volume: 0.20
  momentum: 0.20
  stability: 0.15
  cap_upside: 0.10
  turnover: 0.10
reference_cap: 2.0e11
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 0.25, config.Weights.Maturity)
	assert.Equal(t, 2.0e11, config.ReferenceCap)
	assert.Equal(t, 0.40, config.Risk.Volatility, "untouched sections keep defaults")
}

func TestLoadConfig_RejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	yaml := `
weights:
  maturity: 0.90
  volume: 0.90
  momentum: 0.20
  stability: 0.15
  cap_upside: 0.10
  turnover: 0.10
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
