package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/coinscout/coinscout/internal/domain/cycle"
	"github.com/coinscout/coinscout/internal/domain/market"
	"github.com/coinscout/coinscout/internal/telemetry/metrics"
)

// MarketDataProvider supplies quotes, listings, and the BTC dominance
// reading. Implementations own retry and rate-limit policy; the scanner
// treats their errors as upstream failures.
type MarketDataProvider interface {
	Quote(ctx context.Context, symbol string) (market.AssetSnapshot, error)
	Listings(ctx context.Context, limit int, sortKey, sortDir string) ([]market.AssetSnapshot, error)
	Dominance(ctx context.Context) (float64, error)
}

// ScanConfig tunes a full ranking scan.
type ScanConfig struct {
	Limit       int    `yaml:"limit"`        // listings page size
	TopK        int    `yaml:"top_k"`        // opportunities to keep
	SortKey     string `yaml:"sort_key"`     // listings sort field
	SortDir     string `yaml:"sort_dir"`     // asc or desc
	ArtifactDir string `yaml:"artifact_dir"` // empty disables artifacts
}

// DefaultScanConfig returns the production scan settings.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Limit:   100,
		TopK:    DefaultTopK,
		SortKey: "market_cap",
		SortDir: "desc",
	}
}

// ScanResult is the output of one full ranking scan.
type ScanResult struct {
	ScanID        string                   `json:"scan_id"`
	StartedAt     time.Time                `json:"started_at"`
	Duration      time.Duration            `json:"duration"`
	Dominance     cycle.DominanceState     `json:"dominance"`
	Opportunities []cycle.AdjustedAnalysis `json:"opportunities"`
	TotalAssets   int                      `json:"total_assets"`
	DroppedAssets int                      `json:"dropped_assets"`
}

// Scanner orchestrates the full flow: fetch listings, fetch and classify
// the dominance reading exactly once, rank the batch, record telemetry,
// and optionally write a JSON artifact.
type Scanner struct {
	data     MarketDataProvider
	analyzer *cycle.Analyzer
	ranker   *Ranker
	config   ScanConfig
	registry *metrics.Registry
}

// NewScanner wires a scanner from its collaborators.
func NewScanner(data MarketDataProvider, analyzer *cycle.Analyzer, ranker *Ranker, config ScanConfig) *Scanner {
	if config.Limit <= 0 {
		config.Limit = DefaultScanConfig().Limit
	}
	if config.SortKey == "" {
		config.SortKey = DefaultScanConfig().SortKey
	}
	if config.SortDir == "" {
		config.SortDir = DefaultScanConfig().SortDir
	}
	return &Scanner{data: data, analyzer: analyzer, ranker: ranker, config: config}
}

// SetMetrics attaches the telemetry registry.
func (s *Scanner) SetMetrics(registry *metrics.Registry) {
	s.registry = registry
	s.ranker.SetMetrics(registry)
}

// Scan runs one full ranking scan. The dominance fetch is load-bearing:
// if it fails the scan fails, there is no default multiplier. Per-asset
// failures are isolated inside the ranker.
func (s *Scanner) Scan(ctx context.Context) (*ScanResult, error) {
	startedAt := time.Now()
	scanID := uuid.NewString()

	snapshots, err := s.data.Listings(ctx, s.config.Limit, s.config.SortKey, s.config.SortDir)
	if err != nil {
		return nil, fmt.Errorf("listings fetch failed: %w", err)
	}

	state, err := s.fetchDominance(ctx)
	if err != nil {
		return nil, err
	}

	ranked, dropped, err := s.ranker.Rank(ctx, snapshots, state, s.config.TopK)
	if err != nil {
		return nil, fmt.Errorf("ranking failed: %w", err)
	}

	result := &ScanResult{
		ScanID:        scanID,
		StartedAt:     startedAt,
		Duration:      time.Since(startedAt),
		Dominance:     state,
		Opportunities: ranked,
		TotalAssets:   len(snapshots),
		DroppedAssets: dropped,
	}

	if s.registry != nil {
		s.registry.ScansTotal.Inc()
		s.registry.ScanDuration.Observe(result.Duration.Seconds())
	}

	log.Info().
		Str("scan_id", scanID).
		Int("total_assets", result.TotalAssets).
		Int("dropped_assets", result.DroppedAssets).
		Int("opportunities", len(ranked)).
		Str("phase", string(state.Phase.Name)).
		Dur("duration", result.Duration).
		Msg("ranking scan complete")

	if s.config.ArtifactDir != "" {
		if err := s.writeArtifact(result); err != nil {
			log.Warn().Err(err).Str("scan_id", scanID).Msg("failed to write scan artifact")
		}
	}

	return result, nil
}

// AnalyzeSymbol scores a single symbol with fresh quote and dominance
// data. Unlike batch scans, any failure here propagates to the caller.
func (s *Scanner) AnalyzeSymbol(ctx context.Context, symbol string) (*cycle.AdjustedAnalysis, error) {
	snapshot, err := s.data.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	state, err := s.fetchDominance(ctx)
	if err != nil {
		return nil, err
	}

	return s.ranker.Analyze(ctx, snapshot, state)
}

// fetchDominance pulls and classifies the dominance reading. Called at
// most once per scan.
func (s *Scanner) fetchDominance(ctx context.Context) (cycle.DominanceState, error) {
	dominance, err := s.data.Dominance(ctx)
	if err != nil {
		return cycle.DominanceState{}, fmt.Errorf("dominance fetch failed: %w", err)
	}

	state, err := s.analyzer.Classify(dominance)
	if err != nil {
		return cycle.DominanceState{}, fmt.Errorf("dominance classification failed: %w", err)
	}

	if s.registry != nil {
		s.registry.DominanceReading.Set(dominance)
	}

	return state, nil
}

// writeArtifact persists the scan result as an indented JSON file named
// after the scan ID.
func (s *Scanner) writeArtifact(result *ScanResult) error {
	if err := os.MkdirAll(s.config.ArtifactDir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(s.config.ArtifactDir, fmt.Sprintf("scan_%s.json", result.ScanID))
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
