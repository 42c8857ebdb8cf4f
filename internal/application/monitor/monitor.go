package monitor

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coinscout/coinscout/internal/application/pipeline"
)

// Config tunes the periodic market monitor.
type Config struct {
	Interval      time.Duration `yaml:"interval"`        // time between scans
	AlertMovePct  float64       `yaml:"alert_move_pct"`  // 24h move that triggers an alert log
	RunOnStart    bool          `yaml:"run_on_start"`    // run one scan before the first tick
}

// DefaultConfig returns the production monitor settings.
func DefaultConfig() Config {
	return Config{
		Interval:     5 * time.Minute,
		AlertMovePct: 10.0,
		RunOnStart:   true,
	}
}

// Scanner is the slice of the pipeline the monitor drives.
type Scanner interface {
	Scan(ctx context.Context) (*pipeline.ScanResult, error)
}

// Monitor runs ranking scans on a fixed cadence until its context is
// cancelled. It replaces a fire-and-forget sleep loop with an explicit
// task: the ticker comes from an injectable clock and Run returns as
// soon as the context ends.
type Monitor struct {
	scanner Scanner
	clock   Clock
	config  Config
}

// New creates a monitor. A nil clock uses the real one.
func New(scanner Scanner, clock Clock, config Config) *Monitor {
	if clock == nil {
		clock = RealClock{}
	}
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	return &Monitor{scanner: scanner, clock: clock, config: config}
}

// Run executes scans until ctx is cancelled. Scan failures are logged
// and the loop continues; only cancellation stops it.
func (m *Monitor) Run(ctx context.Context) error {
	log.Info().
		Dur("interval", m.config.Interval).
		Float64("alert_move_pct", m.config.AlertMovePct).
		Msg("market monitor started")

	if m.config.RunOnStart {
		m.runOnce(ctx)
	}

	ticker := m.clock.NewTicker(m.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("market monitor stopped")
			return ctx.Err()
		case <-ticker.C():
			m.runOnce(ctx)
		}
	}
}

func (m *Monitor) runOnce(ctx context.Context) {
	result, err := m.scanner.Scan(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Error().Err(err).Msg("monitor scan failed")
		return
	}

	for _, opportunity := range result.Opportunities {
		move := opportunity.Snapshot.Change24h
		if math.Abs(move) >= m.config.AlertMovePct {
			log.Warn().
				Str("symbol", opportunity.Snapshot.Symbol).
				Float64("change_24h", move).
				Float64("adjusted_score", opportunity.AdjustedScore).
				Msg(fmt.Sprintf("large 24h move (>= %.1f%%)", m.config.AlertMovePct))
		}
	}
}
