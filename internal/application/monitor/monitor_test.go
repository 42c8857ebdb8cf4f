package monitor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinscout/coinscout/internal/application/pipeline"
)

type fakeClock struct {
	ticks chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{ticks: make(chan time.Time)}
}

func (f *fakeClock) NewTicker(d time.Duration) Ticker { return &fakeTicker{ticks: f.ticks} }

func (f *fakeClock) tick() { f.ticks <- time.Now() }

type fakeTicker struct {
	ticks chan time.Time
}

func (t *fakeTicker) C() <-chan time.Time { return t.ticks }
func (t *fakeTicker) Stop()               {}

type fakeScanner struct {
	scans  chan struct{}
	result *pipeline.ScanResult
	err    error
}

func newFakeScanner() *fakeScanner {
	return &fakeScanner{
		scans:  make(chan struct{}, 16),
		result: &pipeline.ScanResult{},
	}
}

func (f *fakeScanner) Scan(ctx context.Context) (*pipeline.ScanResult, error) {
	f.scans <- struct{}{}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func waitForScan(t *testing.T, scanner *fakeScanner) {
	t.Helper()
	select {
	case <-scanner.scans:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a scan")
	}
}

func TestRun_ScansOnEachTickUntilCancelled(t *testing.T) {
	clock := newFakeClock()
	scanner := newFakeScanner()
	m := New(scanner, clock, Config{Interval: time.Minute, RunOnStart: true})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	// One scan up front, then one per injected tick.
	waitForScan(t, scanner)
	clock.tick()
	waitForScan(t, scanner)
	clock.tick()
	waitForScan(t, scanner)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop on cancel")
	}
}

func TestRun_ContinuesAfterScanFailure(t *testing.T) {
	clock := newFakeClock()
	scanner := newFakeScanner()
	scanner.err = fmt.Errorf("upstream down")
	m := New(scanner, clock, Config{Interval: time.Minute, RunOnStart: true})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	waitForScan(t, scanner)
	clock.tick()
	waitForScan(t, scanner)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestRun_SkipsInitialScanWhenDisabled(t *testing.T) {
	clock := newFakeClock()
	scanner := newFakeScanner()
	m := New(scanner, clock, Config{Interval: time.Minute, RunOnStart: false})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	select {
	case <-scanner.scans:
		t.Fatal("no scan should run before the first tick")
	case <-time.After(50 * time.Millisecond):
	}

	clock.tick()
	waitForScan(t, scanner)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestNew_DefaultsZeroInterval(t *testing.T) {
	m := New(newFakeScanner(), nil, Config{})
	assert.Equal(t, DefaultConfig().Interval, m.config.Interval)
}
