package effect

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// TickManager drives Engine.AdvanceAll on a fixed interval.
type TickManager struct {
	engine   *Engine
	interval time.Duration
	stopCh   chan struct{}
	stopOnce atomic.Bool
	ticks    atomic.Uint64
	onReport func(TickReport)
}

// NewTickManager creates a tick manager. onReport, when non-nil, receives
// every non-empty report.
func NewTickManager(engine *Engine, interval time.Duration, onReport func(TickReport)) *TickManager {
	if interval <= 0 {
		interval = time.Second
	}
	return &TickManager{
		engine:   engine,
		interval: interval,
		stopCh:   make(chan struct{}),
		onReport: onReport,
	}
}

// Start runs the tick loop (blocks until context is canceled or Stop).
func (m *TickManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("effect tick manager started", "interval", m.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("effect tick manager stopping", "ticks", m.ticks.Load())
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("effect tick manager stopped", "ticks", m.ticks.Load())
			return nil

		case <-ticker.C:
			m.Step(ctx)
		}
	}
}

// Step advances the whole world by one tick.
func (m *TickManager) Step(ctx context.Context) {
	reports, err := m.engine.AdvanceAll(ctx)
	n := m.ticks.Add(1)
	if err != nil && ctx.Err() == nil {
		slog.Error("effect tick failed", "tick", n, "error", err)
	}
	for _, r := range reports {
		if m.onReport != nil {
			m.onReport(r)
		}
	}
	if len(reports) > 0 {
		slog.Debug("effect tick completed", "tick", n, "actors", len(reports))
	}
}

// Stop stops the tick loop. Safe to call more than once.
func (m *TickManager) Stop() {
	if m.stopOnce.CompareAndSwap(false, true) {
		close(m.stopCh)
	}
}

// Ticks returns how many ticks have run.
func (m *TickManager) Ticks() uint64 {
	return m.ticks.Load()
}
