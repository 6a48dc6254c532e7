// Package worker runs the background loops of the application.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// EventSweeper is implemented by the event service.
type EventSweeper interface {
	SweepStatuses(ctx context.Context, now time.Time) (int, error)
}

// StatusSweeper periodically persists due lifecycle transitions
// (upcoming -> active -> ended) so stored statuses track the clock even
// while nobody is looking at an event.
type StatusSweeper struct {
	events   EventSweeper
	interval time.Duration
}

func NewStatusSweeper(events EventSweeper, interval time.Duration) *StatusSweeper {
	return &StatusSweeper{
		events:   events,
		interval: interval,
	}
}

func (w *StatusSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	zap.L().Info("event status sweeper started", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("event status sweeper stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *StatusSweeper) sweep(ctx context.Context) {
	transitions, err := w.events.SweepStatuses(ctx, time.Now())
	if err != nil {
		zap.L().Error("status sweep failed", zap.Error(err))
		return
	}

	if transitions > 0 {
		zap.L().Info("event statuses advanced", zap.Int("transitions", transitions))
	}
}
