package service

import (
	"context"
	"time"
)

// TimerWatcher polls one user's timer on a fixed interval. The poll is
// presentation only; all state lives in the stored session.
type TimerWatcher struct {
	timers   TimerService
	userID   string
	interval time.Duration
}

func NewTimerWatcher(timers TimerService, userID string, interval time.Duration) *TimerWatcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &TimerWatcher{timers: timers, userID: userID, interval: interval}
}

// Run ticks until the session is gone (stopped or completed and awarded)
// or ctx is done. onTick, when set, sees every snapshot and whether that
// tick performed the award.
func (w *TimerWatcher) Run(ctx context.Context, onTick func(snap TimerSnapshot, awarded bool)) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		snap, awarded, err := w.timers.Tick(ctx, w.userID)
		if err != nil {
			return err
		}
		if onTick != nil {
			onTick(snap, awarded)
		}
		if snap.Session == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
