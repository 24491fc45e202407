package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventpoll/internal/domain"
	"eventpoll/internal/ports/output"
)

const autoStopLockKey = "eventpoll:autostop"

// AutoStopper closes running polls whose stop_at has passed.
type AutoStopper struct {
	polls  output.PollRepository
	tx     output.Transactor
	locker output.Locker
	clock  output.Clock
	logger *slog.Logger
}

func NewAutoStopper(polls output.PollRepository, tx output.Transactor, locker output.Locker, clock output.Clock, logger *slog.Logger) *AutoStopper {
	return &AutoStopper{
		polls:  polls,
		tx:     tx,
		locker: locker,
		clock:  clockOrSystem(clock),
		logger: loggerOrDefault(logger),
	}
}

// StopExpired stops every running poll whose deadline is at or before now and
// returns how many it stopped.
func (a *AutoStopper) StopExpired(ctx context.Context) (int, error) {
	now := a.clock.Now()
	expired, err := a.polls.FindExpiredRunning(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("find expired polls: %w", err)
	}
	stopped := 0
	for _, candidate := range expired {
		err := a.tx.WithinTx(ctx, func(ctx context.Context) error {
			poll, err := a.polls.FindByIDForUpdate(ctx, candidate.ID)
			if err != nil {
				return err
			}
			// Re-check under the lock: the poll may have been stopped or extended meanwhile.
			if !poll.IsRunning || poll.StopAt.After(now) {
				return nil
			}
			if err := domain.ApplyPollState(poll, false, time.Time{}, now); err != nil {
				return err
			}
			if err := a.polls.Update(ctx, poll); err != nil {
				return err
			}
			stopped++
			return nil
		})
		if err != nil {
			a.logger.Error("auto-stop poll failed", "poll_id", candidate.ID, "error", err)
			continue
		}
	}
	if stopped > 0 {
		a.logger.Info("expired polls stopped", "count", stopped)
	}
	return stopped, nil
}

// Run sweeps every interval until ctx is done. Only the holder of the sweep
// lock works on a given tick.
func (a *AutoStopper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.tick(ctx, interval)
		}
	}
}

func (a *AutoStopper) tick(ctx context.Context, ttl time.Duration) {
	unlock, ok, err := a.locker.TryLock(ctx, autoStopLockKey, ttl)
	if err != nil {
		a.logger.Warn("auto-stop lock failed", "error", err)
		return
	}
	if !ok {
		return
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			a.logger.Warn("auto-stop unlock failed", "error", err)
		}
	}()
	if _, err := a.StopExpired(ctx); err != nil {
		a.logger.Error("auto-stop sweep failed", "error", err)
	}
}
