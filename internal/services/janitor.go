package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Janitor periodically removes unconsumed passcodes whose validity
// lapsed, so the passcodes table does not accumulate dead rows.
type Janitor struct {
	log       *zap.Logger
	passcodes PasscodeStore
	interval  time.Duration
}

func NewJanitor(log *zap.Logger, passcodes PasscodeStore) *Janitor {
	return &Janitor{
		log:       log,
		passcodes: passcodes,
		interval:  time.Minute,
	}
}

// Start runs the janitor in a goroutine until ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	j.log.Info("Starting passcode janitor...")
	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.sweep(ctx)
			}
		}
	}()
}

func (j *Janitor) sweep(ctx context.Context) {
	removed, err := j.passcodes.DeleteExpired(ctx, time.Now())
	if err != nil {
		j.log.Error("Failed to purge expired passcodes", zap.Error(err))
		return
	}
	if removed > 0 {
		j.log.Debug("Purged expired passcodes", zap.Int64("removed", removed))
	}
}
