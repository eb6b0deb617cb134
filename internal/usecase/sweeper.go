package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically cancels PENDING holds that outlived the hold timeout.
type Sweeper struct {
	reservations ReservationService
	interval     time.Duration
	log          *zap.Logger
}

func NewSweeper(reservations ReservationService, interval time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		reservations: reservations,
		interval:     interval,
		log:          log.With(zap.String("component", "sweeper")),
	}
}

// Run blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Warn("Pending sweep disabled", zap.Duration("interval", s.interval))
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("Pending sweep started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("Pending sweep stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass.
func (s *Sweeper) Sweep(ctx context.Context) int {
	n, err := s.reservations.ExpirePending(ctx)
	if err != nil && ctx.Err() == nil {
		s.log.Error("Pending sweep failed", zap.Error(err), zap.Int("expired", n))
	}
	return n
}
