package sweeper

import (
	"context"
	"time"

	"rezerveo/pkg/logger"
	"rezerveo/pkg/model"
)

// BookingCompleter is the storage side of the sweep: mark every
// confirmed booking whose slot window has passed as completed.
type BookingCompleter interface {
	CompleteElapsed(ctx context.Context, today, now string) (int64, error)
}

// Sweeper periodically settles elapsed bookings. The sweep is
// idempotent; overlapping or repeated runs only ever move bookings
// from confirmed to completed once.
type Sweeper struct {
	repo     BookingCompleter
	interval time.Duration
	log      *logger.Logger
	clock    func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func New(repo BookingCompleter, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		repo:     repo,
		interval: interval,
		log:      log,
		clock:    time.Now,
	}
}

// Start launches the sweep loop. An immediate first sweep settles any
// backlog from downtime before the ticker takes over.
func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		s.sweep(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()

	s.log.Info("Completion sweeper started", "interval", s.interval)
}

func (s *Sweeper) sweep(ctx context.Context) {
	now := s.clock().UTC()
	completed, err := s.repo.CompleteElapsed(ctx, now.Format(model.DateLayout), now.Format(model.TimeLayout))
	if err != nil {
		s.log.Error("Completion sweep failed", "error", err)
		return
	}
	if completed > 0 {
		s.log.Info("Completed elapsed bookings", "count", completed)
	}
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.log.Info("Completion sweeper stopped")
}
