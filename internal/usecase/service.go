package usecase

import (
	"context"
	"fmt"
	"sync"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/internal/data/index"
	"hotel-reservation/internal/data/ledger"
	"hotel-reservation/internal/data/repository"
	"hotel-reservation/pkg/event"
	"hotel-reservation/pkg/keylock"
	"hotel-reservation/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Room         RoomService
	Reservation  ReservationService
	Availability AvailabilityService
	Report       ReportService
	Sweeper      *Sweeper

	ledger *ledger.Ledger
	index  *index.Index
	config *utils.Config
	log    *zap.Logger
}

type Option func(*options)

type options struct {
	clock     Clock
	publisher event.Publisher
}

func WithClock(clock Clock) Option {
	return func(o *options) { o.clock = clock }
}

func WithPublisher(publisher event.Publisher) Option {
	return func(o *options) { o.publisher = publisher }
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger, opts ...Option) *Service {
	o := options{clock: SystemClock(), publisher: event.NopPublisher{}}
	for _, opt := range opts {
		opt(&o)
	}

	// shared state: one ledger, one index, one lock table for every service
	bookings := ledger.New(repo.Booking, log)
	idx := index.New()
	locks := keylock.New()

	room := NewRoomService(repo.Room, bookings, locks, o.clock, log)
	reservation := NewReservationService(room, bookings, idx, locks, o.publisher, o.clock, ReservationConfig{
		PendingTTL:   config.Reservation.PendingTTL,
		CheckInGrace: config.Reservation.CheckInGrace,
	}, log)

	return &Service{
		Room:         room,
		Reservation:  reservation,
		Availability: NewAvailabilityService(room, idx, log),
		Report:       NewReportService(bookings, log),
		Sweeper:      NewSweeper(reservation, config.Reservation.SweepInterval, log),
		ledger:       bookings,
		index:        idx,
		config:       config,
		log:          log,
	}
}

// Load restores the room catalog and the ledger from storage and rebuilds the
// interval index from the confirmed and checked-in bookings.
func (s *Service) Load(ctx context.Context) error {
	if err := s.Room.Load(ctx); err != nil {
		return err
	}

	bookings, err := s.ledger.Load(ctx)
	if err != nil {
		return err
	}

	var entries []entity.IntervalEntry
	for _, b := range bookings {
		if b.Status.IsBlocking() {
			entries = append(entries, b.Entry())
		}
	}
	if err := s.index.Reset(entries); err != nil {
		return fmt.Errorf("rebuild interval index: %w", err)
	}

	s.log.Info("Reservation state restored",
		zap.Int("bookings", len(bookings)),
		zap.Int("indexed", len(entries)),
	)
	return nil
}

// Run starts the ledger flusher and the pending sweep and blocks until ctx is
// cancelled and both have stopped.
func (s *Service) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.ledger.Run(ctx, s.config.Reservation.LedgerFlushInterval)
	}()
	go func() {
		defer wg.Done()
		s.Sweeper.Run(ctx)
	}()
	wg.Wait()
}

// Flush writes every committed booking to storage.
func (s *Service) Flush(ctx context.Context) error {
	return s.ledger.Flush(ctx)
}
