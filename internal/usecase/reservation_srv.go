package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/internal/data/index"
	"hotel-reservation/internal/data/ledger"
	"hotel-reservation/internal/dto/request"
	"hotel-reservation/internal/dto/response"
	"hotel-reservation/pkg/apperror"
	"hotel-reservation/pkg/event"
	"hotel-reservation/pkg/keylock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReservationService interface {
	CreateBooking(ctx context.Context, roomID, customerID uuid.UUID, checkIn, checkOut time.Time, guestCount int) (*entity.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error)
	CheckIn(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error)
	CheckOut(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error)
	ModifyDates(ctx context.Context, bookingID uuid.UUID, checkIn, checkOut time.Time) (*entity.Booking, error)
	ModifyGuestCount(ctx context.Context, bookingID uuid.UUID, guestCount int) (*entity.Booking, error)

	GetBooking(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error)
	ListCustomerBookings(ctx context.Context, customerID uuid.UUID, page request.PaginatedRequest) ([]entity.Booking, int64, error)

	// ExpirePending cancels PENDING bookings older than the hold timeout and
	// reports how many it cancelled.
	ExpirePending(ctx context.Context) (int, error)
}

type ReservationConfig struct {
	PendingTTL   time.Duration
	CheckInGrace time.Duration
}

type reservationService struct {
	rooms     RoomService
	ledger    *ledger.Ledger
	index     *index.Index
	locks     *keylock.Table
	publisher event.Publisher
	clock     Clock
	config    ReservationConfig
	log       *zap.Logger
}

func NewReservationService(
	rooms RoomService,
	ledger *ledger.Ledger,
	idx *index.Index,
	locks *keylock.Table,
	publisher event.Publisher,
	clock Clock,
	config ReservationConfig,
	log *zap.Logger,
) ReservationService {
	return &reservationService{
		rooms:     rooms,
		ledger:    ledger,
		index:     idx,
		locks:     locks,
		publisher: publisher,
		clock:     clock,
		config:    config,
		log:       log.With(zap.String("service", "reservation")),
	}
}

// outcome is what a state change computed under the room lock wants committed.
type outcome struct {
	next  entity.Booking
	event event.Type
	// undo reverts index changes if the ledger refuses the commit
	undo func()
	// reject is returned to the caller after next has been committed
	reject error
}

var errSkip = errors.New("skip")

func (s *reservationService) CreateBooking(ctx context.Context, roomID, customerID uuid.UUID, checkIn, checkOut time.Time, guestCount int) (*entity.Booking, error) {
	checkIn, checkOut = entity.Day(checkIn), entity.Day(checkOut)
	if !checkIn.Before(checkOut) {
		return nil, apperror.New(apperror.InvalidRange, "check-in %s must be before check-out %s",
			checkIn.Format(entity.DateLayout), checkOut.Format(entity.DateLayout))
	}
	if guestCount < 1 {
		return nil, apperror.New(apperror.InvalidInput, "guest count must be at least 1")
	}

	unlock := s.locks.Lock(roomID)

	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		unlock()
		return nil, err
	}
	if guestCount > room.Capacity {
		unlock()
		return nil, apperror.New(apperror.CapacityExceeded, "room %s holds %d guests, %d requested",
			room.Name, room.Capacity, guestCount)
	}
	if overlaps := s.index.FindOverlaps(roomID, checkIn, checkOut); len(overlaps) > 0 {
		unlock()
		return nil, apperror.New(apperror.Conflict, "room %s is booked between %s and %s",
			room.Name, overlaps[0].Start.Format(entity.DateLayout), overlaps[0].End.Format(entity.DateLayout))
	}

	booking := entity.NewBooking(roomID, customerID, checkIn, checkOut, guestCount, s.clock.Now())
	if err := s.ledger.Add(booking); err != nil {
		unlock()
		return nil, err
	}
	unlock()

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("room_id", roomID.String()),
		zap.String("customer_id", customerID.String()),
		zap.Time("check_in", checkIn),
		zap.Time("check_out", checkOut),
	)
	s.publish(ctx, event.BookingCreated, booking)
	return &booking, nil
}

// ConfirmBooking re-checks the range and claims it in the index in one
// critical section. A booking that lost the race is cancelled.
func (s *reservationService) ConfirmBooking(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error) {
	return s.apply(ctx, bookingID, "confirm", func(cur entity.Booking, now time.Time) (*outcome, error) {
		next, err := cur.Transition(entity.BookingStatusConfirmed, now)
		if err != nil {
			return nil, err
		}

		if overlaps := s.index.FindOverlaps(cur.RoomID, cur.CheckIn, cur.CheckOut); len(overlaps) > 0 {
			cancelled, err := cur.Cancel(entity.CancelReasonConflict, now)
			if err != nil {
				return nil, err
			}
			return &outcome{
				next:  cancelled,
				event: event.BookingCancelled,
				reject: apperror.New(apperror.Conflict, "room was confirmed for booking %s in the meantime",
					overlaps[0].BookingID),
			}, nil
		}

		if err := s.index.Insert(next.Entry()); err != nil {
			return nil, err
		}
		return &outcome{
			next:  next,
			event: event.BookingConfirmed,
			undo:  func() { s.index.Remove(next.ID) },
		}, nil
	})
}

func (s *reservationService) CheckIn(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error) {
	return s.apply(ctx, bookingID, "check-in", func(cur entity.Booking, now time.Time) (*outcome, error) {
		switch {
		case cur.Status.IsTerminal():
			return nil, apperror.New(apperror.TerminalState, "booking %s is already %s", cur.ID, cur.Status)
		case cur.Status == entity.BookingStatusPending:
			return nil, apperror.New(apperror.NotConfirmed, "booking %s has not been confirmed", cur.ID)
		}

		opens := cur.CheckIn.Add(-s.config.CheckInGrace)
		if now.Before(opens) {
			return nil, apperror.New(apperror.TooEarly, "check-in for booking %s opens at %s",
				cur.ID, opens.Format(time.RFC3339))
		}

		next, err := cur.Transition(entity.BookingStatusCheckedIn, now)
		if err != nil {
			return nil, err
		}
		s.index.SetStatus(cur.ID, entity.BookingStatusCheckedIn)
		return &outcome{
			next:  next,
			event: event.BookingCheckedIn,
			undo:  func() { s.index.SetStatus(cur.ID, cur.Status) },
		}, nil
	})
}

// CheckOut frees the room immediately, even before the booked end date.
func (s *reservationService) CheckOut(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error) {
	return s.apply(ctx, bookingID, "check-out", func(cur entity.Booking, now time.Time) (*outcome, error) {
		switch {
		case cur.Status.IsTerminal():
			return nil, apperror.New(apperror.TerminalState, "booking %s is already %s", cur.ID, cur.Status)
		case cur.Status != entity.BookingStatusCheckedIn:
			return nil, apperror.New(apperror.NotCheckedIn, "booking %s is %s, not checked in", cur.ID, cur.Status)
		}

		next, err := cur.Transition(entity.BookingStatusCheckedOut, now)
		if err != nil {
			return nil, err
		}
		return &outcome{
			next:  next,
			event: event.BookingCheckedOut,
			undo:  s.release(cur.ID),
		}, nil
	})
}

func (s *reservationService) CancelBooking(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error) {
	return s.apply(ctx, bookingID, "cancel", func(cur entity.Booking, now time.Time) (*outcome, error) {
		next, err := cur.Cancel(entity.CancelReasonCustomer, now)
		if err != nil {
			return nil, err
		}
		out := &outcome{next: next, event: event.BookingCancelled}
		if cur.Status.IsBlocking() {
			out.undo = s.release(cur.ID)
		}
		return out, nil
	})
}

// ModifyDates keeps the booking id. A confirmed range is released and
// re-claimed inside one critical section; on conflict the old range is put back.
func (s *reservationService) ModifyDates(ctx context.Context, bookingID uuid.UUID, checkIn, checkOut time.Time) (*entity.Booking, error) {
	checkIn, checkOut = entity.Day(checkIn), entity.Day(checkOut)
	if !checkIn.Before(checkOut) {
		return nil, apperror.New(apperror.InvalidRange, "check-in %s must be before check-out %s",
			checkIn.Format(entity.DateLayout), checkOut.Format(entity.DateLayout))
	}

	return s.apply(ctx, bookingID, "modify dates", func(cur entity.Booking, now time.Time) (*outcome, error) {
		if cur.Status.IsTerminal() {
			return nil, apperror.New(apperror.TerminalState, "booking %s is already %s", cur.ID, cur.Status)
		}
		if cur.Status == entity.BookingStatusCheckedIn {
			if !checkIn.Equal(cur.CheckIn) {
				return nil, apperror.New(apperror.InvalidRange, "guest is already in; only the check-out date of booking %s can change", cur.ID)
			}
			// the guest holds the room through today; an earlier departure goes through CheckOut
			if today := entity.Day(now); !checkOut.After(today) {
				return nil, apperror.New(apperror.InvalidRange, "check-out %s of booking %s must be after %s",
					checkOut.Format(entity.DateLayout), cur.ID, today.Format(entity.DateLayout))
			}
		}

		next := cur.Reschedule(checkIn, checkOut, now)

		if cur.Status == entity.BookingStatusPending {
			if overlaps := s.index.FindOverlaps(cur.RoomID, checkIn, checkOut); len(overlaps) > 0 {
				return nil, apperror.New(apperror.Conflict, "room is booked between %s and %s",
					overlaps[0].Start.Format(entity.DateLayout), overlaps[0].End.Format(entity.DateLayout))
			}
			return &outcome{next: next, event: event.BookingModified}, nil
		}

		old, _ := s.index.Get(cur.ID)
		s.index.Remove(cur.ID)

		if overlaps := s.index.FindOverlaps(cur.RoomID, checkIn, checkOut); len(overlaps) > 0 {
			s.restore(old)
			return nil, apperror.New(apperror.Conflict, "room is booked between %s and %s",
				overlaps[0].Start.Format(entity.DateLayout), overlaps[0].End.Format(entity.DateLayout))
		}
		if err := s.index.Insert(next.Entry()); err != nil {
			s.restore(old)
			return nil, err
		}

		return &outcome{
			next:  next,
			event: event.BookingModified,
			undo: func() {
				s.index.Remove(cur.ID)
				s.restore(old)
			},
		}, nil
	})
}

func (s *reservationService) ModifyGuestCount(ctx context.Context, bookingID uuid.UUID, guestCount int) (*entity.Booking, error) {
	if guestCount < 1 {
		return nil, apperror.New(apperror.InvalidInput, "guest count must be at least 1")
	}

	return s.apply(ctx, bookingID, "modify guests", func(cur entity.Booking, now time.Time) (*outcome, error) {
		if cur.Status.IsTerminal() {
			return nil, apperror.New(apperror.TerminalState, "booking %s is already %s", cur.ID, cur.Status)
		}
		room, err := s.rooms.GetRoom(ctx, cur.RoomID)
		if err != nil {
			return nil, err
		}
		if guestCount > room.Capacity {
			return nil, apperror.New(apperror.CapacityExceeded, "room %s holds %d guests, %d requested",
				room.Name, room.Capacity, guestCount)
		}
		return &outcome{next: cur.WithGuests(guestCount, now), event: event.BookingModified}, nil
	})
}

func (s *reservationService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error) {
	booking, err := s.ledger.Get(bookingID)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListCustomerBookings pages through a customer's bookings, newest first.
func (s *reservationService) ListCustomerBookings(ctx context.Context, customerID uuid.UUID, page request.PaginatedRequest) ([]entity.Booking, int64, error) {
	all := s.ledger.ByCustomer(customerID)
	total := int64(len(all))

	// ledger order is oldest first
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}

	offset := page.Offset()
	if offset >= len(all) {
		return []entity.Booking{}, total, nil
	}
	end := min(offset+page.Limit(), len(all))
	return all[offset:end], total, nil
}

func (s *reservationService) ExpirePending(ctx context.Context) (int, error) {
	cutoff := s.clock.Now().Add(-s.config.PendingTTL)
	candidates := s.ledger.ExpiredPending(cutoff)

	expired := 0
	var errs []error
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return expired, err
		}

		_, err := s.apply(ctx, candidate.ID, "expire", func(cur entity.Booking, now time.Time) (*outcome, error) {
			// confirmed or cancelled since the scan
			if cur.Status != entity.BookingStatusPending || !cur.CreatedAt.Before(cutoff) {
				return nil, errSkip
			}
			next, err := cur.Cancel(entity.CancelReasonExpired, now)
			if err != nil {
				return nil, err
			}
			return &outcome{next: next, event: event.BookingCancelled}, nil
		})

		switch {
		case err == nil:
			expired++
		case errors.Is(err, errSkip):
		default:
			errs = append(errs, err)
		}
	}

	if expired > 0 {
		s.log.Info("Expired pending bookings", zap.Int("count", expired), zap.Time("cutoff", cutoff))
	}
	return expired, errors.Join(errs...)
}

// ==================== HELPERS ====================

// apply runs fn under the booking's room lock, commits the outcome to the
// ledger and publishes the event after the lock is released.
func (s *reservationService) apply(
	ctx context.Context,
	bookingID uuid.UUID,
	op string,
	fn func(cur entity.Booking, now time.Time) (*outcome, error),
) (*entity.Booking, error) {
	// a booking never changes room, so the lock can be chosen before reading it again
	cur, err := s.ledger.Get(bookingID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(cur.RoomID)

	cur, err = s.ledger.Get(bookingID)
	if err != nil {
		unlock()
		return nil, err
	}

	out, err := fn(cur, s.clock.Now())
	if err != nil {
		unlock()
		if !errors.Is(err, errSkip) {
			s.log.Debug("Booking "+op+" rejected",
				zap.String("booking_id", bookingID.String()),
				zap.String("state", string(cur.Status)),
				zap.Error(err),
			)
		}
		return nil, err
	}

	if err := s.ledger.Commit(out.next); err != nil {
		if out.undo != nil {
			out.undo()
		}
		unlock()
		s.log.Error("Failed to commit booking "+op,
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("%s booking %s: %w", op, bookingID, err)
	}
	unlock()

	s.log.Info("Booking "+op,
		zap.String("booking_id", bookingID.String()),
		zap.String("room_id", out.next.RoomID.String()),
		zap.String("from", string(cur.Status)),
		zap.String("to", string(out.next.Status)),
	)
	s.publish(ctx, out.event, out.next)

	if out.reject != nil {
		return nil, out.reject
	}
	return &out.next, nil
}

// release removes a booking from the index and returns the function that puts it back.
func (s *reservationService) release(bookingID uuid.UUID) func() {
	entry, ok := s.index.Get(bookingID)
	s.index.Remove(bookingID)
	return func() {
		if ok {
			s.restore(entry)
		}
	}
}

func (s *reservationService) restore(entry entity.IntervalEntry) {
	if entry.BookingID == uuid.Nil {
		return
	}
	if err := s.index.Insert(entry); err != nil {
		s.log.Error("Failed to restore index entry",
			zap.Error(err),
			zap.String("booking_id", entry.BookingID.String()),
		)
	}
}

// publish never fails the operation; the ledger is already committed.
func (s *reservationService) publish(ctx context.Context, eventType event.Type, booking entity.Booking) {
	e, err := event.New(eventType, booking.ID.String(), response.NewBookingResponse(&booking), s.clock.Now())
	if err != nil {
		s.log.Error("Failed to build event", zap.Error(err), zap.String("type", string(eventType)))
		return
	}
	e.Version = booking.Version

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, e); err != nil {
		s.log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.String("type", string(eventType)),
			zap.String("booking_id", booking.ID.String()),
		)
	}
}
