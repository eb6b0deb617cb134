package entity

import (
	"fmt"
	"strings"
	"time"

	"hotel-reservation/pkg/apperror"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusCheckedIn  BookingStatus = "CHECKED_IN"
	BookingStatusCheckedOut BookingStatus = "CHECKED_OUT"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

// AllBookingStatuses lists every state in lifecycle order.
var AllBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCheckedIn,
	BookingStatusCheckedOut,
	BookingStatusCancelled,
}

var validTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCheckedIn, BookingStatusCancelled},
	BookingStatusCheckedIn: {BookingStatusCheckedOut},
}

// Cancel reasons recorded on CANCELLED bookings.
const (
	CancelReasonCustomer = "customer"
	CancelReasonConflict = "conflict"
	CancelReasonExpired  = "expired"
)

func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllBookingStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", apperror.New(apperror.InvalidInput, "unknown booking state %q", s)
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCheckedOut || s == BookingStatusCancelled
}

// IsBlocking reports whether bookings in this state hold the room in the index.
func (s BookingStatus) IsBlocking() bool {
	return s == BookingStatusConfirmed || s == BookingStatusCheckedIn
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

type Booking struct {
	BaseNoDelete
	RoomID       uuid.UUID     `db:"room_id"`
	CustomerID   uuid.UUID     `db:"customer_id"`
	CheckIn      time.Time     `db:"check_in"`
	CheckOut     time.Time     `db:"check_out"`
	GuestCount   int           `db:"guest_count"`
	Status       BookingStatus `db:"status"`
	CancelReason string        `db:"cancel_reason"`
	CheckedInAt  time.Time     `db:"checked_in_at"`
	CheckedOutAt time.Time     `db:"checked_out_at"`
	Version      int64         `db:"version"`
}

// NewBooking builds a PENDING booking. Dates are truncated to calendar days.
func NewBooking(roomID, customerID uuid.UUID, checkIn, checkOut time.Time, guests int, now time.Time) Booking {
	return Booking{
		BaseNoDelete: BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RoomID:     roomID,
		CustomerID: customerID,
		CheckIn:    Day(checkIn),
		CheckOut:   Day(checkOut),
		GuestCount: guests,
		Status:     BookingStatusPending,
		Version:    1,
	}
}

// Transition returns the booking moved to target. The receiver is not modified.
func (b Booking) Transition(target BookingStatus, now time.Time) (Booking, error) {
	if b.Status.IsTerminal() {
		return b, apperror.New(apperror.TerminalState, "booking %s is already %s", b.ID, b.Status)
	}
	if !b.Status.CanTransitionTo(target) {
		return b, apperror.New(apperror.InvalidTransition, "cannot move booking %s from %s to %s", b.ID, b.Status, target)
	}

	next := b.touch(now)
	next.Status = target
	switch target {
	case BookingStatusCheckedIn:
		next.CheckedInAt = now
	case BookingStatusCheckedOut:
		next.CheckedOutAt = now
	}
	return next, nil
}

// Cancel is Transition to CANCELLED with the reason recorded.
func (b Booking) Cancel(reason string, now time.Time) (Booking, error) {
	next, err := b.Transition(BookingStatusCancelled, now)
	if err != nil {
		return b, err
	}
	next.CancelReason = reason
	return next, nil
}

// Reschedule returns the booking with new dates and a bumped version.
func (b Booking) Reschedule(checkIn, checkOut time.Time, now time.Time) Booking {
	next := b.touch(now)
	next.CheckIn = Day(checkIn)
	next.CheckOut = Day(checkOut)
	return next
}

// WithGuests returns the booking with a new guest count and a bumped version.
func (b Booking) WithGuests(guests int, now time.Time) Booking {
	next := b.touch(now)
	next.GuestCount = guests
	return next
}

func (b Booking) touch(now time.Time) Booking {
	b.UpdatedAt = now
	b.Version++
	return b
}

// Entry projects the booking onto the interval index.
func (b Booking) Entry() IntervalEntry {
	return IntervalEntry{
		RoomID:    b.RoomID,
		BookingID: b.ID,
		Start:     b.CheckIn,
		End:       b.CheckOut,
		Status:    b.Status,
	}
}

// OccupiesDay reports whether the room was (or will be) physically held on day.
// A checked-out booking stops occupying the room on the day it actually left.
func (b Booking) OccupiesDay(day time.Time) bool {
	day = Day(day)
	switch {
	case b.Status.IsBlocking():
		return !day.Before(b.CheckIn) && day.Before(b.CheckOut)
	case b.Status == BookingStatusCheckedOut:
		end := b.CheckOut
		if left := Day(b.CheckedOutAt); !b.CheckedOutAt.IsZero() && left.Before(end) {
			end = left
		}
		return !day.Before(b.CheckIn) && day.Before(end)
	default:
		return false
	}
}

func (b Booking) String() string {
	return fmt.Sprintf("booking %s room=%s [%s, %s) %s",
		b.ID, b.RoomID, b.CheckIn.Format(DateLayout), b.CheckOut.Format(DateLayout), b.Status)
}
