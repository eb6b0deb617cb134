package usecase

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/internal/data/repository"
	"hotel-reservation/internal/dto/request"
	"hotel-reservation/pkg/apperror"
	"hotel-reservation/pkg/event"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReservation_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	room := env.room(t, "101", 2)
	customer := uuid.New()

	b, err := env.svc.Reservation.CreateBooking(ctx, room.ID, customer, date("2026-03-10"), date("2026-03-13"), 2)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusPending, b.Status)

	// pending holds do not block availability
	free, err := env.svc.Availability.IsAvailable(ctx, room.ID, date("2026-03-10"), date("2026-03-13"))
	require.NoError(t, err)
	assert.True(t, free)

	confirmed, err := env.svc.Reservation.ConfirmBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, confirmed.Status)

	free, err = env.svc.Availability.IsAvailable(ctx, room.ID, date("2026-03-12"), date("2026-03-14"))
	require.NoError(t, err)
	assert.False(t, free)

	env.clock.Set(time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC))
	checkedIn, err := env.svc.Reservation.CheckIn(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCheckedIn, checkedIn.Status)
	assert.False(t, checkedIn.CheckedInAt.IsZero())

	env.clock.Set(time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC))
	checkedOut, err := env.svc.Reservation.CheckOut(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCheckedOut, checkedOut.Status)
	assert.Equal(t, b.ID, checkedOut.ID)

	free, err = env.svc.Availability.IsAvailable(ctx, room.ID, date("2026-03-10"), date("2026-03-13"))
	require.NoError(t, err)
	assert.True(t, free, "room is free once checked out")

	types := []event.Type{}
	for _, e := range env.events.Events() {
		types = append(types, e.Type)
	}
	assert.Equal(t, []event.Type{
		event.BookingCreated,
		event.BookingConfirmed,
		event.BookingCheckedIn,
		event.BookingCheckedOut,
	}, types)
}

func TestReservation_CreateRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	room := env.room(t, "102", 2)

	_, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-10"), date("2026-03-10"), 1)
	assert.True(t, errors.Is(err, apperror.ErrInvalidRange))

	_, err = env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-12"), date("2026-03-10"), 1)
	assert.True(t, errors.Is(err, apperror.ErrInvalidRange))

	_, err = env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-10"), date("2026-03-12"), 3)
	assert.True(t, errors.Is(err, apperror.ErrCapacityExceeded))

	_, err = env.svc.Reservation.CreateBooking(ctx, uuid.New(), uuid.New(), date("2026-03-10"), date("2026-03-12"), 1)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	_, err = env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-10"), date("2026-03-12"), 0)
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))

	assert.Zero(t, env.svc.ledger.Len(), "rejected creations leave no record")
	assert.Empty(t, env.events.Events())
}

func TestReservation_BoundaryRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	room := env.room(t, "103", 2)

	first, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-10"), date("2026-03-15"), 1)
	require.NoError(t, err)
	_, err = env.svc.Reservation.ConfirmBooking(ctx, first.ID)
	require.NoError(t, err)

	// back-to-back
	next, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-15"), date("2026-03-18"), 1)
	require.NoError(t, err)
	_, err = env.svc.Reservation.ConfirmBooking(ctx, next.ID)
	require.NoError(t, err)

	before, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-05"), date("2026-03-10"), 1)
	require.NoError(t, err)
	_, err = env.svc.Reservation.ConfirmBooking(ctx, before.ID)
	require.NoError(t, err)

	// one night of overlap
	_, err = env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-14"), date("2026-03-16"), 1)
	assert.True(t, errors.Is(err, apperror.ErrConflict))
}

func TestReservation_FailedConfirmOnlyCancelsItself(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	room := env.room(t, "104", 2)

	a, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-10"), date("2026-03-15"), 1)
	require.NoError(t, err)
	b, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-12"), date("2026-03-14"), 1)
	require.NoError(t, err)

	confirmedA, err := env.svc.Reservation.ConfirmBooking(ctx, a.ID)
	require.NoError(t, err)

	_, err = env.svc.Reservation.ConfirmBooking(ctx, b.ID)
	require.True(t, errors.Is(err, apperror.ErrConflict))

	gotB, err := env.svc.Reservation.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, gotB.Status)
	assert.Equal(t, entity.CancelReasonConflict, gotB.CancelReason)

	gotA, err := env.svc.Reservation.GetBooking(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, *confirmedA, *gotA)

	entries := env.svc.index.Entries(room.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, a.ID, entries[0].BookingID)
}

func TestReservation_ConcurrentConfirmRace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	room := env.room(t, "105", 2)

	const contenders = 16
	ids := make([]uuid.UUID, contenders)
	for i := range ids {
		b, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-10"), date("2026-03-15"), 1)
		require.NoError(t, err)
		ids[i] = b.ID
	}

	var (
		wg        sync.WaitGroup
		start     = make(chan struct{})
		mu        sync.Mutex
		succeeded []uuid.UUID
		conflicts int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			<-start
			_, err := env.svc.Reservation.ConfirmBooking(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded = append(succeeded, id)
			case errors.Is(err, apperror.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	close(start)
	wg.Wait()

	require.Len(t, succeeded, 1)
	assert.Equal(t, contenders-1, conflicts)
	assert.Equal(t, 1, env.svc.index.Len())
	assert.Len(t, env.svc.ledger.ByState(entity.BookingStatusCancelled), contenders-1)
}

func TestReservation_CheckInRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	room := env.room(t, "106", 2)

	b, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-10"), date("2026-03-12"), 1)
	require.NoError(t, err)

	_, err = env.svc.Reservation.CheckIn(ctx, b.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotConfirmed))

	_, err = env.svc.Reservation.ConfirmBooking(ctx, b.ID)
	require.NoError(t, err)

	env.clock.Set(time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC))
	_, err = env.svc.Reservation.CheckIn(ctx, b.ID)
	assert.True(t, errors.Is(err, apperror.ErrTooEarly))

	_, err = env.svc.Reservation.CheckOut(ctx, b.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotCheckedIn))

	env.clock.Set(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	_, err = env.svc.Reservation.CheckIn(ctx, b.ID)
	require.NoError(t, err)

	_, err = env.svc.Reservation.CheckIn(ctx, b.ID)
	assert.True(t, errors.Is(err, apperror.ErrInvalidTransition))

	_, err = env.svc.Reservation.CancelBooking(ctx, b.ID)
	assert.True(t, errors.Is(err, apperror.ErrInvalidTransition), "a stay in progress ends with check-out")

	entry, ok := env.svc.index.Get(b.ID)
	require.True(t, ok)
	assert.Equal(t, entity.BookingStatusCheckedIn, entry.Status)

	_, err = env.svc.Reservation.CheckOut(ctx, b.ID)
	require.NoError(t, err)

	_, err = env.svc.Reservation.CheckIn(ctx, b.ID)
	assert.True(t, errors.Is(err, apperror.ErrTerminalState))
	_, err = env.svc.Reservation.CheckOut(ctx, b.ID)
	assert.True(t, errors.Is(err, apperror.ErrTerminalState))
}

func TestReservation_CheckInGrace(t *testing.T) {
	config := testConfig()
	config.Reservation.CheckInGrace = 6 * time.Hour
	env := newTestEnvWith(t, repository.NewMemoryRepository(zap.NewNop()), config)
	ctx := context.Background()
	room := env.room(t, "107", 2)

	b, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-10"), date("2026-03-12"), 1)
	require.NoError(t, err)
	_, err = env.svc.Reservation.ConfirmBooking(ctx, b.ID)
	require.NoError(t, err)

	env.clock.Set(time.Date(2026, 3, 9, 17, 0, 0, 0, time.UTC))
	_, err = env.svc.Reservation.CheckIn(ctx, b.ID)
	assert.True(t, errors.Is(err, apperror.ErrTooEarly))

	env.clock.Set(time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC))
	_, err = env.svc.Reservation.CheckIn(ctx, b.ID)
	assert.NoError(t, err)
}

func TestReservation_CancelBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	room := env.room(t, "108", 2)

	b, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-10"), date("2026-03-12"), 1)
	require.NoError(t, err)
	_, err = env.svc.Reservation.ConfirmBooking(ctx, b.ID)
	require.NoError(t, err)

	cancelled, err := env.svc.Reservation.CancelBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CancelReasonCustomer, cancelled.CancelReason)
	assert.Zero(t, env.svc.index.Len())

	_, err = env.svc.Reservation.CancelBooking(ctx, b.ID)
	assert.True(t, errors.Is(err, apperror.ErrTerminalState))

	_, err = env.svc.Reservation.CancelBooking(ctx, uuid.New())
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestReservation_ModifyDates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	room := env.room(t, "109", 2)

	a, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-10"), date("2026-03-12"), 1)
	require.NoError(t, err)
	_, err = env.svc.Reservation.ConfirmBooking(ctx, a.ID)
	require.NoError(t, err)

	other, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-20"), date("2026-03-22"), 1)
	require.NoError(t, err)
	_, err = env.svc.Reservation.ConfirmBooking(ctx, other.ID)
	require.NoError(t, err)

	t.Run("conflict restores the original range", func(t *testing.T) {
		_, err := env.svc.Reservation.ModifyDates(ctx, a.ID, date("2026-03-19"), date("2026-03-21"))
		require.True(t, errors.Is(err, apperror.ErrConflict))

		got, _ := env.svc.Reservation.GetBooking(ctx, a.ID)
		assert.Equal(t, date("2026-03-10"), got.CheckIn)

		entry, ok := env.svc.index.Get(a.ID)
		require.True(t, ok)
		assert.Equal(t, date("2026-03-10"), entry.Start)
		assert.Equal(t, date("2026-03-12"), entry.End)
	})

	t.Run("overlapping its own range is allowed", func(t *testing.T) {
		moved, err := env.svc.Reservation.ModifyDates(ctx, a.ID, date("2026-03-11"), date("2026-03-14"))
		require.NoError(t, err)
		assert.Equal(t, a.ID, moved.ID)
		assert.Equal(t, date("2026-03-11"), moved.CheckIn)
		assert.Equal(t, date("2026-03-14"), moved.CheckOut)

		free, err := env.svc.Availability.IsAvailable(ctx, room.ID, date("2026-03-10"), date("2026-03-11"))
		require.NoError(t, err)
		assert.True(t, free)
	})

	t.Run("invalid range", func(t *testing.T) {
		_, err := env.svc.Reservation.ModifyDates(ctx, a.ID, date("2026-03-14"), date("2026-03-14"))
		assert.True(t, errors.Is(err, apperror.ErrInvalidRange))
	})

	t.Run("pending booking is checked against confirmed ones", func(t *testing.T) {
		p, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-25"), date("2026-03-27"), 1)
		require.NoError(t, err)

		_, err = env.svc.Reservation.ModifyDates(ctx, p.ID, date("2026-03-21"), date("2026-03-23"))
		assert.True(t, errors.Is(err, apperror.ErrConflict))

		moved, err := env.svc.Reservation.ModifyDates(ctx, p.ID, date("2026-03-22"), date("2026-03-24"))
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusPending, moved.Status)
		_, indexed := env.svc.index.Get(p.ID)
		assert.False(t, indexed)
	})

	t.Run("stay in progress can only move its check-out", func(t *testing.T) {
		env.clock.Set(time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC))
		_, err := env.svc.Reservation.CheckIn(ctx, a.ID)
		require.NoError(t, err)

		_, err = env.svc.Reservation.ModifyDates(ctx, a.ID, date("2026-03-12"), date("2026-03-15"))
		assert.True(t, errors.Is(err, apperror.ErrInvalidRange))

		extended, err := env.svc.Reservation.ModifyDates(ctx, a.ID, date("2026-03-11"), date("2026-03-16"))
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusCheckedIn, extended.Status)

		entry, _ := env.svc.index.Get(a.ID)
		assert.Equal(t, entity.BookingStatusCheckedIn, entry.Status)
		assert.Equal(t, date("2026-03-16"), entry.End)
	})

	t.Run("stay in progress cannot end before tomorrow", func(t *testing.T) {
		env.clock.Set(time.Date(2026, 3, 13, 10, 0, 0, 0, time.UTC))

		for _, end := range []string{"2026-03-12", "2026-03-13"} {
			_, err := env.svc.Reservation.ModifyDates(ctx, a.ID, date("2026-03-11"), date(end))
			assert.True(t, errors.Is(err, apperror.ErrInvalidRange), end)
		}

		entry, _ := env.svc.index.Get(a.ID)
		assert.Equal(t, date("2026-03-16"), entry.End)

		free, err := env.svc.Availability.IsAvailable(ctx, room.ID, date("2026-03-13"), date("2026-03-15"))
		require.NoError(t, err)
		assert.False(t, free, "room stays held while the guest is in")

		late, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-14"), date("2026-03-15"), 1)
		if err == nil {
			_, err = env.svc.Reservation.ConfirmBooking(ctx, late.ID)
		}
		assert.True(t, errors.Is(err, apperror.ErrConflict))

		shortened, err := env.svc.Reservation.ModifyDates(ctx, a.ID, date("2026-03-11"), date("2026-03-14"))
		require.NoError(t, err)
		assert.Equal(t, date("2026-03-14"), shortened.CheckOut)
	})

	t.Run("terminal", func(t *testing.T) {
		_, err := env.svc.Reservation.CancelBooking(ctx, other.ID)
		require.NoError(t, err)
		_, err = env.svc.Reservation.ModifyDates(ctx, other.ID, date("2026-04-01"), date("2026-04-02"))
		assert.True(t, errors.Is(err, apperror.ErrTerminalState))
	})
}

func TestReservation_ModifyGuestCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	room := env.room(t, "110", 3)

	b, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-10"), date("2026-03-12"), 1)
	require.NoError(t, err)

	updated, err := env.svc.Reservation.ModifyGuestCount(ctx, b.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.GuestCount)

	_, err = env.svc.Reservation.ModifyGuestCount(ctx, b.ID, 4)
	assert.True(t, errors.Is(err, apperror.ErrCapacityExceeded))

	_, err = env.svc.Reservation.ModifyGuestCount(ctx, b.ID, 0)
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
}

func TestReservation_ExpirePending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	room := env.room(t, "111", 2)

	stale, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-10"), date("2026-03-12"), 1)
	require.NoError(t, err)
	kept, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-20"), date("2026-03-22"), 1)
	require.NoError(t, err)
	_, err = env.svc.Reservation.ConfirmBooking(ctx, kept.ID)
	require.NoError(t, err)

	env.clock.Advance(10 * time.Minute)
	fresh, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-12"), date("2026-03-14"), 1)
	require.NoError(t, err)

	env.clock.Advance(6 * time.Minute)
	assert.Equal(t, 1, env.svc.Sweeper.Sweep(ctx))

	got, _ := env.svc.Reservation.GetBooking(ctx, stale.ID)
	assert.Equal(t, entity.BookingStatusCancelled, got.Status)
	assert.Equal(t, entity.CancelReasonExpired, got.CancelReason)

	got, _ = env.svc.Reservation.GetBooking(ctx, fresh.ID)
	assert.Equal(t, entity.BookingStatusPending, got.Status)

	got, _ = env.svc.Reservation.GetBooking(ctx, kept.ID)
	assert.Equal(t, entity.BookingStatusConfirmed, got.Status)

	n, err := env.svc.Reservation.ExpirePending(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReservation_ListCustomerBookings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	room := env.room(t, "112", 2)
	customer := uuid.New()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		start := date("2026-03-10").AddDate(0, 0, i*3)
		b, err := env.svc.Reservation.CreateBooking(ctx, room.ID, customer, start, start.AddDate(0, 0, 2), 1)
		require.NoError(t, err)
		ids = append(ids, b.ID)
		env.clock.Advance(time.Minute)
	}
	_, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-05-01"), date("2026-05-02"), 1)
	require.NoError(t, err)

	page, total, err := env.svc.Reservation.ListCustomerBookings(ctx, customer, request.PaginatedRequest{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID, "newest first")

	page, _, err = env.svc.Reservation.ListCustomerBookings(ctx, customer, request.PaginatedRequest{Page: 3, PerPage: 2})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestReservation_LoadRebuildsIndex(t *testing.T) {
	first := newTestEnv(t)
	ctx := context.Background()
	room := first.room(t, "113", 2)

	b, err := first.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), date("2026-03-10"), date("2026-03-12"), 1)
	require.NoError(t, err)
	_, err = first.svc.Reservation.ConfirmBooking(ctx, b.ID)
	require.NoError(t, err)
	require.NoError(t, first.svc.Flush(ctx))

	second := newTestEnvWith(t, first.repo, testConfig())
	free, err := second.svc.Availability.IsAvailable(ctx, room.ID, date("2026-03-11"), date("2026-03-13"))
	require.NoError(t, err)
	assert.False(t, free)

	got, err := second.svc.Reservation.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, got.Status)
}

// Random concurrent traffic over a few rooms must never leave two blocking
// bookings overlapping, and the index must mirror the ledger exactly.
func TestReservation_NoOverlapUnderConcurrency(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	rooms := []*entity.Room{env.room(t, "A", 4), env.room(t, "B", 4), env.room(t, "C", 4)}
	env.clock.Set(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			var mine []uuid.UUID
			for i := 0; i < 150; i++ {
				room := rooms[rng.Intn(len(rooms))]
				start := date("2026-02-01").AddDate(0, 0, rng.Intn(40))
				end := start.AddDate(0, 0, 1+rng.Intn(5))

				switch op := rng.Intn(5); {
				case op <= 1 || len(mine) == 0:
					if b, err := env.svc.Reservation.CreateBooking(ctx, room.ID, uuid.New(), start, end, 1); err == nil {
						mine = append(mine, b.ID)
					}
				case op == 2:
					_, _ = env.svc.Reservation.ConfirmBooking(ctx, mine[rng.Intn(len(mine))])
				case op == 3:
					_, _ = env.svc.Reservation.ModifyDates(ctx, mine[rng.Intn(len(mine))], start, end)
				default:
					_, _ = env.svc.Reservation.CancelBooking(ctx, mine[rng.Intn(len(mine))])
				}
			}
		}(int64(w))
	}
	wg.Wait()

	blocking := map[uuid.UUID][]entity.Booking{}
	indexed := 0
	for _, b := range env.svc.ledger.Snapshot() {
		if b.Status.IsBlocking() {
			blocking[b.RoomID] = append(blocking[b.RoomID], b)
			indexed++

			entry, ok := env.svc.index.Get(b.ID)
			require.True(t, ok, "blocking booking %s missing from index", b.ID)
			assert.Equal(t, b.CheckIn, entry.Start)
			assert.Equal(t, b.CheckOut, entry.End)
		}
	}
	assert.Equal(t, indexed, env.svc.index.Len())

	for _, list := range blocking {
		for i := range list {
			for j := i + 1; j < len(list); j++ {
				assert.False(t, list[i].Entry().Overlaps(list[j].CheckIn, list[j].CheckOut),
					"%s overlaps %s", list[i], list[j])
			}
		}
	}
}
