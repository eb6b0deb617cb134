package usecase

import (
	"context"
	"errors"
	"testing"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) confirmed(t *testing.T, roomID uuid.UUID, checkIn, checkOut string) *entity.Booking {
	t.Helper()
	ctx := context.Background()
	b, err := e.svc.Reservation.CreateBooking(ctx, roomID, uuid.New(), date(checkIn), date(checkOut), 1)
	require.NoError(t, err)
	b, err = e.svc.Reservation.ConfirmBooking(ctx, b.ID)
	require.NoError(t, err)
	return b
}

func roomIDs(rooms []entity.Room) []uuid.UUID {
	ids := make([]uuid.UUID, len(rooms))
	for i, r := range rooms {
		ids[i] = r.ID
	}
	return ids
}

func TestAvailability_SearchAvailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	small := env.room(t, "Single", 2)
	booked := env.room(t, "Family", 4)
	free := env.room(t, "Suite", 4)
	env.confirmed(t, booked.ID, "2026-03-09", "2026-03-11")

	rooms, err := env.svc.Availability.SearchAvailable(ctx, date("2026-03-10"), date("2026-03-12"), 3, RankByID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{free.ID}, roomIDs(rooms))

	rooms, err = env.svc.Availability.SearchAvailable(ctx, date("2026-03-11"), date("2026-03-12"), 0, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{small.ID, booked.ID, free.ID}, roomIDs(rooms))
	for i := 1; i < len(rooms); i++ {
		assert.Negative(t, compareRoomIDs(rooms[i-1], rooms[i]), "ascending id order")
	}
}

func TestAvailability_RankByCapacity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	large := env.room(t, "Large", 6)
	small := env.room(t, "Small", 2)
	medium := env.room(t, "Medium", 3)

	rooms, err := env.svc.Availability.SearchAvailable(ctx, date("2026-03-10"), date("2026-03-12"), 2, RankByCapacity)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{small.ID, medium.ID, large.ID}, roomIDs(rooms))

	policy, err := ParseRankingPolicy("capacity")
	require.NoError(t, err)
	rooms, err = env.svc.Availability.SearchAvailable(ctx, date("2026-03-10"), date("2026-03-12"), 3, policy)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{medium.ID, large.ID}, roomIDs(rooms))

	_, err = ParseRankingPolicy("price")
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
}

func TestAvailability_IsAvailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	room := env.room(t, "201", 2)
	env.confirmed(t, room.ID, "2026-03-10", "2026-03-15")

	tests := []struct {
		name     string
		in, out  string
		expected bool
	}{
		{"before", "2026-03-05", "2026-03-10", true},
		{"after", "2026-03-15", "2026-03-20", true},
		{"inside", "2026-03-11", "2026-03-12", false},
		{"covering", "2026-03-01", "2026-03-30", false},
		{"last night", "2026-03-14", "2026-03-15", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := env.svc.Availability.IsAvailable(ctx, room.ID, date(tt.in), date(tt.out))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}

	_, err := env.svc.Availability.IsAvailable(ctx, room.ID, date("2026-03-15"), date("2026-03-10"))
	assert.True(t, errors.Is(err, apperror.ErrInvalidRange))

	_, err = env.svc.Availability.IsAvailable(ctx, uuid.New(), date("2026-03-10"), date("2026-03-11"))
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}
