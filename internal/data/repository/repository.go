package repository

import (
	"hotel-reservation/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Room    RoomRepository
	Booking BookingRepository
	Session SessionRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Room:    NewRoomRepository(db, log),
		Booking: NewBookingRepository(db, log),
		Session: NewSessionRepository(db, log),
	}
}

// NewMemoryRepository backs every repository with process memory. Used with
// DB_DRIVER=memory and in tests.
func NewMemoryRepository(log *zap.Logger) *Repository {
	return &Repository{
		Room:    NewMemoryRoomRepository(log),
		Booking: NewMemoryBookingRepository(log),
		Session: NewMemorySessionRepository(log),
	}
}
