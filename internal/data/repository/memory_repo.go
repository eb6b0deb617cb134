package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"hotel-reservation/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ==================== ROOM ====================

type MemoryRoomRepository struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]entity.Room
	log   *zap.Logger
}

func NewMemoryRoomRepository(log *zap.Logger) *MemoryRoomRepository {
	return &MemoryRoomRepository{
		rooms: make(map[uuid.UUID]entity.Room),
		log:   log.With(zap.String("repository", "room"), zap.String("driver", "memory")),
	}
}

func (r *MemoryRoomRepository) Create(ctx context.Context, room *entity.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[room.ID]; exists {
		return fmt.Errorf("create room %s: duplicate id", room.Name)
	}
	r.rooms[room.ID] = room.Clone()
	return nil
}

func (r *MemoryRoomRepository) FindAll(ctx context.Context) ([]*entity.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]*entity.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		if room.DeletedAt != nil {
			continue
		}
		clone := room.Clone()
		rooms = append(rooms, &clone)
	}
	slices.SortFunc(rooms, func(a, b *entity.Room) int {
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return rooms, nil
}

func (r *MemoryRoomRepository) Update(ctx context.Context, room *entity.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.rooms[room.ID]
	if !ok || cur.DeletedAt != nil {
		return fmt.Errorf("room %s not found or already deleted", room.ID.String())
	}
	r.rooms[room.ID] = room.Clone()
	return nil
}

func (r *MemoryRoomRepository) Delete(ctx context.Context, id uuid.UUID, deletedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok || room.DeletedAt != nil {
		return fmt.Errorf("room %s not found", id.String())
	}
	room.DeletedAt = &deletedAt
	r.rooms[id] = room

	r.log.Info("Room deleted", zap.String("room_id", id.String()))
	return nil
}

// ==================== BOOKING ====================

type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]entity.Booking
	log      *zap.Logger
}

func NewMemoryBookingRepository(log *zap.Logger) *MemoryBookingRepository {
	return &MemoryBookingRepository{
		bookings: make(map[uuid.UUID]entity.Booking),
		log:      log.With(zap.String("repository", "booking"), zap.String("driver", "memory")),
	}
}

func (r *MemoryBookingRepository) Save(ctx context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.bookings[booking.ID]; ok && cur.Version >= booking.Version {
		return nil
	}
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *MemoryBookingRepository) FindAll(ctx context.Context) ([]*entity.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, &b)
	}
	slices.SortFunc(out, func(a, b *entity.Booking) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return out, nil
}

// ==================== SESSION ====================

type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]entity.Session
	log      *zap.Logger
}

func NewMemorySessionRepository(log *zap.Logger) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]entity.Session),
		log:      log.With(zap.String("repository", "session"), zap.String("driver", "memory")),
	}
}

// Put registers a session, replacing any with the same token.
func (r *MemorySessionRepository) Put(session entity.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.Token] = session
}

func (r *MemorySessionRepository) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[token]
	if !ok || !session.IsValid(time.Now()) {
		return nil, nil
	}
	return &session, nil
}
