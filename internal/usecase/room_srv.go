package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/internal/data/ledger"
	"hotel-reservation/internal/data/repository"
	"hotel-reservation/pkg/apperror"
	"hotel-reservation/pkg/keylock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RoomService interface {
	CreateRoom(ctx context.Context, attrs entity.RoomAttributes) (*entity.Room, error)
	GetRoom(ctx context.Context, roomID uuid.UUID) (*entity.Room, error)
	UpdateAttributes(ctx context.Context, roomID uuid.UUID, attrs entity.RoomAttributes) (*entity.Room, error)
	DeleteRoom(ctx context.Context, roomID uuid.UUID) error
	ListRooms(ctx context.Context) ([]entity.Room, error)

	// Load replaces the catalog with the rooms held by the repository.
	Load(ctx context.Context) error
}

// roomService keeps the catalog in memory so lookups made under a room lock
// never reach the database. Writes go to the repository first.
type roomService struct {
	repo   repository.RoomRepository
	ledger *ledger.Ledger
	locks  *keylock.Table
	clock  Clock
	log    *zap.Logger

	mu    sync.RWMutex
	rooms map[uuid.UUID]entity.Room
}

func NewRoomService(repo repository.RoomRepository, ledger *ledger.Ledger, locks *keylock.Table, clock Clock, log *zap.Logger) RoomService {
	return &roomService{
		repo:   repo,
		ledger: ledger,
		locks:  locks,
		clock:  clock,
		log:    log.With(zap.String("service", "room")),
		rooms:  make(map[uuid.UUID]entity.Room),
	}
}

func (s *roomService) Load(ctx context.Context) error {
	rooms, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to load rooms", zap.Error(err))
		return fmt.Errorf("load rooms: %w", err)
	}

	catalog := make(map[uuid.UUID]entity.Room, len(rooms))
	for _, room := range rooms {
		catalog[room.ID] = room.Clone()
	}

	s.mu.Lock()
	s.rooms = catalog
	s.mu.Unlock()

	s.log.Info("Room catalog loaded", zap.Int("rooms", len(catalog)))
	return nil
}

func (s *roomService) CreateRoom(ctx context.Context, attrs entity.RoomAttributes) (*entity.Room, error) {
	if attrs.Name == nil || strings.TrimSpace(*attrs.Name) == "" {
		return nil, apperror.New(apperror.InvalidInput, "room name is required")
	}
	if attrs.Capacity == nil || *attrs.Capacity < 1 {
		return nil, apperror.New(apperror.InvalidInput, "room capacity must be at least 1")
	}

	now := s.clock.Now()
	room := entity.Room{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:      strings.TrimSpace(*attrs.Name),
		Capacity:  *attrs.Capacity,
		Amenities: normalizeAmenities(attrs.Amenities),
	}

	if err := s.repo.Create(ctx, &room); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	s.mu.Lock()
	s.rooms[room.ID] = room.Clone()
	s.mu.Unlock()

	s.log.Info("Room created",
		zap.String("room_id", room.ID.String()),
		zap.String("name", room.Name),
		zap.Int("capacity", room.Capacity),
	)
	return &room, nil
}

func (s *roomService) GetRoom(ctx context.Context, roomID uuid.UUID) (*entity.Room, error) {
	s.mu.RLock()
	room, ok := s.rooms[roomID]
	s.mu.RUnlock()

	if !ok {
		return nil, apperror.New(apperror.NotFound, "room %s not found", roomID)
	}
	clone := room.Clone()
	return &clone, nil
}

// UpdateAttributes never touches bookings: a smaller capacity only applies to
// bookings created or resized afterwards.
func (s *roomService) UpdateAttributes(ctx context.Context, roomID uuid.UUID, attrs entity.RoomAttributes) (*entity.Room, error) {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if attrs.Name != nil {
		name := strings.TrimSpace(*attrs.Name)
		if name == "" {
			return nil, apperror.New(apperror.InvalidInput, "room name cannot be empty")
		}
		room.Name = name
	}
	if attrs.Capacity != nil {
		if *attrs.Capacity < 1 {
			return nil, apperror.New(apperror.InvalidInput, "room capacity must be at least 1")
		}
		room.Capacity = *attrs.Capacity
	}
	if attrs.Amenities != nil {
		room.Amenities = normalizeAmenities(attrs.Amenities)
	}
	room.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, room); err != nil {
		return nil, fmt.Errorf("update room %s: %w", roomID, err)
	}

	s.mu.Lock()
	if _, still := s.rooms[roomID]; still {
		s.rooms[roomID] = room.Clone()
	}
	s.mu.Unlock()

	s.log.Info("Room updated", zap.String("room_id", roomID.String()))
	return room, nil
}

// DeleteRoom holds the room lock while checking for live bookings so a
// concurrent CreateBooking either sees the room gone or blocks the delete.
func (s *roomService) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	unlock := s.locks.Lock(roomID)

	s.mu.Lock()
	room, ok := s.rooms[roomID]
	if !ok {
		s.mu.Unlock()
		unlock()
		return apperror.New(apperror.NotFound, "room %s not found", roomID)
	}
	if s.ledger.HasActive(roomID) {
		s.mu.Unlock()
		unlock()
		return apperror.New(apperror.RoomInUse, "room %s still has active bookings", roomID)
	}
	delete(s.rooms, roomID)
	s.mu.Unlock()
	unlock()

	if err := s.repo.Delete(ctx, roomID, s.clock.Now()); err != nil {
		// put it back, nothing can have referenced it while it was gone
		s.mu.Lock()
		s.rooms[roomID] = room
		s.mu.Unlock()
		return fmt.Errorf("delete room %s: %w", roomID, err)
	}

	s.log.Info("Room deleted", zap.String("room_id", roomID.String()))
	return nil
}

// ListRooms returns the catalog ordered by ascending room id.
func (s *roomService) ListRooms(ctx context.Context) ([]entity.Room, error) {
	s.mu.RLock()
	rooms := make([]entity.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room.Clone())
	}
	s.mu.RUnlock()

	slices.SortFunc(rooms, compareRoomIDs)
	return rooms, nil
}

func compareRoomIDs(a, b entity.Room) int {
	return slices.Compare(a.ID[:], b.ID[:])
}

func normalizeAmenities(in []string) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" && !slices.Contains(out, a) {
			out = append(out, a)
		}
	}
	return out
}
