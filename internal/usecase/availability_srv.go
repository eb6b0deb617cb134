package usecase

import (
	"context"
	"slices"
	"time"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/internal/data/index"
	"hotel-reservation/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RankingPolicy orders search results. It must be a total order.
type RankingPolicy func(a, b entity.Room) int

var (
	// RankByID is the default: ascending room id.
	RankByID RankingPolicy = compareRoomIDs

	// RankByCapacity puts the smallest room that fits first.
	RankByCapacity RankingPolicy = func(a, b entity.Room) int {
		if a.Capacity != b.Capacity {
			return a.Capacity - b.Capacity
		}
		return compareRoomIDs(a, b)
	}
)

func ParseRankingPolicy(name string) (RankingPolicy, error) {
	switch name {
	case "", "id":
		return RankByID, nil
	case "capacity":
		return RankByCapacity, nil
	default:
		return nil, apperror.New(apperror.InvalidInput, "unknown sort %q", name)
	}
}

type AvailabilityService interface {
	IsAvailable(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error)
	SearchAvailable(ctx context.Context, checkIn, checkOut time.Time, minCapacity int, rank RankingPolicy) ([]entity.Room, error)
}

// availabilityService reads the interval index directly, so answers reflect
// every transition committed before the call.
type availabilityService struct {
	rooms RoomService
	index *index.Index
	log   *zap.Logger
}

func NewAvailabilityService(rooms RoomService, idx *index.Index, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		rooms: rooms,
		index: idx,
		log:   log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) IsAvailable(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error) {
	checkIn, checkOut, err := stayRange(checkIn, checkOut)
	if err != nil {
		return false, err
	}
	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		return false, err
	}
	return len(s.index.FindOverlaps(roomID, checkIn, checkOut)) == 0, nil
}

func (s *availabilityService) SearchAvailable(ctx context.Context, checkIn, checkOut time.Time, minCapacity int, rank RankingPolicy) ([]entity.Room, error) {
	checkIn, checkOut, err := stayRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if minCapacity < 0 {
		return nil, apperror.New(apperror.InvalidInput, "minimum capacity cannot be negative")
	}
	if rank == nil {
		rank = RankByID
	}

	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]entity.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Capacity < minCapacity {
			continue
		}
		if len(s.index.FindOverlaps(room.ID, checkIn, checkOut)) > 0 {
			continue
		}
		available = append(available, room)
	}
	slices.SortStableFunc(available, rank)

	s.log.Debug("Availability search",
		zap.Time("check_in", checkIn),
		zap.Time("check_out", checkOut),
		zap.Int("min_capacity", minCapacity),
		zap.Int("candidates", len(rooms)),
		zap.Int("available", len(available)),
	)
	return available, nil
}

func stayRange(checkIn, checkOut time.Time) (time.Time, time.Time, error) {
	checkIn, checkOut = entity.Day(checkIn), entity.Day(checkOut)
	if !checkIn.Before(checkOut) {
		return checkIn, checkOut, apperror.New(apperror.InvalidRange, "check-in %s must be before check-out %s",
			checkIn.Format(entity.DateLayout), checkOut.Format(entity.DateLayout))
	}
	return checkIn, checkOut, nil
}
