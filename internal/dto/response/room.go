package response

import (
	"time"

	"hotel-reservation/internal/data/entity"
)

type RoomResponse struct {
	RoomID    string    `json:"roomId"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Amenities []string  `json:"amenities"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewRoomResponse(r *entity.Room) RoomResponse {
	amenities := r.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return RoomResponse{
		RoomID:    r.ID.String(),
		Name:      r.Name,
		Capacity:  r.Capacity,
		Amenities: amenities,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func NewRoomResponses(rooms []entity.Room) []RoomResponse {
	out := make([]RoomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, NewRoomResponse(&rooms[i]))
	}
	return out
}

type AvailabilityResponse struct {
	RoomID    string `json:"roomId"`
	CheckIn   string `json:"checkIn"`
	CheckOut  string `json:"checkOut"`
	Available bool   `json:"available"`
}
