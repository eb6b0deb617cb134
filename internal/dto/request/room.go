package request

type CreateRoomRequest struct {
	Name      string   `json:"name" validate:"required,max=100"`
	Capacity  int      `json:"capacity" validate:"required,min=1,max=50"`
	Amenities []string `json:"amenities" validate:"omitempty,dive,required,max=50"`
}

// UpdateRoomRequest is a partial update; omitted fields keep their value.
type UpdateRoomRequest struct {
	Name      *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Capacity  *int     `json:"capacity,omitempty" validate:"omitempty,min=1,max=50"`
	Amenities []string `json:"amenities,omitempty" validate:"omitempty,dive,required,max=50"`
}
