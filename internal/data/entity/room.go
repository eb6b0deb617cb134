package entity

import "slices"

type Room struct {
	Base
	Name      string   `db:"name"`
	Capacity  int      `db:"capacity"`
	Amenities []string `db:"amenities"`
}

// RoomAttributes is a partial update; nil fields are left untouched.
type RoomAttributes struct {
	Name      *string
	Capacity  *int
	Amenities []string
}

// Clone returns a copy that shares no mutable state with r.
func (r Room) Clone() Room {
	r.Amenities = slices.Clone(r.Amenities)
	if r.DeletedAt != nil {
		deleted := *r.DeletedAt
		r.DeletedAt = &deleted
	}
	return r
}
