package request

// StayQuery is bound from query parameters of availability and report endpoints.
type StayQuery struct {
	CheckIn  string `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"checkOut" validate:"required,datetime=2006-01-02"`
}

type SearchRoomsQuery struct {
	StayQuery
	Guests int    `json:"guests" validate:"min=1"`
	Sort   string `json:"sort" validate:"omitempty,oneof=id capacity"`
}

type OccupancyQuery struct {
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" validate:"required,datetime=2006-01-02"`
}
