package request

type CreateBookingRequest struct {
	RoomID     string `json:"roomId" validate:"required,uuid"`
	CheckIn    string `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"checkOut" validate:"required,datetime=2006-01-02"`
	GuestCount int    `json:"guestCount" validate:"required,min=1"`
}

type ModifyDatesRequest struct {
	CheckIn  string `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut string `json:"checkOut" validate:"required,datetime=2006-01-02"`
}

type ModifyGuestsRequest struct {
	GuestCount int `json:"guestCount" validate:"required,min=1"`
}
