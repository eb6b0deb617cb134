package response

import (
	"time"

	"hotel-reservation/internal/data/entity"
)

// BookingResponse is the stable serialized form of a booking.
type BookingResponse struct {
	BookingID    string     `json:"bookingId"`
	RoomID       string     `json:"roomId"`
	CustomerID   string     `json:"customerId"`
	CheckIn      string     `json:"checkIn"`
	CheckOut     string     `json:"checkOut"`
	GuestCount   int        `json:"guestCount"`
	State        string     `json:"state"`
	CancelReason string     `json:"cancelReason,omitempty"`
	CheckedInAt  *time.Time `json:"checkedInAt,omitempty"`
	CheckedOutAt *time.Time `json:"checkedOutAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func NewBookingResponse(b *entity.Booking) BookingResponse {
	resp := BookingResponse{
		BookingID:    b.ID.String(),
		RoomID:       b.RoomID.String(),
		CustomerID:   b.CustomerID.String(),
		CheckIn:      b.CheckIn.Format(entity.DateLayout),
		CheckOut:     b.CheckOut.Format(entity.DateLayout),
		GuestCount:   b.GuestCount,
		State:        string(b.Status),
		CancelReason: b.CancelReason,
		CreatedAt:    b.CreatedAt.UTC(),
		UpdatedAt:    b.UpdatedAt.UTC(),
	}
	if !b.CheckedInAt.IsZero() {
		at := b.CheckedInAt.UTC()
		resp.CheckedInAt = &at
	}
	if !b.CheckedOutAt.IsZero() {
		at := b.CheckedOutAt.UTC()
		resp.CheckedOutAt = &at
	}
	return resp
}

func NewBookingResponses(bookings []entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, NewBookingResponse(&bookings[i]))
	}
	return out
}
