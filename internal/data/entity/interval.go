package entity

import (
	"time"

	"github.com/google/uuid"
)

// IntervalEntry is the index projection of a CONFIRMED or CHECKED_IN booking.
// The range is half-open: [Start, End).
type IntervalEntry struct {
	RoomID    uuid.UUID
	BookingID uuid.UUID
	Start     time.Time
	End       time.Time
	Status    BookingStatus
}

// Overlaps reports whether the entry intersects [start, end).
func (e IntervalEntry) Overlaps(start, end time.Time) bool {
	return e.Start.Before(end) && start.Before(e.End)
}
