package usecase

import (
	"context"
	"time"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/internal/data/ledger"
	"hotel-reservation/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxReportDays bounds the occupancy window.
const maxReportDays = 366

type DailyOccupancy struct {
	Date          time.Time
	OccupiedRooms int
}

type Summary struct {
	Total   int
	ByState map[entity.BookingStatus]int
}

// ReportService works on a ledger snapshot taken when the query starts. It
// sees every transaction completed before that point and none after it, and
// never holds a room lock.
type ReportService interface {
	OccupancyForRange(ctx context.Context, start, end time.Time) ([]DailyOccupancy, error)
	BookingsByState(ctx context.Context, status entity.BookingStatus) ([]uuid.UUID, error)
	Summary(ctx context.Context) (*Summary, error)
}

type reportService struct {
	ledger *ledger.Ledger
	log    *zap.Logger
}

func NewReportService(ledger *ledger.Ledger, log *zap.Logger) ReportService {
	return &reportService{
		ledger: ledger,
		log:    log.With(zap.String("service", "report")),
	}
}

func (s *reportService) OccupancyForRange(ctx context.Context, start, end time.Time) ([]DailyOccupancy, error) {
	start, end = entity.Day(start), entity.Day(end)
	if !start.Before(end) {
		return nil, apperror.New(apperror.InvalidRange, "report start %s must be before end %s",
			start.Format(entity.DateLayout), end.Format(entity.DateLayout))
	}
	days := int(end.Sub(start).Hours() / 24)
	if days > maxReportDays {
		return nil, apperror.New(apperror.InvalidRange, "report window of %d days exceeds %d", days, maxReportDays)
	}

	occupied := make([]map[uuid.UUID]struct{}, days)
	for _, b := range s.ledger.Snapshot() {
		if !b.Status.IsBlocking() && b.Status != entity.BookingStatusCheckedOut {
			continue
		}
		from := max(0, int(b.CheckIn.Sub(start).Hours()/24))
		to := min(days, int(b.CheckOut.Sub(start).Hours()/24))
		for d := from; d < to; d++ {
			if !b.OccupiesDay(start.AddDate(0, 0, d)) {
				continue
			}
			if occupied[d] == nil {
				occupied[d] = make(map[uuid.UUID]struct{})
			}
			occupied[d][b.RoomID] = struct{}{}
		}
	}

	report := make([]DailyOccupancy, days)
	for d := range report {
		report[d] = DailyOccupancy{
			Date:          start.AddDate(0, 0, d),
			OccupiedRooms: len(occupied[d]),
		}
	}
	return report, nil
}

func (s *reportService) BookingsByState(ctx context.Context, status entity.BookingStatus) ([]uuid.UUID, error) {
	bookings := s.ledger.ByState(status)
	ids := make([]uuid.UUID, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
	}
	return ids, nil
}

func (s *reportService) Summary(ctx context.Context) (*Summary, error) {
	summary := &Summary{ByState: make(map[entity.BookingStatus]int, len(entity.AllBookingStatuses))}
	for _, status := range entity.AllBookingStatuses {
		summary.ByState[status] = 0
	}
	for _, b := range s.ledger.Snapshot() {
		summary.ByState[b.Status]++
		summary.Total++
	}
	return summary, nil
}
