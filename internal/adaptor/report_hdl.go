package adaptor

import (
	"net/http"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/internal/dto/request"
	"hotel-reservation/internal/dto/response"
	"hotel-reservation/internal/usecase"
	"hotel-reservation/pkg/utils"

	"go.uber.org/zap"
)

type ReportHandler struct {
	service usecase.ReportService
	rooms   usecase.RoomService
	log     *zap.Logger
}

func NewReportHandler(service usecase.ReportService, rooms usecase.RoomService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		rooms:   rooms,
		log:     log.With(zap.String("handler", "report")),
	}
}

// Occupancy handles GET /api/admin/reports/occupancy?from=&to= (admin only)
func (h *ReportHandler) Occupancy(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.OccupancyQuery{
		From: query.Get("from"),
		To:   query.Get("to"),
	}
	if !validate(w, req) {
		return
	}
	from, _ := entity.ParseDate(req.From)
	to, _ := entity.ParseDate(req.To)

	days, err := h.service.OccupancyForRange(r.Context(), from, to)
	if err != nil {
		handleServiceError(w, h.log, err, "occupancy report")
		return
	}

	rooms, err := h.rooms.ListRooms(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "occupancy report")
		return
	}

	out := make([]response.DailyOccupancyResponse, len(days))
	for i, day := range days {
		out[i] = response.DailyOccupancyResponse{
			Date:          day.Date.Format(entity.DateLayout),
			OccupiedRooms: day.OccupiedRooms,
			TotalRooms:    len(rooms),
		}
	}
	utils.ResponseSuccess(w, "success", out)
}

// BookingsByState handles GET /api/admin/reports/bookings?state= (admin only)
func (h *ReportHandler) BookingsByState(w http.ResponseWriter, r *http.Request) {
	state, err := entity.ParseBookingStatus(r.URL.Query().Get("state"))
	if err != nil {
		handleServiceError(w, h.log, err, "bookings by state")
		return
	}

	ids, err := h.service.BookingsByState(r.Context(), state)
	if err != nil {
		handleServiceError(w, h.log, err, "bookings by state")
		return
	}

	out := response.BookingsByStateResponse{State: string(state), BookingIDs: make([]string, len(ids))}
	for i, id := range ids {
		out.BookingIDs[i] = id.String()
	}
	utils.ResponseSuccess(w, "success", out)
}

// Summary handles GET /api/admin/reports/summary (admin only)
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "summary report")
		return
	}

	out := response.SummaryResponse{Total: summary.Total, ByState: make(map[string]int, len(summary.ByState))}
	for state, n := range summary.ByState {
		out.ByState[string(state)] = n
	}
	utils.ResponseSuccess(w, "success", out)
}
