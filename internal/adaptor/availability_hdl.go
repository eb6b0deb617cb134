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

type AvailabilityHandler struct {
	service usecase.AvailabilityService
	log     *zap.Logger
}

func NewAvailabilityHandler(service usecase.AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log.With(zap.String("handler", "availability")),
	}
}

// CheckRoom handles GET /api/rooms/{id}/availability?checkIn=&checkOut= (public)
func (h *AvailabilityHandler) CheckRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathID(w, r, "room")
	if !ok {
		return
	}

	query := r.URL.Query()
	req := request.StayQuery{
		CheckIn:  query.Get("checkIn"),
		CheckOut: query.Get("checkOut"),
	}
	if !validate(w, req) {
		return
	}
	checkIn, _ := entity.ParseDate(req.CheckIn)
	checkOut, _ := entity.ParseDate(req.CheckOut)

	available, err := h.service.IsAvailable(r.Context(), roomID, checkIn, checkOut)
	if err != nil {
		handleServiceError(w, h.log, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "success", response.AvailabilityResponse{
		RoomID:    roomID.String(),
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Available: available,
	})
}

// SearchRooms handles GET /api/rooms/available?checkIn=&checkOut=&guests=&sort= (public)
func (h *AvailabilityHandler) SearchRooms(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.SearchRoomsQuery{
		StayQuery: request.StayQuery{
			CheckIn:  query.Get("checkIn"),
			CheckOut: query.Get("checkOut"),
		},
		Guests: utils.QueryInt(query, "guests", 1),
		Sort:   query.Get("sort"),
	}
	if !validate(w, req) {
		return
	}
	checkIn, _ := entity.ParseDate(req.CheckIn)
	checkOut, _ := entity.ParseDate(req.CheckOut)

	rank, err := usecase.ParseRankingPolicy(req.Sort)
	if err != nil {
		handleServiceError(w, h.log, err, "search rooms")
		return
	}

	rooms, err := h.service.SearchAvailable(r.Context(), checkIn, checkOut, req.Guests, rank)
	if err != nil {
		handleServiceError(w, h.log, err, "search rooms")
		return
	}

	utils.ResponseSuccess(w, "success", response.NewRoomResponses(rooms))
}
