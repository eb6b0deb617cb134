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

type RoomHandler struct {
	service usecase.RoomService
	log     *zap.Logger
}

func NewRoomHandler(service usecase.RoomService, log *zap.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		log:     log.With(zap.String("handler", "room")),
	}
}

// GetRooms handles GET /api/rooms (public)
func (h *RoomHandler) GetRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list rooms")
		return
	}

	utils.ResponseSuccess(w, "success", response.NewRoomResponses(rooms))
}

// GetRoomByID handles GET /api/rooms/{id} (public)
func (h *RoomHandler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathID(w, r, "room")
	if !ok {
		return
	}

	room, err := h.service.GetRoom(r.Context(), roomID)
	if err != nil {
		handleServiceError(w, h.log, err, "get room")
		return
	}

	utils.ResponseSuccess(w, "success", response.NewRoomResponse(room))
}

// ==================== ADMIN METHODS ====================

// CreateRoom handles POST /api/admin/rooms (admin only)
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	room, err := h.service.CreateRoom(r.Context(), entity.RoomAttributes{
		Name:      &req.Name,
		Capacity:  &req.Capacity,
		Amenities: req.Amenities,
	})
	if err != nil {
		handleServiceError(w, h.log, err, "create room")
		return
	}

	utils.ResponseCreated(w, "Room created", response.NewRoomResponse(room))
}

// UpdateRoom handles PUT /api/admin/rooms/{id} (admin only)
func (h *RoomHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathID(w, r, "room")
	if !ok {
		return
	}

	var req request.UpdateRoomRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	room, err := h.service.UpdateAttributes(r.Context(), roomID, entity.RoomAttributes{
		Name:      req.Name,
		Capacity:  req.Capacity,
		Amenities: req.Amenities,
	})
	if err != nil {
		handleServiceError(w, h.log, err, "update room")
		return
	}

	utils.ResponseSuccess(w, "Room updated", response.NewRoomResponse(room))
}

// DeleteRoom handles DELETE /api/admin/rooms/{id} (admin only)
func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathID(w, r, "room")
	if !ok {
		return
	}

	if err := h.service.DeleteRoom(r.Context(), roomID); err != nil {
		handleServiceError(w, h.log, err, "delete room")
		return
	}

	utils.ResponseSuccess(w, "Room deleted", nil)
}
