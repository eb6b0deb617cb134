package adaptor

import (
	"context"
	"net/http"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/internal/dto/request"
	"hotel-reservation/internal/dto/response"
	"hotel-reservation/internal/usecase"
	"hotel-reservation/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.ReservationService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	customerID, ok := utils.GetCustomerIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	// format sudah dicek validator
	roomID, _ := uuid.Parse(req.RoomID)
	checkIn, _ := entity.ParseDate(req.CheckIn)
	checkOut, _ := entity.ParseDate(req.CheckOut)

	booking, err := h.service.CreateBooking(r.Context(), roomID, customerID, checkIn, checkOut, req.GuestCount)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created", response.NewBookingResponse(booking))
}

// GetBooking handles GET /api/bookings/{id} (owner or admin)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, ok := h.ownedBooking(w, r)
	if !ok {
		return
	}

	utils.ResponseSuccess(w, "success", response.NewBookingResponse(booking))
}

// ConfirmBooking handles POST /api/bookings/{id}/confirm (owner or admin)
func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "confirm booking", h.service.ConfirmBooking)
}

// CancelBooking handles POST /api/bookings/{id}/cancel (owner or admin)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "cancel booking", h.service.CancelBooking)
}

// ModifyDates handles PUT /api/bookings/{id}/dates (owner or admin)
func (h *BookingHandler) ModifyDates(w http.ResponseWriter, r *http.Request) {
	booking, ok := h.ownedBooking(w, r)
	if !ok {
		return
	}

	var req request.ModifyDatesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	checkIn, _ := entity.ParseDate(req.CheckIn)
	checkOut, _ := entity.ParseDate(req.CheckOut)

	updated, err := h.service.ModifyDates(r.Context(), booking.ID, checkIn, checkOut)
	if err != nil {
		handleServiceError(w, h.log, err, "modify booking dates")
		return
	}

	utils.ResponseSuccess(w, "Booking updated", response.NewBookingResponse(updated))
}

// ModifyGuests handles PUT /api/bookings/{id}/guests (owner or admin)
func (h *BookingHandler) ModifyGuests(w http.ResponseWriter, r *http.Request) {
	booking, ok := h.ownedBooking(w, r)
	if !ok {
		return
	}

	var req request.ModifyGuestsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.service.ModifyGuestCount(r.Context(), booking.ID, req.GuestCount)
	if err != nil {
		handleServiceError(w, h.log, err, "modify guest count")
		return
	}

	utils.ResponseSuccess(w, "Booking updated", response.NewBookingResponse(updated))
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	customerID, ok := utils.GetCustomerIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := request.PaginatedRequest{
		Page:    utils.QueryInt(query, "page", 1),
		PerPage: utils.QueryInt(query, "per_page", 10),
	}
	if !validate(w, req) {
		return
	}

	bookings, total, err := h.service.ListCustomerBookings(r.Context(), customerID, req)
	if err != nil {
		handleServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success",
		response.NewPaginatedResponse(response.NewBookingResponses(bookings), req.Page, req.PerPage, total))
}

// ==================== ADMIN METHODS ====================

// CheckIn handles POST /api/admin/bookings/{id}/check-in (admin only)
func (h *BookingHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "check in", h.service.CheckIn)
}

// CheckOut handles POST /api/admin/bookings/{id}/check-out (admin only)
func (h *BookingHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "check out", h.service.CheckOut)
}

// ==================== HELPERS ====================

type transitionFunc func(ctx context.Context, bookingID uuid.UUID) (*entity.Booking, error)

func (h *BookingHandler) transition(w http.ResponseWriter, r *http.Request, operation string, fn transitionFunc) {
	booking, ok := h.ownedBooking(w, r)
	if !ok {
		return
	}

	updated, err := fn(r.Context(), booking.ID)
	if err != nil {
		handleServiceError(w, h.log, err, operation)
		return
	}

	utils.ResponseSuccess(w, "success", response.NewBookingResponse(updated))
}

// ownedBooking loads the booking named in the path and checks the caller may
// act on it. Other customers get 404 so booking ids cannot be probed.
func (h *BookingHandler) ownedBooking(w http.ResponseWriter, r *http.Request) (*entity.Booking, bool) {
	customerID, ok := utils.GetCustomerIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return nil, false
	}

	bookingID, ok := pathID(w, r, "booking")
	if !ok {
		return nil, false
	}

	booking, err := h.service.GetBooking(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return nil, false
	}

	if booking.CustomerID != customerID && !utils.IsAdmin(r.Context()) {
		h.log.Warn("Booking access denied",
			zap.String("booking_id", bookingID.String()),
			zap.String("customer_id", customerID.String()))
		utils.ResponseNotFound(w, "Booking not found")
		return nil, false
	}
	return booking, true
}
