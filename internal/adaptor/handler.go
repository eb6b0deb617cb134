package adaptor

import (
	"encoding/json"
	"net/http"

	"hotel-reservation/internal/usecase"
	"hotel-reservation/pkg/apperror"
	"hotel-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Room         *RoomHandler
	Booking      *BookingHandler
	Availability *AvailabilityHandler
	Report       *ReportHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Room:         NewRoomHandler(service.Room, log),
		Booking:      NewBookingHandler(service.Reservation, log),
		Availability: NewAvailabilityHandler(service.Availability, log),
		Report:       NewReportHandler(service.Report, service.Room, log),
	}
}

// handleServiceError maps rejections to their status and reason; anything
// else is an infrastructure failure and becomes a 500.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	reason, ok := apperror.ReasonOf(err)
	if !ok {
		log.Error(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	log.Warn(operation+" rejected",
		zap.String("reason", string(reason)),
		zap.Error(err),
		zap.String("operation", operation))
	utils.ResponseRejected(w, apperror.HTTPStatus(reason), string(reason), err.Error())
}

// decodeAndValidate decodes a JSON body into req and runs the validator.
// It writes the 400 itself and reports false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return validate(w, req)
}

func validate(w http.ResponseWriter, req any) bool {
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseRejected(w, http.StatusBadRequest, string(apperror.InvalidInput), "Invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}
