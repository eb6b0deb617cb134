package wire

import (
	"hotel-reservation/internal/adaptor"
	"hotel-reservation/internal/data/repository"
	"hotel-reservation/pkg/middleware"
	"hotel-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/bookings - Place a PENDING hold
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// Owner or admin only; checked in the handler
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)
		r.Post("/api/bookings/{id}/confirm", bookingHandler.ConfirmBooking)
		r.Post("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)
		r.Put("/api/bookings/{id}/dates", bookingHandler.ModifyDates)
		r.Put("/api/bookings/{id}/guests", bookingHandler.ModifyGuests)

		// GET /api/user/bookings - Caller's bookings, newest first
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(log))

		r.Post("/{id}/check-in", bookingHandler.CheckIn)
		r.Post("/{id}/check-out", bookingHandler.CheckOut)
	})
}
