package wire

import (
	"hotel-reservation/internal/adaptor"
	"hotel-reservation/internal/data/repository"
	"hotel-reservation/pkg/middleware"
	"hotel-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireRoom(
	r chi.Router,
	roomHandler *adaptor.RoomHandler,
	availabilityHandler *adaptor.AvailabilityHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/rooms", func(r chi.Router) {
		// GET /api/rooms - List rooms in ascending id order
		r.Get("/", roomHandler.GetRooms)

		// GET /api/rooms/available - Search rooms free for a stay
		r.Get("/available", availabilityHandler.SearchRooms)

		// GET /api/rooms/{id} - Room details
		r.Get("/{id}", roomHandler.GetRoomByID)

		// GET /api/rooms/{id}/availability - Is the room free for a stay
		r.Get("/{id}/availability", availabilityHandler.CheckRoom)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/rooms", func(r chi.Router) {
		// Require both authentication AND admin role
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(log))

		r.Post("/", roomHandler.CreateRoom)
		r.Put("/{id}", roomHandler.UpdateRoom)

		// DELETE /api/admin/rooms/{id} - Rejected while the room has active bookings
		r.Delete("/{id}", roomHandler.DeleteRoom)
	})
}
