package wire

import (
	"hotel-reservation/internal/adaptor"
	"hotel-reservation/internal/data/repository"
	"hotel-reservation/pkg/middleware"
	"hotel-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReport(
	r chi.Router,
	reportHandler *adaptor.ReportHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/reports", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(log))

		r.Get("/occupancy", reportHandler.Occupancy)
		r.Get("/bookings", reportHandler.BookingsByState)
		r.Get("/summary", reportHandler.Summary)
	})
}
