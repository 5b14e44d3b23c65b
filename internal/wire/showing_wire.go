package wire

import (
	"cinema-tickets/internal/adaptor"
	"cinema-tickets/internal/data/entity"
	"cinema-tickets/pkg/middleware"
	"cinema-tickets/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireShowing(
	r chi.Router,
	showingHandler *adaptor.ShowingHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	auth := middleware.Auth(config.Security.AuthSecret, log)
	staff := middleware.RequireRole(string(entity.RoleStaff), log)

	// Public catalog reads
	r.Get("/api/showings", showingHandler.GetAll)
	r.Get("/api/showings/{id}", showingHandler.GetByID)

	// Staff catalog management
	r.With(auth, staff).Route("/api/staff/showings", func(r chi.Router) {
		r.Post("/", showingHandler.Create)
		r.Put("/{id}", showingHandler.Update)
		r.Delete("/{id}", showingHandler.Delete)
	})
}
