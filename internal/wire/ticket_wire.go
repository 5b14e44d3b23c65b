package wire

import (
	"cinema-tickets/internal/adaptor"
	"cinema-tickets/internal/data/entity"
	"cinema-tickets/pkg/middleware"
	"cinema-tickets/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTicket(
	r chi.Router,
	ticketHandler *adaptor.TicketHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	auth := middleware.Auth(config.Security.AuthSecret, log)
	client := middleware.RequireRole(string(entity.RoleClient), log)
	staff := middleware.RequireRole(string(entity.RoleStaff), log)

	// Client booking and self-service
	r.With(auth, client).Route("/api/tickets", func(r chi.Router) {
		r.Post("/", ticketHandler.Create)
		r.Get("/self", ticketHandler.GetSelf)
		r.Get("/{id}", ticketHandler.GetByID)
		r.Put("/{id}", ticketHandler.Update)
		r.Delete("/{id}", ticketHandler.Delete)
	})

	// Staff oversight
	r.With(auth, staff).Get("/api/staff/tickets", ticketHandler.GetAll)
	r.With(auth, staff).Get("/api/clients/{id}/tickets", ticketHandler.GetForClient)
}
