package wire

import (
	"cinema-tickets/internal/adaptor"
	"cinema-tickets/internal/data/entity"
	"cinema-tickets/pkg/middleware"
	"cinema-tickets/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireAccount configures account and role-facet routes. Role checks happen
// here in middleware; the services below assume an authorized caller.
func wireAccount(
	r chi.Router,
	accountHandler *adaptor.AccountHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	auth := middleware.Auth(config.Security.AuthSecret, log)
	admin := middleware.RequireRole(string(entity.RoleAdmin), log)
	staff := middleware.RequireRole(string(entity.RoleStaff), log)

	// Public registration
	r.Post("/api/accounts", accountHandler.Register)

	// Staff-facing reads
	r.With(auth, staff).Route("/api/accounts", func(r chi.Router) {
		r.Get("/", accountHandler.GetAll)
		r.Get("/{id}", accountHandler.GetByID)
		r.Get("/login/{login}", accountHandler.GetByLogin)
	})

	// Self-service mutations
	r.With(auth).Put("/api/accounts/{id}", accountHandler.Update)
	r.With(auth).Put("/api/accounts/{id}/password", accountHandler.ChangePassword)

	// Admin account management
	r.With(auth, admin).Route("/api/admin/accounts", func(r chi.Router) {
		r.Post("/{id}/activate", accountHandler.Activate)
		r.Post("/{id}/deactivate", accountHandler.Deactivate)
		r.Delete("/{id}", accountHandler.Delete)
		r.Post("/{id}/roles/{role}", accountHandler.GrantRole)
		r.Delete("/{id}/roles/{role}", accountHandler.RevokeRole)
	})

	// Legacy facet-addressed reads
	r.With(auth, staff).Get("/api/clients/{id}", accountHandler.ResolveFacet(entity.RoleClient))
	r.With(auth, staff).Get("/api/staff/{id}", accountHandler.ResolveFacet(entity.RoleStaff))
	r.With(auth, admin).Get("/api/admins/{id}", accountHandler.ResolveFacet(entity.RoleAdmin))
}
