package wire

import (
	"cinema-tickets/internal/adaptor"
	"cinema-tickets/pkg/middleware"
	"cinema-tickets/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// Public
	r.Post("/api/auth/login", authHandler.Login)

	// Authenticated self lookup
	r.With(middleware.Auth(config.Security.AuthSecret, log)).
		Get("/api/auth/self", authHandler.Self)
}
