package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"cinema-tickets/internal/dto/request"
	"cinema-tickets/internal/usecase"
	"cinema-tickets/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		var validationErr *usecase.ValidationError
		if errors.As(err, &validationErr) {
			utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)
			return
		}
		// Credential failures are reported uniformly; no login enumeration
		utils.ResponseUnauthorized(w, "Invalid credentials")
		return
	}

	utils.ResponseSuccess(w, "Login successful", resp)
}

// Self handles GET /api/auth/self
func (h *AuthHandler) Self(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Self(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}
