package adaptor

import (
	"encoding/json"
	"net/http"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/dto/request"
	"cinema-tickets/internal/usecase"
	"cinema-tickets/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AccountHandler struct {
	service usecase.AccountService
	log     *zap.Logger
}

func NewAccountHandler(service usecase.AccountService, log *zap.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		log:     log.With(zap.String("handler", "account")),
	}
}

// Register handles POST /api/accounts
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseCreated(w, "Account registered", resp)
}

// GetByID handles GET /api/accounts/{id}
func (h *AccountHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// GetByLogin handles GET /api/accounts/login/{login}
func (h *AccountHandler) GetByLogin(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.FindByLogin(r.Context(), chi.URLParam(r, "login"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// GetAll handles GET /api/accounts; with ?login=substr it narrows to logins
// containing the substring.
func (h *AccountHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if substring := r.URL.Query().Get("login"); substring != "" {
		resp, err := h.service.FindAllMatchingLogin(r.Context(), substring)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		utils.ResponseSuccess(w, "success", resp)
		return
	}

	resp, err := h.service.FindAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// Update handles PUT /api/accounts/{id}; the precondition token rides in
// If-Match, obtained from a prior read.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	signature := r.Header.Get("If-Match")
	if signature == "" {
		utils.ResponseBadRequest(w, "Missing If-Match signature header", nil)
		return
	}

	resp, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req, signature)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Account updated", resp)
}

// ChangePassword handles PUT /api/accounts/{id}/password
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req request.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.ChangePassword(r.Context(), chi.URLParam(r, "id"), &req); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Password changed", nil)
}

// Activate handles POST /api/accounts/{id}/activate
func (h *AccountHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.SetActive(r.Context(), chi.URLParam(r, "id"), true); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Account activated", nil)
}

// Deactivate handles POST /api/accounts/{id}/deactivate
func (h *AccountHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.SetActive(r.Context(), chi.URLParam(r, "id"), false); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Account deactivated", nil)
}

// Delete handles DELETE /api/accounts/{id}
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseNoContent(w)
}

// GrantRole handles POST /api/accounts/{id}/roles/{role}
func (h *AccountHandler) GrantRole(w http.ResponseWriter, r *http.Request) {
	role := entity.Role(chi.URLParam(r, "role"))
	if err := h.service.GrantRole(r.Context(), chi.URLParam(r, "id"), role); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Role granted", nil)
}

// RevokeRole handles DELETE /api/accounts/{id}/roles/{role}
func (h *AccountHandler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	role := entity.Role(chi.URLParam(r, "role"))
	if err := h.service.RevokeRole(r.Context(), chi.URLParam(r, "id"), role); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Role revoked", nil)
}

// ResolveFacet handles the legacy facet-addressed reads:
// GET /api/clients/{id}, GET /api/staff/{id}, GET /api/admins/{id}
func (h *AccountHandler) ResolveFacet(role entity.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.service.ResolveFacet(r.Context(), chi.URLParam(r, "id"), role)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		utils.ResponseSuccess(w, "success", resp)
	}
}
