package adaptor

import (
	"encoding/json"
	"net/http"

	"cinema-tickets/internal/dto/request"
	"cinema-tickets/internal/usecase"
	"cinema-tickets/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ShowingHandler struct {
	service usecase.ShowingService
	log     *zap.Logger
}

func NewShowingHandler(service usecase.ShowingService, log *zap.Logger) *ShowingHandler {
	return &ShowingHandler{
		service: service,
		log:     log.With(zap.String("handler", "showing")),
	}
}

// Create handles POST /api/showings
func (h *ShowingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.ShowingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseCreated(w, "Showing created", resp)
}

// GetByID handles GET /api/showings/{id}
func (h *ShowingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// GetAll handles GET /api/showings; with ?title=substr it narrows to titles
// containing the substring.
func (h *ShowingHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if substring := r.URL.Query().Get("title"); substring != "" {
		resp, err := h.service.FindAllMatchingTitle(r.Context(), substring)
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

// Update handles PUT /api/showings/{id} with the precondition token in If-Match.
func (h *ShowingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.ShowingUpdateRequest
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

	utils.ResponseSuccess(w, "Showing updated", resp)
}

// Delete handles DELETE /api/showings/{id}
func (h *ShowingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseNoContent(w)
}
