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

type TicketHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewTicketHandler(service usecase.BookingService, log *zap.Logger) *TicketHandler {
	return &TicketHandler{
		service: service,
		log:     log.With(zap.String("handler", "ticket")),
	}
}

// Create handles POST /api/tickets
func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseCreated(w, "Ticket booked", resp)
}

// GetByID handles GET /api/tickets/{id}
func (h *TicketHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// GetAll handles GET /api/tickets
func (h *TicketHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.FindAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// GetSelf handles GET /api/tickets/self: the caller's own tickets.
func (h *TicketHandler) GetSelf(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	resp, err := h.service.FindForClient(r.Context(), accountID.String())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// GetForClient handles GET /api/clients/{id}/tickets
func (h *TicketHandler) GetForClient(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.FindForClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

// Update handles PUT /api/tickets/{id} with the precondition token in If-Match.
func (h *TicketHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateTicketRequest
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

	utils.ResponseSuccess(w, "Ticket updated", resp)
}

// Delete handles DELETE /api/tickets/{id}
func (h *TicketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}

	utils.ResponseNoContent(w)
}
