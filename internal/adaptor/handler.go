package adaptor

import (
	"errors"
	"net/http"

	"cinema-tickets/internal/data/repository"
	"cinema-tickets/internal/usecase"
	"cinema-tickets/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Account *AccountHandler
	Showing *ShowingHandler
	Ticket  *TicketHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Account: NewAccountHandler(service.Account, log),
		Showing: NewShowingHandler(service.Showing, log),
		Ticket:  NewTicketHandler(service.Booking, log),
	}
}

// writeServiceError maps the service error taxonomy onto HTTP statuses in
// one place so every handler reports failures the same way.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *usecase.ValidationError
	if errors.As(err, &validationErr) {
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)
		return
	}

	var rejectedErr *usecase.RejectedError
	if errors.As(err, &rejectedErr) {
		utils.ResponseUnprocessable(w, rejectedErr.Error())
		return
	}

	switch {
	case errors.Is(err, usecase.ErrPreconditionFailed):
		utils.ResponsePreconditionFailed(w, "Stale signature; re-read the resource and retry")
	case errors.Is(err, usecase.ErrReferencedByTicket):
		utils.ResponseConflict(w, "Resource is referenced by at least one ticket")
	case errors.Is(err, usecase.ErrAlreadyGranted):
		utils.ResponseConflict(w, "Role already granted")
	case errors.Is(err, usecase.ErrNotGranted):
		utils.ResponseConflict(w, "Role not granted")
	case errors.Is(err, repository.ErrConflict):
		utils.ResponseConflict(w, "Conflicts with an existing resource")
	case errors.Is(err, repository.ErrNotFound):
		utils.ResponseNotFound(w, "Resource not found")
	default:
		utils.ResponseInternalError(w, "Internal server error")
	}
}
