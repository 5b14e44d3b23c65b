package usecase

import (
	"context"
	"errors"
	"time"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/data/repository"
	"cinema-tickets/internal/dto/request"
	"cinema-tickets/internal/dto/response"
	"cinema-tickets/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reduced-class tickets get exactly this discount off the showing's base
// price at booking time.
const reducedClassFactor = 0.75

// BookingService is the only path that creates tickets; direct construction
// would bypass the seat reservation.
type BookingService interface {
	Create(ctx context.Context, req *request.CreateTicketRequest) (*response.TicketResponse, error)
	FindByID(ctx context.Context, ticketID string) (*response.TicketResponse, error)
	FindAll(ctx context.Context) ([]*response.TicketResponse, error)
	FindForClient(ctx context.Context, clientID string) ([]*response.TicketResponse, error)
	Update(ctx context.Context, ticketID string, req *request.UpdateTicketRequest, signature string) (*response.TicketResponse, error)
	Delete(ctx context.Context, ticketID string) error
}

type bookingService struct {
	repo *repository.Repository
	sig  SignatureService
	log  *zap.Logger
}

func NewBookingService(repo *repository.Repository, sig SignatureService, log *zap.Logger) BookingService {
	return &bookingService{
		repo: repo,
		sig:  sig,
		log:  log.With(zap.String("service", "booking")),
	}
}

// Create books one seat: requested -> committed or rejected, nothing in
// between. Eligibility checks run first; the seat decrement and the ticket
// insert then commit as one unit of work in the repository.
func (s *bookingService) Create(ctx context.Context, req *request.CreateTicketRequest) (*response.TicketResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create ticket validation failed", zap.Any("errors", errs))
		return nil, newValidationError(errs)
	}

	showTime, err := time.Parse(time.RFC3339, req.ShowTime)
	if err != nil || showTime.IsZero() {
		return nil, rejected(RejectInvalidShowTime)
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, fieldError("ClientID", "Must be a valid UUID")
	}
	showingID, err := uuid.Parse(req.ShowingID)
	if err != nil {
		return nil, fieldError("ShowingID", "Must be a valid UUID")
	}

	// 1. Resolve the client: the account must exist, hold the client facet,
	// and be active
	client, err := s.repo.Account.FindByID(ctx, clientID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, rejected(RejectClientNotFound)
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.RoleFacet.FindByAccountAndRole(ctx, clientID, entity.RoleClient); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, rejected(RejectClientNotFound)
		}
		return nil, err
	}
	if !client.IsActive {
		return nil, rejected(RejectClientInactive)
	}

	// 2. Resolve the showing
	showing, err := s.repo.Showing.FindByID(ctx, showingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, rejected(RejectShowingNotFound)
	}
	if err != nil {
		return nil, err
	}

	// 3. Price is fixed now, from the base price read here; later price
	// changes never touch issued tickets
	class := entity.TicketClass(req.Class)
	if class == "" {
		class = entity.TicketClassNormal
	}
	finalPrice := showing.BasePrice
	if class == entity.TicketClassReduced {
		finalPrice = showing.BasePrice * reducedClassFactor
	}

	now := time.Now()
	ticket := &entity.Ticket{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ShowTime:   showTime,
		FinalPrice: finalPrice,
		ClientID:   clientID,
		ShowingID:  showingID,
		Class:      class,
	}

	// 4. Atomic seat-decrement-and-insert; the repository rejects with
	// ErrNoSeats when the inventory is exhausted, including the race where
	// another booking took the last seat after our read above
	if err := s.repo.Ticket.CreateReserving(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrNoSeats) {
			s.log.Info("Booking rejected: no seats",
				zap.String("showing_id", req.ShowingID),
				zap.String("client_id", req.ClientID),
			)
			return nil, rejected(RejectNoSeatsAvailable)
		}
		s.log.Error("Failed to book ticket",
			zap.Error(err),
			zap.String("showing_id", req.ShowingID),
			zap.String("client_id", req.ClientID),
		)
		return nil, err
	}

	s.log.Info("Ticket booked",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("client_id", req.ClientID),
		zap.String("showing_id", req.ShowingID),
		zap.String("class", string(class)),
		zap.Float64("final_price", finalPrice),
	)

	return s.buildResponse(ticket)
}

func (s *bookingService) FindByID(ctx context.Context, ticketID string) (*response.TicketResponse, error) {
	id, err := uuid.Parse(ticketID)
	if err != nil {
		return nil, fieldError("ID", "Must be a valid UUID")
	}

	ticket, err := s.repo.Ticket.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.buildResponse(ticket)
}

func (s *bookingService) FindAll(ctx context.Context) ([]*response.TicketResponse, error) {
	tickets, err := s.repo.Ticket.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return s.buildResponses(tickets)
}

func (s *bookingService) FindForClient(ctx context.Context, clientID string) ([]*response.TicketResponse, error) {
	id, err := uuid.Parse(clientID)
	if err != nil {
		return nil, fieldError("ClientID", "Must be a valid UUID")
	}

	tickets, err := s.repo.Ticket.FindByClientID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.buildResponses(tickets)
}

// Update changes the scheduled time only; price and both references are
// immutable after creation. Requires a token fresh against the persisted
// ticket.
func (s *bookingService) Update(ctx context.Context, ticketID string, req *request.UpdateTicketRequest, signature string) (*response.TicketResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	showTime, err := time.Parse(time.RFC3339, req.ShowTime)
	if err != nil || showTime.IsZero() {
		return nil, rejected(RejectInvalidShowTime)
	}

	id, err := uuid.Parse(ticketID)
	if err != nil {
		return nil, fieldError("ID", "Must be a valid UUID")
	}

	ticket, err := s.repo.Ticket.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.sig.VerifyTicket(signature, ticket) {
		s.log.Warn("Stale ticket signature on update", zap.String("ticket_id", ticketID))
		return nil, ErrPreconditionFailed
	}

	ticket.ShowTime = showTime
	ticket.UpdatedAt = time.Now()

	if err := s.repo.Ticket.UpdateShowTime(ctx, ticket); err != nil {
		return nil, err
	}

	s.log.Info("Ticket show time updated", zap.String("ticket_id", ticketID))
	return s.buildResponse(ticket)
}

// Delete cancels the ticket. The seat is not returned to the showing;
// cancelled inventory stays off sale.
func (s *bookingService) Delete(ctx context.Context, ticketID string) error {
	id, err := uuid.Parse(ticketID)
	if err != nil {
		return fieldError("ID", "Must be a valid UUID")
	}

	return s.repo.Ticket.Delete(ctx, id)
}

func (s *bookingService) buildResponse(ticket *entity.Ticket) (*response.TicketResponse, error) {
	signature, err := s.sig.SignTicket(ticket)
	if err != nil {
		s.log.Error("Failed to sign ticket snapshot",
			zap.Error(err),
			zap.String("ticket_id", ticket.ID.String()),
		)
		return nil, err
	}

	return response.TicketToResponse(ticket, signature), nil
}

func (s *bookingService) buildResponses(tickets []*entity.Ticket) ([]*response.TicketResponse, error) {
	responses := make([]*response.TicketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		resp, err := s.buildResponse(ticket)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}
