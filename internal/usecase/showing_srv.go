package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/data/repository"
	"cinema-tickets/internal/dto/request"
	"cinema-tickets/internal/dto/response"
	"cinema-tickets/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ShowingService interface {
	Create(ctx context.Context, req *request.ShowingRequest) (*response.ShowingResponse, error)
	FindByID(ctx context.Context, showingID string) (*response.ShowingResponse, error)
	FindAll(ctx context.Context) ([]*response.ShowingResponse, error)
	FindAllMatchingTitle(ctx context.Context, substring string) ([]*response.ShowingResponse, error)
	Update(ctx context.Context, showingID string, req *request.ShowingUpdateRequest, signature string) (*response.ShowingResponse, error)
	Delete(ctx context.Context, showingID string) error
}

type showingService struct {
	repo *repository.Repository
	sig  SignatureService
	log  *zap.Logger
}

func NewShowingService(repo *repository.Repository, sig SignatureService, log *zap.Logger) ShowingService {
	return &showingService{
		repo: repo,
		sig:  sig,
		log:  log.With(zap.String("service", "showing")),
	}
}

func (s *showingService) Create(ctx context.Context, req *request.ShowingRequest) (*response.ShowingResponse, error) {
	// Bounds checked before anything touches the store
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create showing validation failed", zap.Any("errors", errs))
		return nil, newValidationError(errs)
	}

	now := time.Now()
	showing := &entity.Showing{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:          req.Title,
		BasePrice:      req.BasePrice,
		RoomNumber:     req.RoomNumber,
		AvailableSeats: req.AvailableSeats,
	}

	if err := s.repo.Showing.Create(ctx, showing); err != nil {
		return nil, err
	}

	s.log.Info("Showing created",
		zap.String("showing_id", showing.ID.String()),
		zap.String("title", showing.Title),
		zap.Float64("base_price", showing.BasePrice),
		zap.Int("available_seats", showing.AvailableSeats),
	)

	return s.buildResponse(showing)
}

func (s *showingService) FindByID(ctx context.Context, showingID string) (*response.ShowingResponse, error) {
	id, err := uuid.Parse(showingID)
	if err != nil {
		return nil, fieldError("ID", "Must be a valid UUID")
	}

	showing, err := s.repo.Showing.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.buildResponse(showing)
}

func (s *showingService) FindAll(ctx context.Context) ([]*response.ShowingResponse, error) {
	showings, err := s.repo.Showing.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return s.buildResponses(showings)
}

func (s *showingService) FindAllMatchingTitle(ctx context.Context, substring string) ([]*response.ShowingResponse, error) {
	showings, err := s.repo.Showing.FindAllMatchingTitle(ctx, substring)
	if err != nil {
		return nil, err
	}

	return s.buildResponses(showings)
}

func (s *showingService) Update(ctx context.Context, showingID string, req *request.ShowingUpdateRequest, signature string) (*response.ShowingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	id, err := uuid.Parse(showingID)
	if err != nil {
		return nil, fieldError("ID", "Must be a valid UUID")
	}

	showing, err := s.repo.Showing.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// A concurrently sold seat changes the covered seat count and therefore
	// invalidates the token; the loser re-reads and retries
	if !s.sig.VerifyShowing(signature, showing) {
		s.log.Warn("Stale showing signature on update", zap.String("showing_id", showingID))
		return nil, ErrPreconditionFailed
	}

	showing.Title = req.Title
	showing.BasePrice = req.BasePrice
	showing.RoomNumber = req.RoomNumber
	showing.AvailableSeats = req.AvailableSeats
	showing.UpdatedAt = time.Now()

	if err := s.repo.Showing.Update(ctx, showing); err != nil {
		return nil, err
	}

	s.log.Info("Showing updated", zap.String("showing_id", showingID))
	return s.buildResponse(showing)
}

// Delete refuses to remove a showing that surviving tickets still reference;
// the catalog never silently deletes dependents.
func (s *showingService) Delete(ctx context.Context, showingID string) error {
	id, err := uuid.Parse(showingID)
	if err != nil {
		return fieldError("ID", "Must be a valid UUID")
	}

	count, err := s.repo.Ticket.CountByShowingID(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		s.log.Warn("Showing delete blocked by tickets",
			zap.String("showing_id", showingID),
			zap.Int64("ticket_count", count),
		)
		return fmt.Errorf("delete showing %s: %w", showingID, ErrReferencedByTicket)
	}

	return s.repo.Showing.Delete(ctx, id)
}

func (s *showingService) buildResponse(showing *entity.Showing) (*response.ShowingResponse, error) {
	signature, err := s.sig.SignShowing(showing)
	if err != nil {
		s.log.Error("Failed to sign showing snapshot",
			zap.Error(err),
			zap.String("showing_id", showing.ID.String()),
		)
		return nil, err
	}

	return response.ShowingToResponse(showing, signature), nil
}

func (s *showingService) buildResponses(showings []*entity.Showing) ([]*response.ShowingResponse, error) {
	responses := make([]*response.ShowingResponse, 0, len(showings))
	for _, showing := range showings {
		resp, err := s.buildResponse(showing)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}
