package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"cinema-tickets/internal/data/entity"
	"cinema-tickets/internal/data/repository"
	"cinema-tickets/internal/dto/request"
	"cinema-tickets/internal/dto/response"
	"cinema-tickets/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AccountService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AccountResponse, error)
	FindByID(ctx context.Context, accountID string) (*response.AccountResponse, error)
	FindByLogin(ctx context.Context, login string) (*response.AccountResponse, error)
	FindAllMatchingLogin(ctx context.Context, substring string) ([]*response.AccountResponse, error)
	FindAll(ctx context.Context) ([]*response.AccountResponse, error)

	// Update changes the login. It requires a signature token matching the
	// currently persisted account state.
	Update(ctx context.Context, accountID string, req *request.UpdateAccountRequest, signature string) (*response.AccountResponse, error)
	ChangePassword(ctx context.Context, accountID string, req *request.ChangePasswordRequest) error
	SetActive(ctx context.Context, accountID string, active bool) error
	Delete(ctx context.Context, accountID string) error

	GrantRole(ctx context.Context, accountID string, role entity.Role) error
	RevokeRole(ctx context.Context, accountID string, role entity.Role) error

	// ResolveFacet answers the legacy "find the client/staff/admin with id X"
	// lookups by joining a facet id back to its single owning account.
	ResolveFacet(ctx context.Context, facetID string, role entity.Role) (*response.AccountResponse, error)
}

type accountService struct {
	repo            *repository.Repository
	sig             SignatureService
	log             *zap.Logger
	loginPattern    *regexp.Regexp
	passwordPattern *regexp.Regexp
}

// Fallbacks used when a configured pattern does not compile.
var (
	defaultLoginPattern    = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	defaultPasswordPattern = regexp.MustCompile(`^[\x21-\x7E]+$`)
)

func NewAccountService(
	repo *repository.Repository,
	sig SignatureService,
	config *utils.Config,
	log *zap.Logger,
) AccountService {
	log = log.With(zap.String("service", "account"))

	return &accountService{
		repo:            repo,
		sig:             sig,
		log:             log,
		loginPattern:    compilePattern(config.Security.LoginPattern, defaultLoginPattern, log),
		passwordPattern: compilePattern(config.Security.PasswordPattern, defaultPasswordPattern, log),
	}
}

func compilePattern(pattern string, fallback *regexp.Regexp, log *zap.Logger) *regexp.Regexp {
	if pattern == "" {
		return fallback
	}
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		log.Error("Invalid character-class pattern, using default",
			zap.Error(err),
			zap.String("pattern", pattern),
		)
		return fallback
	}
	return compiled
}

func (s *accountService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AccountResponse, error) {
	// Shape validation before any persistence side effect
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, newValidationError(errs)
	}
	if !s.loginPattern.MatchString(req.Login) {
		return nil, fieldError("Login", "Contains characters outside the allowed set")
	}
	if !s.passwordPattern.MatchString(req.Password) {
		return nil, fieldError("Password", "Contains characters outside the allowed set")
	}

	// Hash password; the core only ever stores the opaque form
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	account := &entity.Account{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Login:        req.Login,
		PasswordHash: hashedPassword,
		IsActive:     true,
		IsBlocked:    false,
	}

	// Every registration starts as a client
	facet := &entity.RoleFacet{
		ID:        uuid.New(),
		AccountID: account.ID,
		Role:      entity.RoleClient,
		CreatedAt: now,
	}

	// The unique index on login is the duplicate check; no read-then-write
	// race. The account and its client facet commit together, so a failed
	// registration never reserves the login.
	if err := s.repo.Account.CreateWithFacet(ctx, account, facet); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			s.log.Warn("Duplicate login on register", zap.String("login", req.Login))
		} else {
			s.log.Error("Failed to register account", zap.Error(err), zap.String("login", req.Login))
		}
		return nil, err
	}

	s.log.Info("Account registered",
		zap.String("account_id", account.ID.String()),
		zap.String("login", account.Login),
	)

	return s.buildResponse(ctx, account)
}

func (s *accountService) FindByID(ctx context.Context, accountID string) (*response.AccountResponse, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return nil, fieldError("ID", "Must be a valid UUID")
	}

	account, err := s.repo.Account.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, account)
}

func (s *accountService) FindByLogin(ctx context.Context, login string) (*response.AccountResponse, error) {
	account, err := s.repo.Account.FindByLogin(ctx, login)
	if err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, account)
}

func (s *accountService) FindAllMatchingLogin(ctx context.Context, substring string) ([]*response.AccountResponse, error) {
	accounts, err := s.repo.Account.FindAllMatchingLogin(ctx, substring)
	if err != nil {
		return nil, err
	}

	return s.buildResponses(ctx, accounts)
}

func (s *accountService) FindAll(ctx context.Context) ([]*response.AccountResponse, error) {
	accounts, err := s.repo.Account.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	return s.buildResponses(ctx, accounts)
}

func (s *accountService) Update(ctx context.Context, accountID string, req *request.UpdateAccountRequest, signature string) (*response.AccountResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}
	if !s.loginPattern.MatchString(req.Login) {
		return nil, fieldError("Login", "Contains characters outside the allowed set")
	}

	id, err := uuid.Parse(accountID)
	if err != nil {
		return nil, fieldError("ID", "Must be a valid UUID")
	}

	account, err := s.repo.Account.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Precondition check against the persisted state, not the request
	if !s.sig.VerifyAccount(signature, account) {
		s.log.Warn("Stale account signature on update", zap.String("account_id", accountID))
		return nil, ErrPreconditionFailed
	}

	account.Login = req.Login
	account.UpdatedAt = time.Now()

	if err := s.repo.Account.Update(ctx, account); err != nil {
		return nil, err
	}

	s.log.Info("Account updated", zap.String("account_id", accountID))
	return s.buildResponse(ctx, account)
}

func (s *accountService) ChangePassword(ctx context.Context, accountID string, req *request.ChangePasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return newValidationError(errs)
	}
	if !s.passwordPattern.MatchString(req.NewPassword) {
		return fieldError("NewPassword", "Contains characters outside the allowed set")
	}

	id, err := uuid.Parse(accountID)
	if err != nil {
		return fieldError("ID", "Must be a valid UUID")
	}

	account, err := s.repo.Account.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !utils.CheckPassword(req.CurrentPassword, account.PasswordHash) {
		return fieldError("CurrentPassword", "Does not match")
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		s.log.Error("Failed to hash new password", zap.Error(err))
		return fmt.Errorf("hash new password: %w", err)
	}

	account.PasswordHash = hashedPassword
	account.UpdatedAt = time.Now()

	if err := s.repo.Account.Update(ctx, account); err != nil {
		return err
	}

	s.log.Info("Password changed", zap.String("account_id", accountID))
	return nil
}

func (s *accountService) SetActive(ctx context.Context, accountID string, active bool) error {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return fieldError("ID", "Must be a valid UUID")
	}

	if err := s.repo.Account.SetActive(ctx, id, active); err != nil {
		return err
	}

	s.log.Info("Account active flag changed",
		zap.String("account_id", accountID),
		zap.Bool("active", active),
	)
	return nil
}

// Delete soft-deletes the account and cascades its role facets, but is
// blocked while any surviving ticket references the account.
func (s *accountService) Delete(ctx context.Context, accountID string) error {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return fieldError("ID", "Must be a valid UUID")
	}

	count, err := s.repo.Ticket.CountByClientID(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		s.log.Warn("Account delete blocked by tickets",
			zap.String("account_id", accountID),
			zap.Int64("ticket_count", count),
		)
		return fmt.Errorf("delete account %s: %w", accountID, ErrReferencedByTicket)
	}

	if err := s.repo.RoleFacet.DeleteAllForAccount(ctx, id); err != nil {
		return err
	}

	return s.repo.Account.Delete(ctx, id)
}

func (s *accountService) GrantRole(ctx context.Context, accountID string, role entity.Role) error {
	if !entity.ValidRole(role) {
		return fieldError("Role", "Must be one of: client, staff, admin")
	}

	id, err := uuid.Parse(accountID)
	if err != nil {
		return fieldError("ID", "Must be a valid UUID")
	}

	// Account must exist; a facet never dangles
	if _, err := s.repo.Account.FindByID(ctx, id); err != nil {
		return err
	}

	facet := &entity.RoleFacet{
		ID:        uuid.New(),
		AccountID: id,
		Role:      role,
		CreatedAt: time.Now(),
	}

	// The (account_id, role) unique constraint rejects a concurrent double
	// grant; no check-then-act window
	if err := s.repo.RoleFacet.Create(ctx, facet); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fmt.Errorf("grant %s to account %s: %w", role, accountID, ErrAlreadyGranted)
		}
		return err
	}

	s.log.Info("Role granted",
		zap.String("account_id", accountID),
		zap.String("role", string(role)),
	)
	return nil
}

func (s *accountService) RevokeRole(ctx context.Context, accountID string, role entity.Role) error {
	if !entity.ValidRole(role) {
		return fieldError("Role", "Must be one of: client, staff, admin")
	}

	id, err := uuid.Parse(accountID)
	if err != nil {
		return fieldError("ID", "Must be a valid UUID")
	}

	// Revoking the client facet is blocked while tickets reference the client
	if role == entity.RoleClient {
		count, err := s.repo.Ticket.CountByClientID(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("revoke %s from account %s: %w", role, accountID, ErrReferencedByTicket)
		}
	}

	if err := s.repo.RoleFacet.Delete(ctx, id, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("revoke %s from account %s: %w", role, accountID, ErrNotGranted)
		}
		return err
	}

	s.log.Info("Role revoked",
		zap.String("account_id", accountID),
		zap.String("role", string(role)),
	)
	return nil
}

func (s *accountService) ResolveFacet(ctx context.Context, facetID string, role entity.Role) (*response.AccountResponse, error) {
	if !entity.ValidRole(role) {
		return nil, fieldError("Role", "Must be one of: client, staff, admin")
	}

	id, err := uuid.Parse(facetID)
	if err != nil {
		return nil, fieldError("ID", "Must be a valid UUID")
	}

	account, err := s.repo.RoleFacet.ResolveAccount(ctx, id, role)
	if err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, account)
}

func (s *accountService) buildResponse(ctx context.Context, account *entity.Account) (*response.AccountResponse, error) {
	facets, err := s.repo.RoleFacet.FindAllForAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	signature, err := s.sig.SignAccount(account)
	if err != nil {
		s.log.Error("Failed to sign account snapshot",
			zap.Error(err),
			zap.String("account_id", account.ID.String()),
		)
		return nil, err
	}

	return response.AccountToResponse(account, facets, signature), nil
}

func (s *accountService) buildResponses(ctx context.Context, accounts []*entity.Account) ([]*response.AccountResponse, error) {
	responses := make([]*response.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		resp, err := s.buildResponse(ctx, account)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}
