package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-tickets/internal/data/repository"
	"cinema-tickets/internal/dto/request"
	"cinema-tickets/internal/dto/response"
	"cinema-tickets/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type AuthService interface {
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	// Self resolves the authenticated caller's own account.
	Self(ctx context.Context) (*response.AccountResponse, error)
}

type authService struct {
	repo    *repository.Repository
	account AccountService
	config  *utils.Config
	log     *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	account AccountService,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:    repo,
		account: account,
		config:  config,
		log:     log.With(zap.String("service", "auth")),
	}
}

// Login checks credentials and issues an auth token carrying the caller
// identity and resolved role set. This token is distinct from the
// precondition signatures: it expires and is keyed separately.
func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	account, err := s.repo.Account.FindByLogin(ctx, req.Login)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(req.Password, account.PasswordHash) {
		s.log.Warn("Failed login attempt", zap.String("login", req.Login))
		return nil, fmt.Errorf("invalid credentials")
	}

	if !account.IsActive || account.IsBlocked {
		return nil, fmt.Errorf("account is not active")
	}

	facets, err := s.repo.RoleFacet.FindAllForAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	roles := make([]string, 0, len(facets))
	for _, facet := range facets {
		roles = append(roles, string(facet.Role))
	}

	expiry := time.Duration(s.config.Security.AuthExpiryHours) * time.Hour
	claims := jwt.MapClaims{
		"sub":   account.ID.String(),
		"roles": roles,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(expiry).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.config.Security.AuthSecret))
	if err != nil {
		s.log.Error("Failed to sign auth token", zap.Error(err))
		return nil, fmt.Errorf("sign auth token: %w", err)
	}

	accountResp, err := s.account.FindByID(ctx, account.ID.String())
	if err != nil {
		return nil, err
	}

	s.log.Info("Login succeeded",
		zap.String("account_id", account.ID.String()),
		zap.Strings("roles", roles),
	)

	return &response.AuthResponse{
		Token:   token,
		Account: accountResp,
	}, nil
}

func (s *authService) Self(ctx context.Context) (*response.AccountResponse, error) {
	accountID, ok := utils.GetAccountIDFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("no authenticated caller in context")
	}

	return s.account.FindByID(ctx, accountID.String())
}
