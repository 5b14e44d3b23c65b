package usecase

import (
	"cinema-tickets/internal/data/repository"
	"cinema-tickets/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth      AuthService
	Account   AccountService
	Showing   ShowingService
	Booking   BookingService
	Signature SignatureService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	sig := NewSignatureService(config.Security.SignatureSecret)
	account := NewAccountService(repo, sig, config, log)

	return &Service{
		Auth:      NewAuthService(repo, account, config, log),
		Account:   account,
		Showing:   NewShowingService(repo, sig, log),
		Booking:   NewBookingService(repo, sig, log),
		Signature: sig,
	}
}
