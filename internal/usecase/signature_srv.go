package usecase

import (
	"fmt"

	"cinema-tickets/internal/data/entity"

	"github.com/golang-jwt/jwt/v5"
)

// SignatureService hands out precondition tokens on reads and checks them on
// writes. A token is an HMAC256-signed JWS over the subset of entity fields
// that matter for optimistic concurrency; any change to a covered field
// changes the token. Verification recomputes the token from the currently
// persisted state and compares for equality, so there is no stored version
// column to drift out of sync. Tokens are not confidential, but without the
// derivation key a caller cannot fabricate one for state it never read.
type SignatureService interface {
	SignAccount(account *entity.Account) (string, error)
	SignShowing(showing *entity.Showing) (string, error)
	SignTicket(ticket *entity.Ticket) (string, error)
	VerifyAccount(token string, account *entity.Account) bool
	VerifyShowing(token string, showing *entity.Showing) bool
	VerifyTicket(token string, ticket *entity.Ticket) bool
}

type signatureService struct {
	key []byte
}

func NewSignatureService(secret string) SignatureService {
	return &signatureService{key: []byte(secret)}
}

// sign must be a pure function of the claims: no issued-at or expiry claims,
// and MapClaims serialize with sorted keys, so the same input always yields
// the same token.
func (s *signatureService) sign(claims jwt.MapClaims) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign entity snapshot: %w", err)
	}
	return token, nil
}

// SignAccount covers id, login, and the active flag.
func (s *signatureService) SignAccount(account *entity.Account) (string, error) {
	return s.sign(jwt.MapClaims{
		"account_id": account.ID.String(),
		"login":      account.Login,
		"active":     account.IsActive,
	})
}

// SignShowing covers id, price, room, and the seat count.
func (s *signatureService) SignShowing(showing *entity.Showing) (string, error) {
	return s.sign(jwt.MapClaims{
		"showing_id":      showing.ID.String(),
		"base_price":      showing.BasePrice,
		"room_number":     showing.RoomNumber,
		"available_seats": showing.AvailableSeats,
	})
}

// SignTicket covers id, final price, and both references.
func (s *signatureService) SignTicket(ticket *entity.Ticket) (string, error) {
	return s.sign(jwt.MapClaims{
		"ticket_id":   ticket.ID.String(),
		"final_price": ticket.FinalPrice,
		"client_id":   ticket.ClientID.String(),
		"showing_id":  ticket.ShowingID.String(),
	})
}

func (s *signatureService) VerifyAccount(token string, account *entity.Account) bool {
	current, err := s.SignAccount(account)
	return err == nil && token == current
}

func (s *signatureService) VerifyShowing(token string, showing *entity.Showing) bool {
	current, err := s.SignShowing(showing)
	return err == nil && token == current
}

func (s *signatureService) VerifyTicket(token string, ticket *entity.Ticket) bool {
	current, err := s.SignTicket(ticket)
	return err == nil && token == current
}
