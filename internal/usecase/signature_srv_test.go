package usecase

import (
	"testing"
	"time"

	"cinema-tickets/internal/data/entity"

	"github.com/google/uuid"
)

func testAccount() *entity.Account {
	return &entity.Account{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Login:        "alice_login",
		PasswordHash: "$2a$10$irrelevant",
		IsActive:     true,
	}
}

func testShowing() *entity.Showing {
	return &entity.Showing{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Title:          "Cars",
		BasePrice:      40.50,
		RoomNumber:     1,
		AvailableSeats: 60,
	}
}

func testTicket() *entity.Ticket {
	return &entity.Ticket{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		ShowTime:   time.Now().Add(24 * time.Hour),
		FinalPrice: 40.50,
		ClientID:   uuid.New(),
		ShowingID:  uuid.New(),
		Class:      entity.TicketClassNormal,
	}
}

func TestSignatureRoundTrip(t *testing.T) {
	sig := NewSignatureService("round-trip-secret")

	account := testAccount()
	token, err := sig.SignAccount(account)
	if err != nil {
		t.Fatalf("SignAccount: %v", err)
	}
	if !sig.VerifyAccount(token, account) {
		t.Error("account token should verify against the signed snapshot")
	}

	showing := testShowing()
	token, err = sig.SignShowing(showing)
	if err != nil {
		t.Fatalf("SignShowing: %v", err)
	}
	if !sig.VerifyShowing(token, showing) {
		t.Error("showing token should verify against the signed snapshot")
	}

	ticket := testTicket()
	token, err = sig.SignTicket(ticket)
	if err != nil {
		t.Fatalf("SignTicket: %v", err)
	}
	if !sig.VerifyTicket(token, ticket) {
		t.Error("ticket token should verify against the signed snapshot")
	}
}

func TestSignatureDeterministic(t *testing.T) {
	sig := NewSignatureService("deterministic-secret")
	showing := testShowing()

	first, err := sig.SignShowing(showing)
	if err != nil {
		t.Fatalf("SignShowing: %v", err)
	}
	second, err := sig.SignShowing(showing)
	if err != nil {
		t.Fatalf("SignShowing: %v", err)
	}
	if first != second {
		t.Errorf("signing the same snapshot twice produced different tokens:\n%s\n%s", first, second)
	}
}

func TestSignatureDetectsChangedAccountFields(t *testing.T) {
	sig := NewSignatureService("change-secret")
	account := testAccount()
	token, err := sig.SignAccount(account)
	if err != nil {
		t.Fatalf("SignAccount: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(a *entity.Account)
	}{
		{"id", func(a *entity.Account) { a.ID = uuid.New() }},
		{"login", func(a *entity.Account) { a.Login = "other_login" }},
		{"active", func(a *entity.Account) { a.IsActive = false }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			changed := *account
			tc.mutate(&changed)
			if sig.VerifyAccount(token, &changed) {
				t.Errorf("token should not verify after changing covered field %s", tc.name)
			}
		})
	}

	// Changes outside the covered set keep the token valid
	uncovered := *account
	uncovered.PasswordHash = "$2a$10$different"
	if !sig.VerifyAccount(token, &uncovered) {
		t.Error("token should still verify after changing an uncovered field")
	}
}

func TestSignatureDetectsChangedShowingFields(t *testing.T) {
	sig := NewSignatureService("change-secret")
	showing := testShowing()
	token, err := sig.SignShowing(showing)
	if err != nil {
		t.Fatalf("SignShowing: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(s *entity.Showing)
	}{
		{"price", func(s *entity.Showing) { s.BasePrice = 41 }},
		{"room", func(s *entity.Showing) { s.RoomNumber = 2 }},
		{"seats", func(s *entity.Showing) { s.AvailableSeats-- }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			changed := *showing
			tc.mutate(&changed)
			if sig.VerifyShowing(token, &changed) {
				t.Errorf("token should not verify after changing covered field %s", tc.name)
			}
		})
	}
}

func TestSignatureRejectsForeignKey(t *testing.T) {
	ours := NewSignatureService("our-secret")
	theirs := NewSignatureService("their-secret")

	account := testAccount()
	forged, err := theirs.SignAccount(account)
	if err != nil {
		t.Fatalf("SignAccount: %v", err)
	}

	if ours.VerifyAccount(forged, account) {
		t.Error("a token derived under a different key must not verify")
	}
}
