package usecase

import (
	"context"
	"errors"
	"testing"

	"cinema-tickets/internal/data/repository"
	"cinema-tickets/internal/dto/request"
	"cinema-tickets/internal/dto/response"
)

func createShowing(t *testing.T, svc *Service, title string, price float64, room, seats int) *response.ShowingResponse {
	t.Helper()
	resp, err := svc.Showing.Create(context.Background(), &request.ShowingRequest{
		Title:          title,
		BasePrice:      price,
		RoomNumber:     room,
		AvailableSeats: seats,
	})
	if err != nil {
		t.Fatalf("create showing %s: %v", title, err)
	}
	return resp
}

func TestCreateShowingValidBounds(t *testing.T) {
	svc := newTestService(newFakeStore())

	tests := []struct {
		name  string
		price float64
		room  int
		seats int
	}{
		{"lower bounds", 0, 1, 0},
		{"upper bounds", 100, 30, 120},
		{"mid range", 40.50, 12, 60},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := createShowing(t, svc, "Cars", tc.price, tc.room, tc.seats)

			// Returned fields equal the inputs exactly
			if resp.Title != "Cars" {
				t.Errorf("title = %q, want Cars", resp.Title)
			}
			if resp.BasePrice != tc.price {
				t.Errorf("base price = %v, want %v", resp.BasePrice, tc.price)
			}
			if resp.RoomNumber != tc.room {
				t.Errorf("room = %d, want %d", resp.RoomNumber, tc.room)
			}
			if resp.AvailableSeats != tc.seats {
				t.Errorf("seats = %d, want %d", resp.AvailableSeats, tc.seats)
			}
		})
	}
}

func TestCreateShowingInvalidBounds(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	tests := []struct {
		name  string
		title string
		price float64
		room  int
		seats int
	}{
		{"empty title", "", 40, 1, 10},
		{"title too long", string(make([]rune, 129)), 40, 1, 10},
		{"price below range", "Cars", -0.01, 1, 10},
		{"price above range", "Cars", 100.01, 1, 10},
		{"room below range", "Cars", 40, 0, 10},
		{"room above range", "Cars", 40, 31, 10},
		{"seats below range", "Cars", 40, 1, -1},
		{"seats above range", "Cars", 40, 1, 121},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Showing.Create(ctx, &request.ShowingRequest{
				Title:          tc.title,
				BasePrice:      tc.price,
				RoomNumber:     tc.room,
				AvailableSeats: tc.seats,
			})
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}

	// No entity was persisted by any rejected create
	store.mu.Lock()
	persisted := len(store.showings)
	store.mu.Unlock()
	if persisted != 0 {
		t.Errorf("persisted %d showings from invalid creates, want 0", persisted)
	}
}

func TestUpdateShowingInvalidBoundsLeaveStateUntouched(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	showing := createShowing(t, svc, "Cars", 40.50, 1, 10)

	_, err := svc.Showing.Update(ctx, showing.ID, &request.ShowingUpdateRequest{
		Title:          "Cars",
		BasePrice:      101,
		RoomNumber:     1,
		AvailableSeats: 10,
	}, showing.Signature)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	current, err := svc.Showing.FindByID(ctx, showing.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if current.BasePrice != 40.50 {
		t.Errorf("base price = %v after rejected update, want 40.50", current.BasePrice)
	}
}

func TestUpdateShowingRequiresFreshSignature(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	showing := createShowing(t, svc, "Cars", 40.50, 1, 10)
	staleToken := showing.Signature

	updated, err := svc.Showing.Update(ctx, showing.ID, &request.ShowingUpdateRequest{
		Title:          "Cars 2",
		BasePrice:      45,
		RoomNumber:     1,
		AvailableSeats: 10,
	}, staleToken)
	if err != nil {
		t.Fatalf("Update with fresh token: %v", err)
	}

	_, err = svc.Showing.Update(ctx, showing.ID, &request.ShowingUpdateRequest{
		Title:          "Cars 3",
		BasePrice:      50,
		RoomNumber:     1,
		AvailableSeats: 10,
	}, staleToken)
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("stale update err = %v, want ErrPreconditionFailed", err)
	}

	if _, err := svc.Showing.Update(ctx, showing.ID, &request.ShowingUpdateRequest{
		Title:          "Cars 3",
		BasePrice:      50,
		RoomNumber:     1,
		AvailableSeats: 10,
	}, updated.Signature); err != nil {
		t.Fatalf("Update after re-read: %v", err)
	}
}

func TestSoldSeatInvalidatesShowingSignature(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	alice := register(t, svc, "alice_login", "password1")
	showing := createShowing(t, svc, "Cars", 40.50, 1, 10)
	staleToken := showing.Signature

	// A concurrent booking changes the covered seat count
	if _, err := svc.Booking.Create(ctx, &request.CreateTicketRequest{
		ShowTime:  "2026-09-01T18:00:00Z",
		ClientID:  alice.ID,
		ShowingID: showing.ID,
	}); err != nil {
		t.Fatalf("book ticket: %v", err)
	}

	_, err := svc.Showing.Update(ctx, showing.ID, &request.ShowingUpdateRequest{
		Title:          "Cars",
		BasePrice:      45,
		RoomNumber:     1,
		AvailableSeats: 10,
	}, staleToken)
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("update over a sold seat err = %v, want ErrPreconditionFailed", err)
	}
}

func TestDeleteShowingBlockedByTicket(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	alice := register(t, svc, "alice_login", "password1")
	showing := createShowing(t, svc, "Cars", 40.50, 1, 1)

	ticket, err := svc.Booking.Create(ctx, &request.CreateTicketRequest{
		ShowTime:  "2026-09-01T18:00:00Z",
		ClientID:  alice.ID,
		ShowingID: showing.ID,
	})
	if err != nil {
		t.Fatalf("book ticket: %v", err)
	}

	err = svc.Showing.Delete(ctx, showing.ID)
	if !errors.Is(err, ErrReferencedByTicket) {
		t.Fatalf("delete err = %v, want ErrReferencedByTicket", err)
	}

	if err := svc.Booking.Delete(ctx, ticket.ID); err != nil {
		t.Fatalf("delete ticket: %v", err)
	}
	if err := svc.Showing.Delete(ctx, showing.ID); err != nil {
		t.Fatalf("delete after ticket removal: %v", err)
	}
	if _, err := svc.Showing.FindByID(ctx, showing.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("find deleted showing err = %v, want ErrNotFound", err)
	}
}

func TestFindAllMatchingTitle(t *testing.T) {
	svc := newTestService(newFakeStore())

	createShowing(t, svc, "Cars", 40, 1, 10)
	createShowing(t, svc, "Cars 2", 40, 2, 10)
	createShowing(t, svc, "Ratatouille", 40, 3, 10)

	matches, err := svc.Showing.FindAllMatchingTitle(context.Background(), "cars")
	if err != nil {
		t.Fatalf("FindAllMatchingTitle: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("matched %d showings, want 2", len(matches))
	}
}
