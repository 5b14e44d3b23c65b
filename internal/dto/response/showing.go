package response

import (
	"time"

	"cinema-tickets/internal/data/entity"
)

type ShowingResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	BasePrice      float64   `json:"base_price"`
	RoomNumber     int       `json:"room_number"`
	AvailableSeats int       `json:"available_seats"`
	Signature      string    `json:"signature,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func ShowingToResponse(showing *entity.Showing, signature string) *ShowingResponse {
	return &ShowingResponse{
		ID:             showing.ID.String(),
		Title:          showing.Title,
		BasePrice:      showing.BasePrice,
		RoomNumber:     showing.RoomNumber,
		AvailableSeats: showing.AvailableSeats,
		Signature:      signature,
		CreatedAt:      showing.CreatedAt,
	}
}
