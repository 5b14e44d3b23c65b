package response

import (
	"time"

	"cinema-tickets/internal/data/entity"
)

type TicketResponse struct {
	ID         string    `json:"id"`
	ShowTime   time.Time `json:"show_time"`
	FinalPrice float64   `json:"final_price"`
	ClientID   string    `json:"client_id"`
	ShowingID  string    `json:"showing_id"`
	Class      string    `json:"class"`
	Signature  string    `json:"signature,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func TicketToResponse(ticket *entity.Ticket, signature string) *TicketResponse {
	return &TicketResponse{
		ID:         ticket.ID.String(),
		ShowTime:   ticket.ShowTime,
		FinalPrice: ticket.FinalPrice,
		ClientID:   ticket.ClientID.String(),
		ShowingID:  ticket.ShowingID.String(),
		Class:      string(ticket.Class),
		Signature:  signature,
		CreatedAt:  ticket.CreatedAt,
	}
}
