package entity

import (
	"time"

	"github.com/google/uuid"
)

type TicketClass string

const (
	TicketClassNormal  TicketClass = "normal"
	TicketClassReduced TicketClass = "reduced"
)

// Ticket references its client and showing by id only; it never holds live
// object references across the persistence boundary. FinalPrice is fixed at
// booking time and is not recomputed when the showing's base price changes.
type Ticket struct {
	BaseNoDelete
	ShowTime   time.Time   `db:"show_time"`
	FinalPrice float64     `db:"final_price"`
	ClientID   uuid.UUID   `db:"client_id"`
	ShowingID  uuid.UUID   `db:"showing_id"`
	Class      TicketClass `db:"class"`
}
