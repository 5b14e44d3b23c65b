package entity

// Showing is a scheduled screening with its own price and seat inventory.
// AvailableSeats only ever decreases through booking; it never goes negative
// and never exceeds the room capacity bound.
type Showing struct {
	BaseNoDelete
	Title          string  `db:"title"`
	BasePrice      float64 `db:"base_price"`
	RoomNumber     int     `db:"room_number"`
	AvailableSeats int     `db:"available_seats"`
}
