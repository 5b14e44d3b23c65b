package request

// Bounds: title 1-128 chars, base price 0-100, room 1-30, seats 0-120.
type ShowingRequest struct {
	Title          string  `json:"title" validate:"required,min=1,max=128"`
	BasePrice      float64 `json:"base_price" validate:"gte=0,lte=100"`
	RoomNumber     int     `json:"room_number" validate:"min=1,max=30"`
	AvailableSeats int     `json:"available_seats" validate:"min=0,max=120"`
}

// ShowingUpdateRequest carries the full replacement state; the same bounds
// apply on update as on create. Changing available_seats through this request
// is the explicit correction path.
type ShowingUpdateRequest struct {
	Title          string  `json:"title" validate:"required,min=1,max=128"`
	BasePrice      float64 `json:"base_price" validate:"gte=0,lte=100"`
	RoomNumber     int     `json:"room_number" validate:"min=1,max=30"`
	AvailableSeats int     `json:"available_seats" validate:"min=0,max=120"`
}
