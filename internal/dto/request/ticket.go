package request

type CreateTicketRequest struct {
	// A missing show time is a booking rejection, not a shape violation, so
	// no required tag; the parse classifies it.
	ShowTime  string `json:"show_time"`
	ClientID  string `json:"client_id" validate:"required,uuid"`
	ShowingID string `json:"showing_id" validate:"required,uuid"`
	Class     string `json:"class" validate:"omitempty,oneof=normal reduced"`
}

// Only the scheduled time is mutable after creation.
type UpdateTicketRequest struct {
	ShowTime string `json:"show_time" validate:"required"`
}
