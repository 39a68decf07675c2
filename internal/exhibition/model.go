package exhibition

import "time"

type Exhibition struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	// TicketPrice kept as a string (NUMERIC in Postgres)
	TicketPrice    string    `json:"ticket_price"`
	TotalSlots     int       `json:"total_slots"`
	AvailableSlots int       `json:"available_slots"`
	ImageURL       string    `json:"image_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	TicketPrice string `json:"ticket_price"`
	TotalSlots  int    `json:"total_slots"`
	ImageURL    string `json:"image_url"`
}
