package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Order is the merged row view over artwork_orders and exhibition_bookings.
// ReferenceID points at the artwork or exhibition depending on Kind.
// Slots and TicketCode are only meaningful for exhibition bookings.
type Order struct {
	ID            int64           `json:"id"`
	Kind          Kind            `json:"-"`
	UserID        int64           `json:"user_id"`
	ReferenceID   int64           `json:"reference_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	Slots         int             `json:"slots,omitempty"`
	TicketCode    string          `json:"ticket_code,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Transaction is one payment attempt, keyed by the gateway checkout id.
// Several attempts may reference the same order over time.
type Transaction struct {
	CheckoutRequestID string          `json:"checkout_request_id"`
	MerchantRequestID string          `json:"merchant_request_id"`
	Kind              Kind            `json:"-"`
	OrderID           int64           `json:"order_id"`
	UserID            int64           `json:"user_id"`
	Amount            decimal.Decimal `json:"amount"`
	PhoneNumber       string          `json:"phone_number"`
	Status            PaymentStatus   `json:"status"`
	ResultCode        string          `json:"result_code,omitempty"`
	ResultDesc        string          `json:"result_desc,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// Summary is the joined listing shape served to the admin and user order
// screens (item title denormalized from the referenced artwork/exhibition).
type Summary struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	UserName      string          `json:"user_name,omitempty"`
	ReferenceID   int64           `json:"reference_id"`
	ItemTitle     string          `json:"item_title"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	Type          string          `json:"type"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BookingSummary is the ticket listing shape (GET /api/tickets).
type BookingSummary struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	UserName        string          `json:"user_name"`
	ExhibitionID    int64           `json:"exhibition_id"`
	ExhibitionTitle string          `json:"exhibition_title"`
	TicketCode      string          `json:"ticket_code,omitempty"`
	Slots           int             `json:"slots"`
	Status          PaymentStatus   `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	BookingDate     time.Time       `json:"booking_date"`
}
