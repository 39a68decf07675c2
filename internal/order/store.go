package order

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound            = errors.New("order not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrExhibitionNotFound  = errors.New("exhibition not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrConflict covers duplicate checkout ids and generated ticket-code
	// collisions; callers may retry.
	ErrConflict    = errors.New("duplicate record")
	ErrInvalidKind = errors.New("invalid order type")
)

// Store owns the persisted state for orders, bookings and the payment
// transaction ledger. It performs no business logic beyond existence checks
// and the completed-payment cascade.
type Store interface {
	// CreateArtworkOrder inserts a pending artwork order, snapshotting the
	// buyer's name/email/phone from the user row at insert time.
	CreateArtworkOrder(ctx context.Context, userID, artworkID int64, amount decimal.Decimal) (int64, error)

	// CreateExhibitionBooking is idempotent: a completed booking for the
	// (user, exhibition) pair is returned unchanged; a pending one without a
	// ticket code gets a fresh code in place; otherwise a new pending row is
	// inserted with total_amount = ticket_price * slots.
	CreateExhibitionBooking(ctx context.Context, userID, exhibitionID int64, slots int) (int64, string, error)

	GetOrder(ctx context.Context, kind Kind, orderID, userID int64) (*Order, error)

	// SetPaymentStatus updates the order row and, when status becomes
	// completed, runs the domain cascade (artwork marked sold, exhibition
	// slots decremented) in the same transaction.
	SetPaymentStatus(ctx context.Context, kind Kind, orderID int64, status PaymentStatus) error

	RecordTransaction(ctx context.Context, t *Transaction) error
	GetTransaction(ctx context.Context, checkoutID string) (*Transaction, error)
	UpdateTransaction(ctx context.Context, checkoutID string, status PaymentStatus, resultCode, resultDesc string) error

	ListArtworkOrders(ctx context.Context) ([]Summary, error)
	ListBookings(ctx context.Context) ([]BookingSummary, error)
	ListUserOrders(ctx context.Context, userID int64) (orders []Summary, bookings []Summary, err error)
}
