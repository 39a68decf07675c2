package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const opTimeout = 5 * time.Second

// kindOps is the per-kind SQL surface. The store logic is written once
// against it; adding a third order kind means adding one implementation.
type kindOps interface {
	getOrderSQL() string
	scanOrder(row pgx.Row, o *Order) error
	setStatusSQL() string
	cascadeSQL() string
}

type artworkOps struct{}

func (artworkOps) getOrderSQL() string {
	return `
		SELECT id, user_id, artwork_id, total_amount::text, payment_status, order_date
		FROM artwork_orders WHERE id=$1 AND user_id=$2`
}

func (artworkOps) scanOrder(row pgx.Row, o *Order) error {
	var amount, status string
	if err := row.Scan(&o.ID, &o.UserID, &o.ReferenceID, &amount, &status, &o.CreatedAt); err != nil {
		return err
	}
	o.Kind = KindArtwork
	o.PaymentStatus = PaymentStatus(status)
	return setAmount(&o.TotalAmount, amount)
}

func (artworkOps) setStatusSQL() string {
	return `UPDATE artwork_orders SET payment_status=$2 WHERE id=$1`
}

func (artworkOps) cascadeSQL() string {
	return `
		UPDATE artworks a SET status='sold'
		FROM artwork_orders o
		WHERE o.artwork_id = a.id AND o.id = $1`
}

type exhibitionOps struct{}

func (exhibitionOps) getOrderSQL() string {
	return `
		SELECT id, user_id, exhibition_id, total_amount::text, payment_status,
		       slots, COALESCE(ticket_code,''), booking_date
		FROM exhibition_bookings WHERE id=$1 AND user_id=$2`
}

func (exhibitionOps) scanOrder(row pgx.Row, o *Order) error {
	var amount, status string
	if err := row.Scan(&o.ID, &o.UserID, &o.ReferenceID, &amount, &status,
		&o.Slots, &o.TicketCode, &o.CreatedAt); err != nil {
		return err
	}
	o.Kind = KindExhibition
	o.PaymentStatus = PaymentStatus(status)
	return setAmount(&o.TotalAmount, amount)
}

func (exhibitionOps) setStatusSQL() string {
	return `UPDATE exhibition_bookings SET payment_status=$2 WHERE id=$1`
}

func (exhibitionOps) cascadeSQL() string {
	return `
		UPDATE exhibitions e SET available_slots = e.available_slots - b.slots
		FROM exhibition_bookings b
		WHERE b.exhibition_id = e.id AND b.id = $1`
}

func opsFor(k Kind) (kindOps, error) {
	switch k {
	case KindArtwork:
		return artworkOps{}, nil
	case KindExhibition:
		return exhibitionOps{}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidKind, k)
	}
}

func setAmount(dst *decimal.Decimal, s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("parse amount %q: %w", s, err)
	}
	*dst = d
	return nil
}

type PGStore struct{ db *pgxpool.Pool }

func NewPGStore(db *pgxpool.Pool) *PGStore { return &PGStore{db: db} }

func (s *PGStore) CreateArtworkOrder(ctx context.Context, userID, artworkID int64, amount decimal.Decimal) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// Buyer contact details are snapshotted from the user row at insert time.
	var id int64
	err := s.queryRow(ctx, `
		INSERT INTO artwork_orders
		  (user_id, artwork_id, total_amount, name, email, phone, delivery_address, payment_method, payment_status)
		SELECT u.id, $2, $3, u.name, u.email, u.phone, '', 'mpesa', 'pending'
		FROM users u WHERE u.id = $1
		RETURNING id
	`, userID, artworkID, amount.String()).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("create artwork order: %w", err)
	}
	return id, nil
}

func (s *PGStore) CreateExhibitionBooking(ctx context.Context, userID, exhibitionID int64, slots int) (int64, string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if slots <= 0 {
		slots = 1
	}

	var bookingID int64
	var ticketCode string

	err := withTx(ctx, s.db, func(ctx context.Context) error {
		// A completed booking for this pair is returned as-is.
		err := s.queryRow(ctx, `
			SELECT id, COALESCE(ticket_code,'') FROM exhibition_bookings
			WHERE user_id=$1 AND exhibition_id=$2 AND payment_status='completed'
		`, userID, exhibitionID).Scan(&bookingID, &ticketCode)
		if err == nil {
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("lookup booking: %w", err)
		}

		var priceText string
		err = s.queryRow(ctx, `SELECT ticket_price::text FROM exhibitions WHERE id=$1`, exhibitionID).Scan(&priceText)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrExhibitionNotFound
			}
			return fmt.Errorf("lookup exhibition: %w", err)
		}
		price, err := decimal.NewFromString(priceText)
		if err != nil {
			return fmt.Errorf("parse ticket price %q: %w", priceText, err)
		}

		code, err := NewTicketCode()
		if err != nil {
			return err
		}

		// A pending booking without a code gets the fresh code in place.
		err = s.queryRow(ctx, `
			UPDATE exhibition_bookings SET ticket_code=$3
			WHERE user_id=$1 AND exhibition_id=$2 AND ticket_code IS NULL
			RETURNING id
		`, userID, exhibitionID, code).Scan(&bookingID)
		if err == nil {
			ticketCode = code
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			if isUniqueViolation(err) {
				return ErrConflict
			}
			return fmt.Errorf("assign ticket code: %w", err)
		}

		total := price.Mul(decimal.NewFromInt(int64(slots)))
		err = s.queryRow(ctx, `
			INSERT INTO exhibition_bookings
			  (user_id, exhibition_id, slots, ticket_code, name, email, phone, payment_method, payment_status, total_amount)
			SELECT u.id, $2, $3, $4, u.name, u.email, u.phone, 'mpesa', 'pending', $5
			FROM users u WHERE u.id = $1
			RETURNING id
		`, userID, exhibitionID, slots, code, total.String()).Scan(&bookingID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrUserNotFound
			}
			if isUniqueViolation(err) {
				return ErrConflict
			}
			return fmt.Errorf("create booking: %w", err)
		}
		ticketCode = code
		return nil
	})
	if err != nil {
		return 0, "", err
	}
	return bookingID, ticketCode, nil
}

func (s *PGStore) GetOrder(ctx context.Context, kind Kind, orderID, userID int64) (*Order, error) {
	ops, err := opsFor(kind)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var o Order
	if err := ops.scanOrder(s.queryRow(ctx, ops.getOrderSQL(), orderID, userID), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s order: %w", kind, err)
	}
	return &o, nil
}

func (s *PGStore) SetPaymentStatus(ctx context.Context, kind Kind, orderID int64, status PaymentStatus) error {
	ops, err := opsFor(kind)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// Status update and cascade commit together; a failed cascade rolls the
	// status change back.
	return withTx(ctx, s.db, func(ctx context.Context) error {
		tag, err := s.exec(ctx, ops.setStatusSQL(), orderID, string(status))
		if err != nil {
			return fmt.Errorf("set %s payment status: %w", kind, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if status != PaymentCompleted {
			return nil
		}
		if _, err := s.exec(ctx, ops.cascadeSQL(), orderID); err != nil {
			return fmt.Errorf("cascade %s completion: %w", kind, err)
		}
		return nil
	})
}

func (s *PGStore) RecordTransaction(ctx context.Context, t *Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.exec(ctx, `
		INSERT INTO mpesa_transactions
		  (checkout_request_id, merchant_request_id, order_type, order_id, user_id, amount, phone_number, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,'pending')
	`, t.CheckoutRequestID, t.MerchantRequestID, t.Kind.String(), t.OrderID, t.UserID, t.Amount.String(), t.PhoneNumber)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("record transaction: %w", err)
	}
	return nil
}

func (s *PGStore) GetTransaction(ctx context.Context, checkoutID string) (*Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var t Transaction
	var kindStr, amount, status string
	err := s.queryRow(ctx, `
		SELECT checkout_request_id, merchant_request_id, order_type, order_id, user_id,
		       amount::text, phone_number, status, COALESCE(result_code,''), COALESCE(result_desc,''), created_at
		FROM mpesa_transactions WHERE checkout_request_id=$1
	`, checkoutID).Scan(&t.CheckoutRequestID, &t.MerchantRequestID, &kindStr, &t.OrderID, &t.UserID,
		&amount, &t.PhoneNumber, &status, &t.ResultCode, &t.ResultDesc, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	kind, err := ParseKind(kindStr)
	if err != nil {
		return nil, err
	}
	t.Kind = kind
	t.Status = PaymentStatus(status)
	if err := setAmount(&t.Amount, amount); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PGStore) UpdateTransaction(ctx context.Context, checkoutID string, status PaymentStatus, resultCode, resultDesc string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tag, err := s.exec(ctx, `
		UPDATE mpesa_transactions
		SET status=$2, result_code=$3, result_desc=$4
		WHERE checkout_request_id=$1
	`, checkoutID, string(status), resultCode, resultDesc)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (s *PGStore) ListArtworkOrders(ctx context.Context) ([]Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT o.id, o.user_id, u.name, o.artwork_id, COALESCE(a.title,''),
		       o.total_amount::text, o.payment_status, o.order_date
		FROM artwork_orders o
		JOIN users u ON o.user_id = u.id
		LEFT JOIN artworks a ON o.artwork_id = a.id
		ORDER BY o.order_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list artwork orders: %w", err)
	}
	defer rows.Close()
	return collectSummaries(rows, "artwork", true)
}

func (s *PGStore) ListBookings(ctx context.Context) ([]BookingSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := s.db.Query(ctx, `
		SELECT b.id, b.user_id, u.name, b.exhibition_id, e.title,
		       COALESCE(b.ticket_code,''), b.slots, b.payment_status, b.total_amount::text, b.booking_date
		FROM exhibition_bookings b
		JOIN users u ON b.user_id = u.id
		JOIN exhibitions e ON b.exhibition_id = e.id
		ORDER BY b.booking_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var out []BookingSummary
	for rows.Next() {
		var b BookingSummary
		var amount, status string
		if err := rows.Scan(&b.ID, &b.UserID, &b.UserName, &b.ExhibitionID, &b.ExhibitionTitle,
			&b.TicketCode, &b.Slots, &status, &amount, &b.BookingDate); err != nil {
			return nil, err
		}
		b.Status = PaymentStatus(status)
		if err := setAmount(&b.TotalAmount, amount); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PGStore) ListUserOrders(ctx context.Context, userID int64) ([]Summary, []Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	orderRows, err := s.db.Query(ctx, `
		SELECT o.id, o.user_id, '', o.artwork_id, COALESCE(a.title,''),
		       o.total_amount::text, o.payment_status, o.order_date
		FROM artwork_orders o
		LEFT JOIN artworks a ON o.artwork_id = a.id
		WHERE o.user_id = $1
		ORDER BY o.order_date DESC
	`, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list user orders: %w", err)
	}
	orders, err := func() ([]Summary, error) {
		defer orderRows.Close()
		return collectSummaries(orderRows, "artwork", false)
	}()
	if err != nil {
		return nil, nil, err
	}

	bookingRows, err := s.db.Query(ctx, `
		SELECT b.id, b.user_id, '', b.exhibition_id, COALESCE(e.title,''),
		       b.total_amount::text, b.payment_status, b.booking_date
		FROM exhibition_bookings b
		LEFT JOIN exhibitions e ON b.exhibition_id = e.id
		WHERE b.user_id = $1
		ORDER BY b.booking_date DESC
	`, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list user bookings: %w", err)
	}
	bookings, err := func() ([]Summary, error) {
		defer bookingRows.Close()
		return collectSummaries(bookingRows, "exhibition", false)
	}()
	if err != nil {
		return nil, nil, err
	}
	return orders, bookings, nil
}

func collectSummaries(rows pgx.Rows, typ string, withUserName bool) ([]Summary, error) {
	var out []Summary
	for rows.Next() {
		var sm Summary
		var amount, status string
		if err := rows.Scan(&sm.ID, &sm.UserID, &sm.UserName, &sm.ReferenceID, &sm.ItemTitle,
			&amount, &status, &sm.CreatedAt); err != nil {
			return nil, err
		}
		if !withUserName {
			sm.UserName = ""
		}
		sm.Type = typ
		sm.PaymentStatus = PaymentStatus(status)
		if err := setAmount(&sm.Amount, amount); err != nil {
			return nil, err
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *PGStore) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return s.db.Exec(ctx, sql, args...)
}

func (s *PGStore) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return s.db.QueryRow(ctx, sql, args...)
}
