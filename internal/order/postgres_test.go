package order_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mkimathi/gallery-api/internal/order"
	"github.com/mkimathi/gallery-api/internal/testutil"
)

func TestArtworkOrderLifecycle(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	userID := testutil.InsertUser(t, ctx, pool, "Wanjiku", "wanjiku@example.com", "254700000001")
	artworkID := testutil.InsertArtwork(t, ctx, pool, "Sunset Over Nairobi", "15000.00")

	store := order.NewPGStore(pool)

	orderID, err := store.CreateArtworkOrder(ctx, userID, artworkID, decimal.RequireFromString("15000.00"))
	if err != nil {
		t.Fatalf("create artwork order: %v", err)
	}

	o, err := store.GetOrder(ctx, order.KindArtwork, orderID, userID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if o.PaymentStatus != order.PaymentPending {
		t.Fatalf("new order status = %s, want pending", o.PaymentStatus)
	}
	if !o.TotalAmount.Equal(decimal.RequireFromString("15000.00")) {
		t.Fatalf("total amount = %s, want 15000.00", o.TotalAmount)
	}

	if err := store.SetPaymentStatus(ctx, order.KindArtwork, orderID, order.PaymentCompleted); err != nil {
		t.Fatalf("set payment status: %v", err)
	}

	var status string
	if err := pool.QueryRow(ctx, `SELECT status FROM artworks WHERE id=$1`, artworkID).Scan(&status); err != nil {
		t.Fatalf("read artwork status: %v", err)
	}
	if status != "sold" {
		t.Fatalf("artwork status after completion = %q, want sold", status)
	}
}

func TestCreateArtworkOrderUnknownUser(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	store := order.NewPGStore(pool)
	_, err := store.CreateArtworkOrder(ctx, 999, 1, decimal.NewFromInt(100))
	if !errors.Is(err, order.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestExhibitionBookingLifecycle(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	userID := testutil.InsertUser(t, ctx, pool, "Atieno", "atieno@example.com", "254700000002")
	exhibitionID := testutil.InsertExhibition(t, ctx, pool, "Contemporary Voices", "200.00", 10)

	store := order.NewPGStore(pool)

	bookingID, code, err := store.CreateExhibitionBooking(ctx, userID, exhibitionID, 3)
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	if code == "" {
		t.Fatal("expected a ticket code on a fresh booking")
	}

	b, err := store.GetOrder(ctx, order.KindExhibition, bookingID, userID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if b.Slots != 3 {
		t.Fatalf("slots = %d, want 3", b.Slots)
	}
	if !b.TotalAmount.Equal(decimal.RequireFromString("600.00")) {
		t.Fatalf("total = %s, want 600.00", b.TotalAmount)
	}

	if err := store.SetPaymentStatus(ctx, order.KindExhibition, bookingID, order.PaymentCompleted); err != nil {
		t.Fatalf("set payment status: %v", err)
	}

	var available int
	if err := pool.QueryRow(ctx, `SELECT available_slots FROM exhibitions WHERE id=$1`, exhibitionID).Scan(&available); err != nil {
		t.Fatalf("read slots: %v", err)
	}
	if available != 7 {
		t.Fatalf("available slots = %d, want 7", available)
	}

	// A second booking call for the same pair returns the completed one.
	againID, againCode, err := store.CreateExhibitionBooking(ctx, userID, exhibitionID, 5)
	if err != nil {
		t.Fatalf("rebook: %v", err)
	}
	if againID != bookingID || againCode != code {
		t.Fatalf("rebook = (%d, %q), want existing (%d, %q)", againID, againCode, bookingID, code)
	}
}

func TestBookingUnknownExhibition(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	userID := testutil.InsertUser(t, ctx, pool, "Otieno", "otieno@example.com", "254700000003")

	store := order.NewPGStore(pool)
	_, _, err := store.CreateExhibitionBooking(ctx, userID, 404, 1)
	if !errors.Is(err, order.ErrExhibitionNotFound) {
		t.Fatalf("err = %v, want ErrExhibitionNotFound", err)
	}
}

func TestTransactionLedger(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	userID := testutil.InsertUser(t, ctx, pool, "Njeri", "njeri@example.com", "254700000004")
	artworkID := testutil.InsertArtwork(t, ctx, pool, "Maasai Market", "8000.00")

	store := order.NewPGStore(pool)
	orderID, err := store.CreateArtworkOrder(ctx, userID, artworkID, decimal.RequireFromString("8000.00"))
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	txn := &order.Transaction{
		CheckoutRequestID: "ws_20240101120000_1",
		MerchantRequestID: "mr_20240101120000_1",
		Kind:              order.KindArtwork,
		OrderID:           orderID,
		UserID:            userID,
		Amount:            decimal.RequireFromString("8000.00"),
		PhoneNumber:       "254700000004",
	}
	if err := store.RecordTransaction(ctx, txn); err != nil {
		t.Fatalf("record transaction: %v", err)
	}
	if err := store.RecordTransaction(ctx, txn); !errors.Is(err, order.ErrConflict) {
		t.Fatalf("duplicate record err = %v, want ErrConflict", err)
	}

	got, err := store.GetTransaction(ctx, txn.CheckoutRequestID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if got.Status != order.PaymentPending {
		t.Fatalf("fresh transaction status = %s, want pending", got.Status)
	}
	if got.OrderID != orderID || got.Kind != order.KindArtwork {
		t.Fatalf("transaction row mismatch: %+v", got)
	}

	if err := store.UpdateTransaction(ctx, txn.CheckoutRequestID, order.PaymentFailed, "1032", "Request cancelled by user"); err != nil {
		t.Fatalf("update transaction: %v", err)
	}
	got, err = store.GetTransaction(ctx, txn.CheckoutRequestID)
	if err != nil {
		t.Fatalf("re-get transaction: %v", err)
	}
	if got.Status != order.PaymentFailed || got.ResultCode != "1032" {
		t.Fatalf("updated transaction = %s/%s, want failed/1032", got.Status, got.ResultCode)
	}

	if err := store.UpdateTransaction(ctx, "ws_unknown", order.PaymentCompleted, "0", "ok"); !errors.Is(err, order.ErrTransactionNotFound) {
		t.Fatalf("unknown checkout err = %v, want ErrTransactionNotFound", err)
	}
}

func TestListUserOrders(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	userID := testutil.InsertUser(t, ctx, pool, "Kamau", "kamau@example.com", "254700000005")
	artworkID := testutil.InsertArtwork(t, ctx, pool, "Tide Lines", "5000.00")
	exhibitionID := testutil.InsertExhibition(t, ctx, pool, "Coastal Forms", "300.00", 20)

	store := order.NewPGStore(pool)
	if _, err := store.CreateArtworkOrder(ctx, userID, artworkID, decimal.RequireFromString("5000.00")); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, _, err := store.CreateExhibitionBooking(ctx, userID, exhibitionID, 2); err != nil {
		t.Fatalf("create booking: %v", err)
	}

	orders, bookings, err := store.ListUserOrders(ctx, userID)
	if err != nil {
		t.Fatalf("list user orders: %v", err)
	}
	if len(orders) != 1 || len(bookings) != 1 {
		t.Fatalf("got %d orders, %d bookings, want 1 and 1", len(orders), len(bookings))
	}
	if orders[0].ItemTitle != "Tide Lines" {
		t.Fatalf("order title = %q", orders[0].ItemTitle)
	}
	if bookings[0].Type != "exhibition" {
		t.Fatalf("booking type = %q", bookings[0].Type)
	}
}
