// Package mpesa coordinates single payment attempts end to end: push
// request validation, find-or-create of the underlying order, the
// transaction ledger entry, and callback-driven reconciliation.
package mpesa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mkimathi/gallery-api/internal/order"
)

// Config carries the gateway credential block. It is read once at process
// start and injected here; nothing in this package touches the environment.
type Config struct {
	ConsumerKey    string
	ConsumerSecret string
	Passkey        string
	Shortcode      string
	CallbackURL    string
	// Simulate completes every push immediately instead of waiting for the
	// gateway callback. On by default until real gateway credentials exist.
	Simulate bool
}

type Orchestrator struct {
	cfg   Config
	store order.Store
	now   func() time.Time
}

func New(cfg Config, store order.Store) *Orchestrator {
	return &Orchestrator{cfg: cfg, store: store, now: time.Now}
}

// HandleStkPush validates the request, finds or creates the order, records a
// pending ledger entry and, on the simulated path, completes it at once.
func (o *Orchestrator) HandleStkPush(ctx context.Context, req PushRequest) (*PushResponse, error) {
	var missing []string
	if strings.TrimSpace(req.PhoneNumber) == "" {
		missing = append(missing, "phoneNumber")
	}
	if !req.Amount.IsPositive() {
		missing = append(missing, "amount")
	}
	if strings.TrimSpace(req.OrderType) == "" {
		missing = append(missing, "orderType")
	}
	if req.OrderID == 0 {
		missing = append(missing, "orderId")
	}
	if req.UserID == 0 {
		missing = append(missing, "userId")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	kind, err := order.ParseKind(req.OrderType)
	if err != nil {
		return nil, err
	}

	now := o.now()
	checkoutID := fmt.Sprintf("ws_%s_%d", now.Format("20060102150405"), req.OrderID)
	merchantID := fmt.Sprintf("mr_%s_%d", now.Format("20060102150405"), req.OrderID)

	orderID, err := o.findOrCreateOrder(ctx, kind, req)
	if err != nil {
		return nil, err
	}

	if err := o.store.RecordTransaction(ctx, &order.Transaction{
		CheckoutRequestID: checkoutID,
		MerchantRequestID: merchantID,
		Kind:              kind,
		OrderID:           orderID,
		UserID:            req.UserID,
		Amount:            req.Amount,
		PhoneNumber:       req.PhoneNumber,
		Status:            order.PaymentPending,
	}); err != nil {
		return nil, err
	}

	if o.cfg.Simulate {
		// No gateway behind the demo path: apply what a success callback
		// would, order status first, then the ledger entry.
		if err := o.store.SetPaymentStatus(ctx, kind, orderID, order.PaymentCompleted); err != nil {
			return nil, err
		}
		if err := o.store.UpdateTransaction(ctx, checkoutID, order.PaymentCompleted, "0", "Success"); err != nil {
			return nil, err
		}
	}

	return &PushResponse{
		Success:           true,
		CheckoutRequestID: checkoutID,
		MerchantRequestID: merchantID,
		PhoneNumber:       req.PhoneNumber,
		Amount:            req.Amount,
	}, nil
}

// findOrCreateOrder resolves the order the push pays for. When no order row
// exists yet the request's orderId is the catalog reference (artwork or
// exhibition id) and a fresh pending row is created from it.
func (o *Orchestrator) findOrCreateOrder(ctx context.Context, kind order.Kind, req PushRequest) (int64, error) {
	existing, err := o.store.GetOrder(ctx, kind, req.OrderID, req.UserID)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, order.ErrNotFound) {
		return 0, err
	}

	// Two attempts: a generated-code collision or a lost create race
	// surfaces as ErrConflict and is retryable.
	for attempt := 0; ; attempt++ {
		var orderID int64
		switch kind {
		case order.KindArtwork:
			orderID, err = o.store.CreateArtworkOrder(ctx, req.UserID, req.OrderID, req.Amount)
		case order.KindExhibition:
			slots := req.Slots
			if slots <= 0 {
				slots = 1
			}
			orderID, _, err = o.store.CreateExhibitionBooking(ctx, req.UserID, req.OrderID, slots)
		}
		if err == nil {
			return orderID, nil
		}
		if !errors.Is(err, order.ErrConflict) || attempt > 0 {
			return 0, err
		}
	}
}

// CheckStatus is a pure read of the transaction ledger.
func (o *Orchestrator) CheckStatus(ctx context.Context, checkoutID string) (*StatusResponse, error) {
	t, err := o.store.GetTransaction(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	return &StatusResponse{
		Success:           true,
		CheckoutRequestID: t.CheckoutRequestID,
		Status:            string(t.Status),
		ResultCode:        t.ResultCode,
		ResultDesc:        t.ResultDesc,
		OrderType:         t.Kind.String(),
		OrderID:           t.OrderID,
	}, nil
}

// HandleCallback reconciles a gateway notification with the ledger and the
// linked order. A completed transaction is terminal: replays are answered
// with success and no further mutation.
func (o *Orchestrator) HandleCallback(ctx context.Context, env CallbackEnvelope) (*CallbackResponse, error) {
	cb := env.Body.StkCallback

	t, err := o.store.GetTransaction(ctx, cb.CheckoutRequestID)
	if err != nil {
		return nil, err
	}

	if t.Status == order.PaymentCompleted {
		return &CallbackResponse{Success: true, Message: "Transaction already processed"}, nil
	}

	resultCode := cb.ResultCode.String()
	status := order.PaymentFailed
	if resultCode == "0" {
		status = order.PaymentCompleted
	}

	if err := o.store.UpdateTransaction(ctx, cb.CheckoutRequestID, status, resultCode, cb.ResultDesc); err != nil {
		return nil, err
	}
	// The order follows the transaction outcome either way; the completed
	// cascade (artwork sold, slots decremented) happens inside the store.
	if err := o.store.SetPaymentStatus(ctx, t.Kind, t.OrderID, status); err != nil {
		return nil, err
	}

	return &CallbackResponse{
		Success:           true,
		CheckoutRequestID: cb.CheckoutRequestID,
		Status:            string(status),
	}, nil
}
