package mpesa

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// PushRequest is the inbound STK push payload. Field names mirror the
// frontend contract.
type PushRequest struct {
	PhoneNumber      string          `json:"phoneNumber"`
	Amount           decimal.Decimal `json:"amount"`
	OrderType        string          `json:"orderType"`
	OrderID          int64           `json:"orderId"`
	UserID           int64           `json:"userId"`
	AccountReference string          `json:"accountReference,omitempty"`
	Slots            int             `json:"slots,omitempty"`
}

type PushResponse struct {
	Success           bool            `json:"success"`
	CheckoutRequestID string          `json:"checkout_request_id"`
	MerchantRequestID string          `json:"merchant_request_id"`
	PhoneNumber       string          `json:"phone_number"`
	Amount            decimal.Decimal `json:"amount"`
}

type StatusResponse struct {
	Success           bool   `json:"success"`
	CheckoutRequestID string `json:"checkout_request_id"`
	Status            string `json:"status"`
	ResultCode        string `json:"result_code"`
	ResultDesc        string `json:"result_desc"`
	OrderType         string `json:"order_type"`
	OrderID           int64  `json:"order_id"`
}

// CallbackEnvelope mirrors the gateway's asynchronous notification format.
// ResultCode arrives as a number from the real gateway and as a string from
// some test rigs; json.Number accepts both.
type CallbackEnvelope struct {
	Body struct {
		StkCallback struct {
			CheckoutRequestID string      `json:"CheckoutRequestID"`
			MerchantRequestID string      `json:"MerchantRequestID"`
			ResultCode        json.Number `json:"ResultCode"`
			ResultDesc        string      `json:"ResultDesc"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

type CallbackResponse struct {
	Success           bool   `json:"success"`
	CheckoutRequestID string `json:"checkout_request_id,omitempty"`
	Status            string `json:"status,omitempty"`
	Message           string `json:"message,omitempty"`
}

// ValidationError names every missing request field, not just the first.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
