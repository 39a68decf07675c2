package order

import (
	"crypto/rand"
	"fmt"
)

const ticketCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewTicketCode returns a "TKT-" prefixed code with 8 random uppercase
// alphanumerics. Codes are not unique by construction; the store surfaces a
// collision on insert as ErrConflict.
func NewTicketCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate ticket code: %w", err)
	}
	for i, b := range buf {
		buf[i] = ticketCodeCharset[int(b)%len(ticketCodeCharset)]
	}
	return "TKT-" + string(buf), nil
}
