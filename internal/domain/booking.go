package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingSeat pairs one seat with its chosen ticket type in the wire format
// the upstream booking endpoint expects.
type BookingSeat struct {
	SeatID     int        `json:"seat"`
	TicketType TicketType `json:"ticket_type"`
}

// BookingRequest is the atomic submission payload. It is constructed once
// per submit action from current flow state and never mutated afterwards; a
// failed submission rebuilds it from scratch.
type BookingRequest struct {
	ShowtimeID    int           `json:"showtime"`
	Seats         []BookingSeat `json:"seats"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentLast4  string        `json:"payment_last4,omitempty"`
	PaymentCardID int           `json:"payment_card_id,omitempty"`
	PromoCode     string        `json:"promo_code,omitempty"`
}

// Booking is the confirmation record the upstream server persists.
type Booking struct {
	ID         int             `json:"id"`
	ShowtimeID int             `json:"showtime"`
	Seats      []BookingSeat   `json:"seats,omitempty"`
	TotalPrice decimal.Decimal `json:"total_price"`
	PromoCode  string          `json:"promo_code,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PromoResult is the upstream response to a promo validation call.
type PromoResult struct {
	Code            string          `json:"promo_code"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Description     string          `json:"description"`
}
