package domain

import "strings"

type PaymentMethod string

const (
	PaymentMethodSavedCard PaymentMethod = "saved-card"
	PaymentMethodCard      PaymentMethod = "card"
)

// PaymentCard is a saved card as the upstream API returns it. The full PAN
// is server-held; only the masked number ever reaches this process.
type PaymentCard struct {
	ID           int    `json:"id"`
	NumberMasked string `json:"card_number_masked"`
	HolderName   string `json:"card_holder_name"`
	ExpiryMonth  int    `json:"expiry_month"`
	ExpiryYear   int    `json:"expiry_year"`
	IsDefault    bool   `json:"is_default"`
}

func (c PaymentCard) Last4() string {
	return lastFourDigits(c.NumberMasked)
}

// CardDetails holds freshly entered card fields. Instances are
// request-scoped: the flow keeps only the derived PaymentSelection, never
// the full number or CVC.
type CardDetails struct {
	HolderName string
	Number     string
	Expiry     string
	CVC        string
}

func (c CardDetails) Complete() bool {
	return c.HolderName != "" && c.Number != "" && c.Expiry != "" && c.CVC != ""
}

func (c CardDetails) Last4() string {
	return lastFourDigits(c.Number)
}

// PaymentSelection is the resolved payment descriptor attached to a booking
// flow. Exactly one of the two shapes applies: a saved card reference, or a
// method tag plus the last four digits derived from ad-hoc input.
type PaymentSelection struct {
	Method PaymentMethod `json:"method"`
	CardID int           `json:"card_id,omitempty"`
	Last4  string        `json:"last4,omitempty"`
}

func lastFourDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if len(digits) < 4 {
		return digits
	}

	return digits[len(digits)-4:]
}
