package booking

import (
	"github.com/seatwise/cinegate/internal/domain"
	"github.com/shopspring/decimal"
)

// Summary is the derived price breakdown for the current selection. Promo
// discounts are applied server-side only; the summary reflects list prices.
type Summary struct {
	SeatCount int                       `json:"seat_count"`
	BasePrice decimal.Decimal           `json:"base_price"`
	Total     decimal.Decimal           `json:"total"`
	Tickets   map[domain.TicketType]int `json:"tickets"`
}

func (f *Flow) Summary() Summary {
	summary := Summary{
		SeatCount: len(f.Selection),
		BasePrice: decimal.Zero,
		Total:     decimal.Zero,
		Tickets:   make(map[domain.TicketType]int),
	}

	if f.Showtime != nil {
		summary.BasePrice = f.Showtime.BasePrice
	}

	for _, t := range f.Selection {
		summary.Tickets[t]++
		summary.Total = summary.Total.Add(summary.BasePrice)
	}

	return summary
}
