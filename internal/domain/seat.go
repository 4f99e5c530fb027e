package domain

import "fmt"

// Seat is a read-only snapshot of one bookable position for a single
// showtime. Seat maps are re-fetched on every showtime change and never
// cached across showtimes.
type Seat struct {
	ID       int    `json:"id"`
	Row      string `json:"row"`
	Number   int    `json:"number"`
	Reserved bool   `json:"isReserved"`
}

func (s Seat) Label() string {
	return fmt.Sprintf("%s%d", s.Row, s.Number)
}
