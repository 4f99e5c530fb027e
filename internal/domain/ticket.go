package domain

// TicketType is the per-seat pricing category.
type TicketType string

const (
	TicketAdult   TicketType = "ADULT"
	TicketStudent TicketType = "STUDENT"
	TicketChild   TicketType = "CHILD"
	TicketSenior  TicketType = "SENIOR"
)

// DefaultTicketType is assigned when a seat first enters the selection.
const DefaultTicketType = TicketAdult

func (t TicketType) Valid() bool {
	switch t {
	case TicketAdult, TicketStudent, TicketChild, TicketSenior:
		return true
	}

	return false
}
