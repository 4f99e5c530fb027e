// Package booking holds the seat-selection and submission state machine for
// one booking-page visit. A Flow is plain serializable state with no
// transport concerns; the HTTP layer stores it in the user session and any
// UI observes it through snapshots.
package booking

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/seatwise/cinegate/internal/domain"
)

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
)

// Submitter is the single network boundary a flow touches. The upstream
// server's acceptance or rejection of this call is the only consistency
// mechanism for seat availability.
type Submitter interface {
	CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error)
}

type Flow struct {
	ID         string                    `json:"id"`
	MovieSlug  string                    `json:"movie_slug,omitempty"`
	MovieTitle string                    `json:"movie_title,omitempty"`
	Showtime   *domain.Showtime          `json:"showtime,omitempty"`
	Seats      []domain.Seat             `json:"seats,omitempty"`
	SeatsReady bool                      `json:"seats_ready"`
	Selection  map[int]domain.TicketType `json:"selection"`
	Payment    *domain.PaymentSelection  `json:"payment,omitempty"`
	PromoCode  string                    `json:"promo_code,omitempty"`
	State      State                     `json:"state"`
}

func New() *Flow {
	return &Flow{
		ID:        uuid.New().String(),
		Selection: make(map[int]domain.TicketType),
		State:     StateIdle,
	}
}

// SelectShowtime switches the flow to a new showtime. The selection set and
// any loaded seat map always belong to exactly one showtime, so both are
// discarded even when re-selecting the current one.
func (f *Flow) SelectShowtime(movieSlug, movieTitle string, st domain.Showtime) {
	f.MovieSlug = movieSlug
	f.MovieTitle = movieTitle
	f.Showtime = &st
	f.reset()
}

// ClearShowtime handles an unresolvable showtime identifier: no error, the
// flow degrades to "not selected".
func (f *Flow) ClearShowtime(movieSlug, movieTitle string) {
	f.MovieSlug = movieSlug
	f.MovieTitle = movieTitle
	f.Showtime = nil
	f.reset()
}

func (f *Flow) reset() {
	f.Seats = nil
	f.SeatsReady = false
	f.Selection = make(map[int]domain.TicketType)
	f.State = StateIdle
}

// ApplySeatMap installs a fetched seat map, guarding against stale
// responses: a map fetched for a showtime that is no longer selected is
// discarded rather than applied. Reports whether the map was installed.
func (f *Flow) ApplySeatMap(showtimeID int, seats []domain.Seat) bool {
	if f.Showtime == nil || f.Showtime.ID != showtimeID {
		return false
	}

	f.Seats = seats
	f.SeatsReady = true

	return true
}

func (f *Flow) seat(seatID int) (domain.Seat, bool) {
	for _, s := range f.Seats {
		if s.ID == seatID {
			return s, true
		}
	}

	return domain.Seat{}, false
}

// ToggleSeat adds or removes one seat. Removing a seat drops its
// ticket-type entry atomically. Reserved seats never enter the selection,
// regardless of what the UI allowed.
func (f *Flow) ToggleSeat(seatID int) error {
	if !f.SeatsReady {
		return domain.ErrSeatMapNotLoaded
	}

	if _, selected := f.Selection[seatID]; selected {
		delete(f.Selection, seatID)
		return nil
	}

	seat, ok := f.seat(seatID)
	if !ok {
		return domain.ErrSeatNotFound
	}

	if seat.Reserved {
		return domain.ErrSeatReserved
	}

	f.Selection[seatID] = domain.DefaultTicketType

	return nil
}

// SetTicketType assigns a pricing category to an already selected seat.
// Calling it for a seat outside the selection is an error, not a silent
// no-op.
func (f *Flow) SetTicketType(seatID int, t domain.TicketType) error {
	if !t.Valid() {
		return domain.ErrInvalidTicketType
	}

	if _, selected := f.Selection[seatID]; !selected {
		return domain.ErrSeatNotSelected
	}

	f.Selection[seatID] = t

	return nil
}

// UseSavedCard resolves payment to a saved card reference. Any previously
// entered ad-hoc details are superseded entirely.
func (f *Flow) UseSavedCard(card domain.PaymentCard) {
	f.Payment = &domain.PaymentSelection{
		Method: domain.PaymentMethodSavedCard,
		CardID: card.ID,
		Last4:  card.Last4(),
	}
}

// UseCardDetails resolves payment from ad-hoc input. Only the derived
// last-4 survives; the full number and CVC stay with the caller.
func (f *Flow) UseCardDetails(details domain.CardDetails) error {
	if !details.Complete() {
		return domain.ErrPaymentIncomplete
	}

	f.Payment = &domain.PaymentSelection{
		Method: domain.PaymentMethodCard,
		Last4:  details.Last4(),
	}

	return nil
}

func (f *Flow) ClearPayment() {
	f.Payment = nil
}

func (f *Flow) SetPromoCode(code string) {
	f.PromoCode = strings.TrimSpace(code)
}

// SelectedSeats returns the selection as submission entries, ordered by
// seat id for a deterministic payload.
func (f *Flow) SelectedSeats() []domain.BookingSeat {
	seats := make([]domain.BookingSeat, 0, len(f.Selection))
	for id, t := range f.Selection {
		seats = append(seats, domain.BookingSeat{SeatID: id, TicketType: t})
	}

	sort.Slice(seats, func(i, j int) bool { return seats[i].SeatID < seats[j].SeatID })

	return seats
}

// BuildRequest assembles a fresh BookingRequest from current flow state,
// enforcing the local guards that must hold before any network call.
func (f *Flow) BuildRequest() (domain.BookingRequest, error) {
	if f.Showtime == nil {
		return domain.BookingRequest{}, domain.ErrNoShowtimeSelected
	}

	if len(f.Selection) == 0 {
		return domain.BookingRequest{}, domain.ErrEmptySelection
	}

	if f.Payment == nil {
		return domain.BookingRequest{}, domain.ErrPaymentIncomplete
	}

	req := domain.BookingRequest{
		ShowtimeID:    f.Showtime.ID,
		Seats:         f.SelectedSeats(),
		PaymentMethod: f.Payment.Method,
		PaymentLast4:  f.Payment.Last4,
		PromoCode:     f.PromoCode,
	}

	if f.Payment.Method == domain.PaymentMethodSavedCard {
		req.PaymentCardID = f.Payment.CardID
	}

	return req, nil
}

// Submit drives Idle -> Submitting -> {Succeeded, Idle}. A
// guard failure returns before any network call. On rejection the selection
// is preserved so the user can retry; on success the transient selection
// and payment state are discarded.
func (f *Flow) Submit(ctx context.Context, submitter Submitter) (*domain.Booking, error) {
	if f.State == StateSubmitting {
		return nil, domain.ErrSubmitInProgress
	}

	req, err := f.BuildRequest()
	if err != nil {
		f.State = StateIdle
		return nil, err
	}

	f.State = StateSubmitting

	confirmation, err := submitter.CreateBooking(ctx, req)
	if err != nil {
		f.State = StateIdle
		return nil, err
	}

	f.State = StateSucceeded
	f.Selection = make(map[int]domain.TicketType)
	f.Payment = nil
	f.PromoCode = ""

	return confirmation, nil
}
