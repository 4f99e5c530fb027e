package domain

import "errors"

var (
	ErrNoShowtimeSelected = errors.New("no showtime selected")
	ErrSeatMapNotLoaded   = errors.New("seat map not loaded for the selected showtime")
	ErrSeatNotFound       = errors.New("seat does not belong to the selected showtime")
	ErrSeatReserved       = errors.New("seat is already reserved")
	ErrSeatNotSelected    = errors.New("seat is not part of the current selection")
	ErrInvalidTicketType  = errors.New("invalid ticket type")
	ErrEmptySelection     = errors.New("no seats selected")
	ErrPaymentIncomplete  = errors.New("please enter payment details or choose a saved card")
	ErrSubmitInProgress   = errors.New("a booking submission is already in progress")
)
