package app

import (
	"net/http"

	"github.com/seatwise/cinegate/api"
	"github.com/seatwise/cinegate/internal/booking"
	"github.com/seatwise/cinegate/internal/domain"
)

func (app *application) GetBookingFlow(w http.ResponseWriter, r *http.Request) {
	flow := app.bookingFlow(r)

	err := app.writeJSON(w, http.StatusOK, toFlowResponse(flow), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) AbandonBookingFlow(w http.ResponseWriter, r *http.Request) {
	app.clearBookingFlow(r)

	w.WriteHeader(http.StatusNoContent)
}

// SelectShowtime resolves the requested showtime against the movie's
// listing, resets all showtime-dependent flow state, then fetches the seat
// map. Seat availability is a snapshot, not a hold.
func (app *application) SelectShowtime(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.SelectShowtimeRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	client := app.cinemaClient(app.upstreamSession(r))

	movie, err := client.MovieBySlug(r.Context(), input.MovieSlug)
	if err != nil {
		app.upstreamErrorResponse(w, r, err)
		return
	}

	flow := app.bookingFlow(r)

	showtime, ok := movie.ShowtimeByID(input.ShowtimeId)
	if !ok {
		logger.Warn("showtime not found in movie listing", "movie", input.MovieSlug, "showtime", input.ShowtimeId)
		flow.ClearShowtime(movie.Slug, movie.Title)
		app.respondWithFlow(w, r, flow)
		return
	}

	flow.SelectShowtime(movie.Slug, movie.Title, showtime)

	seats, err := client.SeatMap(r.Context(), showtime.ID)
	if err != nil {
		// selection stands; the seat map can be retried via refresh
		if saveErr := app.saveBookingFlow(r, flow); saveErr != nil {
			app.serverErrorResponse(w, r, saveErr)
			return
		}

		app.upstreamErrorResponse(w, r, err)
		return
	}

	if !flow.ApplySeatMap(showtime.ID, seats) {
		logger.Warn("discarded seat map for superseded showtime", "showtime", showtime.ID)
	}

	app.respondWithFlow(w, r, flow)
}

// RefreshSeatMap refetches availability for the selected showtime, for
// example after a submission was rejected because a seat was taken.
func (app *application) RefreshSeatMap(w http.ResponseWriter, r *http.Request) {
	flow := app.bookingFlow(r)

	if flow.Showtime == nil {
		app.flowErrorResponse(w, r, domain.ErrNoShowtimeSelected)
		return
	}

	client := app.cinemaClient(app.upstreamSession(r))

	showtimeID := flow.Showtime.ID

	seats, err := client.SeatMap(r.Context(), showtimeID)
	if err != nil {
		app.upstreamErrorResponse(w, r, err)
		return
	}

	flow.ApplySeatMap(showtimeID, seats)

	// selected seats that became reserved are dropped from the selection
	for _, entry := range flow.SelectedSeats() {
		for _, seat := range seats {
			if seat.ID == entry.SeatID && seat.Reserved {
				delete(flow.Selection, entry.SeatID)
			}
		}
	}

	app.respondWithFlow(w, r, flow)
}

func (app *application) ToggleSeat(w http.ResponseWriter, r *http.Request) {
	seatID, err := app.readIDParam(r, "seatID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	flow := app.bookingFlow(r)

	err = flow.ToggleSeat(seatID)
	if err != nil {
		app.flowErrorResponse(w, r, err)
		return
	}

	app.respondWithFlow(w, r, flow)
}

func (app *application) SetTicketType(w http.ResponseWriter, r *http.Request) {
	seatID, err := app.readIDParam(r, "seatID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.TicketTypeRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	flow := app.bookingFlow(r)

	err = flow.SetTicketType(seatID, domain.TicketType(input.TicketType))
	if err != nil {
		app.flowErrorResponse(w, r, err)
		return
	}

	app.respondWithFlow(w, r, flow)
}

// SetPayment resolves the flow's payment choice. A saved-card reference
// wins over ad-hoc card details when both are sent.
func (app *application) SetPayment(w http.ResponseWriter, r *http.Request) {
	var input api.PaymentRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	flow := app.bookingFlow(r)

	if input.CardId != nil {
		client := app.cinemaClient(app.upstreamSession(r))

		cards, err := client.PaymentCards(r.Context())
		if err != nil {
			app.upstreamErrorResponse(w, r, err)
			return
		}

		card, ok := findCard(cards, *input.CardId)
		if !ok {
			app.errorResponse(w, r, http.StatusNotFound, "The selected saved card could not be found")
			return
		}

		flow.UseSavedCard(card)
		app.respondWithFlow(w, r, flow)
		return
	}

	details := domain.CardDetails{
		HolderName: input.CardHolderName,
		Number:     input.CardNumber,
		Expiry:     input.CardExpiry,
		CVC:        input.CardCVC,
	}

	if !details.Complete() {
		app.flowErrorResponse(w, r, domain.ErrPaymentIncomplete)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	err = flow.UseCardDetails(details)
	if err != nil {
		app.flowErrorResponse(w, r, err)
		return
	}

	app.respondWithFlow(w, r, flow)
}

func (app *application) SetPromo(w http.ResponseWriter, r *http.Request) {
	var input struct {
		PromoCode string `json:"promo_code" validate:"max=64"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	flow := app.bookingFlow(r)
	flow.SetPromoCode(input.PromoCode)

	app.respondWithFlow(w, r, flow)
}

func (app *application) ValidatePromo(w http.ResponseWriter, r *http.Request) {
	var input api.PromoRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	client := app.cinemaClient(app.upstreamSession(r))

	result, err := client.ValidatePromo(r.Context(), input.PromoCode)
	if err != nil {
		app.upstreamErrorResponse(w, r, err)
		return
	}

	resp := api.PromoResponse{
		PromoCode:       result.Code,
		DiscountPercent: result.DiscountPercent,
		Description:     result.Description,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// SubmitBooking drives the flow's submission. The upstream server is the
// sole authority on seat availability; a rejection comes back with its
// message intact and the selection preserved for retry.
func (app *application) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	flow := app.bookingFlow(r)
	client := app.cinemaClient(app.upstreamSession(r))

	confirmation, err := flow.Submit(r.Context(), client)
	if err != nil {
		if saveErr := app.saveBookingFlow(r, flow); saveErr != nil {
			app.serverErrorResponse(w, r, saveErr)
			return
		}

		logger.Warn("booking submission failed", "error", err)
		app.flowErrorResponse(w, r, err)
		return
	}

	app.clearBookingFlow(r)

	resp := api.BookingConfirmationResponse{
		Booking:  toBookingResponse(*confirmation),
		Redirect: "/bookings/my",
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) respondWithFlow(w http.ResponseWriter, r *http.Request, flow *booking.Flow) {
	err := app.saveBookingFlow(r, flow)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toFlowResponse(flow), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func findCard(cards []domain.PaymentCard, id int) (domain.PaymentCard, bool) {
	for _, card := range cards {
		if card.ID == id {
			return card, true
		}
	}

	return domain.PaymentCard{}, false
}

func toFlowResponse(flow *booking.Flow) api.BookingFlowResponse {
	resp := api.BookingFlowResponse{
		State:      string(flow.State),
		MovieSlug:  flow.MovieSlug,
		MovieTitle: flow.MovieTitle,
		SeatsReady: flow.SeatsReady,
		Selection:  make([]api.SelectionEntry, 0, len(flow.Selection)),
	}

	if flow.Showtime != nil {
		st := toShowtime(*flow.Showtime)
		resp.Showtime = &st
	}

	if flow.SeatsReady {
		resp.Seats = make([]api.Seat, 0, len(flow.Seats))
		for _, seat := range flow.Seats {
			_, selected := flow.Selection[seat.ID]
			resp.Seats = append(resp.Seats, api.Seat{
				Id:       seat.ID,
				Label:    seat.Label(),
				Row:      seat.Row,
				Number:   seat.Number,
				Reserved: seat.Reserved,
				Selected: selected,
			})
		}
	}

	labels := make(map[int]string, len(flow.Seats))
	for _, seat := range flow.Seats {
		labels[seat.ID] = seat.Label()
	}

	for _, entry := range flow.SelectedSeats() {
		resp.Selection = append(resp.Selection, api.SelectionEntry{
			SeatId:     entry.SeatID,
			Label:      labels[entry.SeatID],
			TicketType: string(entry.TicketType),
		})
	}

	if flow.Payment != nil {
		resp.Payment = &api.PaymentDescriptor{
			Method: string(flow.Payment.Method),
			CardId: flow.Payment.CardID,
			Last4:  flow.Payment.Last4,
		}
	}

	resp.PromoCode = flow.PromoCode

	summary := flow.Summary()
	resp.Summary = api.PriceSummary{
		SeatCount: summary.SeatCount,
		BasePrice: summary.BasePrice,
		Total:     summary.Total,
		Tickets:   make(map[string]int, len(summary.Tickets)),
	}
	for ticketType, count := range summary.Tickets {
		resp.Summary.Tickets[string(ticketType)] = count
	}

	return resp
}

func toBookingResponse(b domain.Booking) api.Booking {
	return api.Booking{
		Id:         b.ID,
		ShowtimeId: b.ShowtimeID,
		TotalPrice: b.TotalPrice,
		PromoCode:  b.PromoCode,
		CreatedAt:  b.CreatedAt,
	}
}
