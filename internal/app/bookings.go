package app

import (
	"net/http"

	"github.com/seatwise/cinegate/api"
)

func (app *application) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	client := app.cinemaClient(app.upstreamSession(r))

	bookings, err := client.MyBookings(r.Context())
	if err != nil {
		app.upstreamErrorResponse(w, r, err)
		return
	}

	resp := api.BookingListResponse{Bookings: make([]api.Booking, 0, len(bookings))}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, toBookingResponse(b))
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
