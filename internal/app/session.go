package app

import (
	"encoding/json"
	"net/http"

	"github.com/seatwise/cinegate/internal/booking"
	"github.com/seatwise/cinegate/internal/cinema"
	"github.com/seatwise/cinegate/internal/domain"
)

const (
	sessionKeyUpstream = "upstreamSession"
	sessionKeyFlow     = "bookingFlow"
)

// upstreamSession loads the user's upstream cookie jar from the gateway
// session, or starts a fresh guest one.
func (app *application) upstreamSession(r *http.Request) *cinema.Session {
	data := app.sessionManager.GetBytes(r.Context(), sessionKeyUpstream)
	if data == nil {
		return cinema.NewSession()
	}

	var session cinema.Session
	err := json.Unmarshal(data, &session)
	if err != nil {
		return cinema.NewSession()
	}

	return &session
}

func (app *application) saveUpstreamSession(r *http.Request, session *cinema.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	app.sessionManager.Put(r.Context(), sessionKeyUpstream, data)

	return nil
}

// bookingFlow loads the session's booking flow, or starts an empty one.
// Corrupt session data degrades to a fresh flow rather than an error.
func (app *application) bookingFlow(r *http.Request) *booking.Flow {
	data := app.sessionManager.GetBytes(r.Context(), sessionKeyFlow)
	if data == nil {
		return booking.New()
	}

	var flow booking.Flow
	err := json.Unmarshal(data, &flow)
	if err != nil {
		return booking.New()
	}

	if flow.Selection == nil {
		flow.Selection = make(map[int]domain.TicketType)
	}

	return &flow
}

func (app *application) saveBookingFlow(r *http.Request, flow *booking.Flow) error {
	data, err := json.Marshal(flow)
	if err != nil {
		return err
	}

	app.sessionManager.Put(r.Context(), sessionKeyFlow, data)

	return nil
}

func (app *application) clearBookingFlow(r *http.Request) {
	app.sessionManager.Remove(r.Context(), sessionKeyFlow)
}
