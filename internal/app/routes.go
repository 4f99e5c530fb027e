package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(otelchi.Middleware("cinegate", otelchi.WithChiRoutes(r)))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)

	r.Get("/health", app.GetHealth)

	r.Post("/auth/login", app.Login)
	r.Post("/auth/logout", app.Logout)
	r.Get("/auth/status", app.GetAuthStatus)

	r.Get("/movies", app.GetMovies)
	r.Get("/movies/{slug}", app.GetMovieBySlug)

	r.Group(func(r chi.Router) {
		r.Use(app.requireAuthentication)

		r.Get("/payment-cards", app.GetPaymentCards)
		r.Get("/bookings/my", app.GetMyBookings)
		r.Post("/promotions/validate", app.ValidatePromo)

		r.Route("/booking", func(r chi.Router) {
			r.Get("/", app.GetBookingFlow)
			r.Delete("/", app.AbandonBookingFlow)
			r.Put("/showtime", app.SelectShowtime)
			r.Post("/seats/refresh", app.RefreshSeatMap)
			r.Post("/seats/{seatID}/toggle", app.ToggleSeat)
			r.Put("/seats/{seatID}/ticket-type", app.SetTicketType)
			r.Put("/payment", app.SetPayment)
			r.Put("/promo", app.SetPromo)
			r.Post("/submit", app.SubmitBooking)
		})
	})

	return r
}
