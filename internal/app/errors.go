package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/seatwise/cinegate/api"
	"github.com/seatwise/cinegate/internal/cinema"
	"github.com/seatwise/cinegate/internal/domain"
	appvalidator "github.com/seatwise/cinegate/internal/validator"
)

const (
	ErrInternalServer      = "The server encountered a problem and could not process your request"
	ErrNotFound            = "The requested resource could not be found"
	ErrValidationFailed    = "Validation failed for one or more fields"
	ErrAuthRequired        = "Please log in to book tickets"
	ErrInvalidCredentials  = "Invalid email or password"
	ErrUpstreamUnavailable = "The cinema service is unreachable, please try again"
	ErrPaymentIncomplete   = "Please enter payment details or choose a saved card"
)

func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.contextGetLogger(r).Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.contextGetLogger(r).Error(err.Error(), "method", r.Method, "uri", r.URL.RequestURI())
	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *application) authRequiredResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusUnauthorized, ErrAuthRequired)
}

func (app *application) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusUnauthorized, ErrInvalidCredentials)
}

func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		app.serverErrorResponse(w, r, err)
		return
	}

	fieldErrors := make([]api.ValidationError, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		fieldErrors = append(fieldErrors, api.ValidationError{
			Field: fieldError.Field(),
			Issue: appvalidator.ValidationMessage(fieldError),
		})
	}

	resp := api.ValidationErrorResponse{
		Message:          ErrValidationFailed,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: fieldErrors,
	}

	writeErr := app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if writeErr != nil {
		app.contextGetLogger(r).Error(writeErr.Error())
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// upstreamErrorResponse maps errors from the cinema client onto gateway
// responses. Upstream rejections keep their status code and extracted
// message verbatim so the UI can show exactly what the server said.
func (app *application) upstreamErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var serverErr *cinema.ServerError
	var netErr *cinema.NetworkError

	switch {
	case errors.Is(err, cinema.ErrAuthRequired):
		app.authRequiredResponse(w, r)

	case errors.As(err, &serverErr):
		app.errorResponse(w, r, serverErr.StatusCode, serverErr.Message)

	case errors.As(err, &netErr):
		app.contextGetLogger(r).Error(err.Error(), "method", r.Method, "uri", r.URL.RequestURI())
		app.errorResponse(w, r, http.StatusBadGateway, ErrUpstreamUnavailable)

	default:
		app.serverErrorResponse(w, r, err)
	}
}

// flowErrorResponse maps booking-flow guard failures onto gateway responses.
// None of these involve a network call.
func (app *application) flowErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSeatReserved),
		errors.Is(err, domain.ErrSubmitInProgress):
		app.errorResponse(w, r, http.StatusConflict, err.Error())

	case errors.Is(err, domain.ErrPaymentIncomplete):
		app.errorResponse(w, r, http.StatusUnprocessableEntity, ErrPaymentIncomplete)

	case errors.Is(err, domain.ErrEmptySelection):
		app.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, domain.ErrNoShowtimeSelected),
		errors.Is(err, domain.ErrSeatMapNotLoaded),
		errors.Is(err, domain.ErrSeatNotFound),
		errors.Is(err, domain.ErrSeatNotSelected),
		errors.Is(err, domain.ErrInvalidTicketType):
		app.errorResponse(w, r, http.StatusBadRequest, err.Error())

	default:
		app.upstreamErrorResponse(w, r, err)
	}
}
