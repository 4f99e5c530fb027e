package app

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seatwise/cinegate/api"
	"github.com/seatwise/cinegate/internal/booking"
	"github.com/seatwise/cinegate/internal/cinema"
	"github.com/seatwise/cinegate/internal/domain"
	"github.com/seatwise/cinegate/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var (
	testShowtime = domain.Showtime{ID: 501, Format: "IMAX", BasePrice: decimal.NewFromInt(12)}
	testMovie    = &domain.Movie{
		ID:        9,
		Title:     "Dune: Part Two",
		Slug:      "dune-part-two",
		Showtimes: []domain.Showtime{testShowtime},
	}
	testSeatMap = []domain.Seat{
		{ID: 11, Row: "A", Number: 1},
		{ID: 12, Row: "A", Number: 2},
		{ID: 13, Row: "A", Number: 3},
		{ID: 14, Row: "A", Number: 4, Reserved: true},
	}
)

type BookingFlowTestSuite struct {
	suite.Suite
	app       *application
	cinemaAPI *mocks.MockCinemaAPI
}

func (s *BookingFlowTestSuite) SetupTest() {
	s.cinemaAPI = new(mocks.MockCinemaAPI)

	s.app = newTestApplication(func(a *application) {
		a.cinemaClient = func(*cinema.Session) cinema.API {
			return s.cinemaAPI
		}
	})
}

func TestBookingFlowSuite(t *testing.T) {
	suite.Run(t, new(BookingFlowTestSuite))
}

func (s *BookingFlowTestSuite) serve(w *httptest.ResponseRecorder, r *http.Request) {
	s.app.routes().ServeHTTP(w, r)
}

// activeFlow is a flow with a selected showtime and a loaded seat map, the
// state after a successful showtime selection.
func activeFlow() *booking.Flow {
	flow := booking.New()
	flow.SelectShowtime(testMovie.Slug, testMovie.Title, testShowtime)
	flow.ApplySeatMap(testShowtime.ID, testSeatMap)

	return flow
}

func (s *BookingFlowTestSuite) TestSelectShowtimeLoadsSeatMap() {
	s.cinemaAPI.On("MovieBySlug", mock.Anything, "dune-part-two").Return(testMovie, nil)
	s.cinemaAPI.On("SeatMap", mock.Anything, 501).Return(testSeatMap, nil)

	input := api.SelectShowtimeRequest{MovieSlug: "dune-part-two", ShowtimeId: 501}
	w, r := executeRequest(s.T(), http.MethodPut, "/booking/showtime", input)
	r = setupTestSession(s.T(), s.app, r)

	s.serve(w, r)

	s.Equal(http.StatusOK, w.Code)

	resp := decodeFlowResponse(s.T(), w)
	s.Equal("idle", resp.State)
	s.Equal("dune-part-two", resp.MovieSlug)
	s.True(resp.SeatsReady)
	s.Len(resp.Seats, 4)
	s.Empty(resp.Selection)
	s.True(resp.Seats[3].Reserved)

	s.cinemaAPI.AssertExpectations(s.T())
}

func (s *BookingFlowTestSuite) TestSelectShowtimeRequiresAuthentication() {
	input := api.SelectShowtimeRequest{MovieSlug: "dune-part-two", ShowtimeId: 501}
	w, r := executeRequest(s.T(), http.MethodPut, "/booking/showtime", input)

	s.serve(w, r)

	s.Equal(http.StatusUnauthorized, w.Code)
	checkErrorResponse(s.T(), w, http.StatusUnauthorized, ErrAuthRequired)
	s.cinemaAPI.AssertNotCalled(s.T(), "SeatMap", mock.Anything, mock.Anything)
}

func (s *BookingFlowTestSuite) TestSelectShowtimeUnknownShowtimeDegrades() {
	s.cinemaAPI.On("MovieBySlug", mock.Anything, "dune-part-two").Return(testMovie, nil)

	input := api.SelectShowtimeRequest{MovieSlug: "dune-part-two", ShowtimeId: 999}
	w, r := executeRequest(s.T(), http.MethodPut, "/booking/showtime", input)
	r = setupTestSession(s.T(), s.app, r)

	s.serve(w, r)

	s.Equal(http.StatusOK, w.Code)

	resp := decodeFlowResponse(s.T(), w)
	s.Nil(resp.Showtime)
	s.False(resp.SeatsReady)

	s.cinemaAPI.AssertNotCalled(s.T(), "SeatMap", mock.Anything, mock.Anything)
}

func (s *BookingFlowTestSuite) TestSelectShowtimeSeatMapFailureKeepsSelection() {
	s.cinemaAPI.On("MovieBySlug", mock.Anything, "dune-part-two").Return(testMovie, nil)
	s.cinemaAPI.On("SeatMap", mock.Anything, 501).
		Return(nil, &cinema.NetworkError{Err: fmt.Errorf("connection refused")})

	input := api.SelectShowtimeRequest{MovieSlug: "dune-part-two", ShowtimeId: 501}
	w, r := executeRequest(s.T(), http.MethodPut, "/booking/showtime", input)
	r = setupTestSession(s.T(), s.app, r)

	s.serve(w, r)

	s.Equal(http.StatusBadGateway, w.Code)
	checkErrorResponse(s.T(), w, http.StatusBadGateway, ErrUpstreamUnavailable)

	// the selection survives; only the seat map is missing
	w2, r2 := executeRequest(s.T(), http.MethodGet, "/booking/", nil)
	r2 = r2.WithContext(r.Context())

	s.serve(w2, r2)

	resp := decodeFlowResponse(s.T(), w2)
	s.NotNil(resp.Showtime)
	s.Equal(501, resp.Showtime.Id)
	s.False(resp.SeatsReady)
}

func (s *BookingFlowTestSuite) TestToggleSeatAddsWithDefaultTicketType() {
	w, r := executeRequest(s.T(), http.MethodPost, "/booking/seats/11/toggle", nil)
	r = setupTestSession(s.T(), s.app, r)
	putTestFlow(s.T(), s.app, r, activeFlow())

	s.serve(w, r)

	s.Equal(http.StatusOK, w.Code)

	resp := decodeFlowResponse(s.T(), w)
	s.Len(resp.Selection, 1)
	s.Equal(11, resp.Selection[0].SeatId)
	s.Equal("A1", resp.Selection[0].Label)
	s.Equal("ADULT", resp.Selection[0].TicketType)
	s.Equal(1, resp.Summary.SeatCount)
	s.True(resp.Summary.Total.Equal(decimal.NewFromInt(12)))
}

func (s *BookingFlowTestSuite) TestToggleSeatTwiceRemovesIt() {
	w, r := executeRequest(s.T(), http.MethodPost, "/booking/seats/11/toggle", nil)
	r = setupTestSession(s.T(), s.app, r)
	putTestFlow(s.T(), s.app, r, activeFlow())

	s.serve(w, r)
	s.Equal(http.StatusOK, w.Code)

	w2, r2 := executeRequest(s.T(), http.MethodPost, "/booking/seats/11/toggle", nil)
	r2 = r2.WithContext(r.Context())

	s.serve(w2, r2)

	s.Equal(http.StatusOK, w2.Code)

	resp := decodeFlowResponse(s.T(), w2)
	s.Empty(resp.Selection)
	s.Equal(0, resp.Summary.SeatCount)
}

func (s *BookingFlowTestSuite) TestToggleReservedSeatIsRejected() {
	w, r := executeRequest(s.T(), http.MethodPost, "/booking/seats/14/toggle", nil)
	r = setupTestSession(s.T(), s.app, r)
	putTestFlow(s.T(), s.app, r, activeFlow())

	s.serve(w, r)

	s.Equal(http.StatusConflict, w.Code)
	checkErrorResponse(s.T(), w, http.StatusConflict, domain.ErrSeatReserved.Error())
}

func (s *BookingFlowTestSuite) TestToggleSeatBeforeSeatMapLoaded() {
	flow := booking.New()
	flow.SelectShowtime(testMovie.Slug, testMovie.Title, testShowtime)

	w, r := executeRequest(s.T(), http.MethodPost, "/booking/seats/11/toggle", nil)
	r = setupTestSession(s.T(), s.app, r)
	putTestFlow(s.T(), s.app, r, flow)

	s.serve(w, r)

	s.Equal(http.StatusBadRequest, w.Code)
	checkErrorResponse(s.T(), w, http.StatusBadRequest, domain.ErrSeatMapNotLoaded.Error())
}

func (s *BookingFlowTestSuite) TestSetTicketType() {
	tests := []struct {
		name           string
		seatID         int
		input          api.TicketTypeRequest
		selected       bool
		wantStatus     int
		wantErrMessage string
	}{
		{
			name:       "should update ticket type of a selected seat",
			seatID:     11,
			input:      api.TicketTypeRequest{TicketType: "STUDENT"},
			selected:   true,
			wantStatus: http.StatusOK,
		},
		{
			name:           "should fail for a seat outside the selection",
			seatID:         12,
			input:          api.TicketTypeRequest{TicketType: "STUDENT"},
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: domain.ErrSeatNotSelected.Error(),
		},
		{
			name:           "should fail for an unknown ticket type",
			seatID:         11,
			input:          api.TicketTypeRequest{TicketType: "TODDLER"},
			selected:       true,
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "must be one of ADULT, STUDENT, CHILD, SENIOR",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			flow := activeFlow()
			if tt.selected {
				s.Require().NoError(flow.ToggleSeat(11))
			}

			url := fmt.Sprintf("/booking/seats/%d/ticket-type", tt.seatID)
			w, r := executeRequest(s.T(), http.MethodPut, url, tt.input)
			r = setupTestSession(s.T(), s.app, r)
			putTestFlow(s.T(), s.app, r, flow)

			s.serve(w, r)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				resp := decodeFlowResponse(s.T(), w)
				s.Require().Len(resp.Selection, 1)
				s.Equal("STUDENT", resp.Selection[0].TicketType)
				return
			}

			checkErrorResponse(s.T(), w, tt.wantStatus, tt.wantErrMessage)
		})
	}
}

func (s *BookingFlowTestSuite) TestSetPaymentSavedCard() {
	s.cinemaAPI.On("PaymentCards", mock.Anything).Return([]domain.PaymentCard{
		{ID: 7, NumberMasked: "**** **** **** 9876", HolderName: "Jordan Smith"},
	}, nil)

	input := api.PaymentRequest{CardId: ptr(7)}
	w, r := executeRequest(s.T(), http.MethodPut, "/booking/payment", input)
	r = setupTestSession(s.T(), s.app, r)
	putTestFlow(s.T(), s.app, r, activeFlow())

	s.serve(w, r)

	s.Equal(http.StatusOK, w.Code)

	resp := decodeFlowResponse(s.T(), w)
	s.Require().NotNil(resp.Payment)
	s.Equal("saved-card", resp.Payment.Method)
	s.Equal(7, resp.Payment.CardId)
	s.Equal("9876", resp.Payment.Last4)
}

func (s *BookingFlowTestSuite) TestSetPaymentUnknownSavedCard() {
	s.cinemaAPI.On("PaymentCards", mock.Anything).Return([]domain.PaymentCard{}, nil)

	input := api.PaymentRequest{CardId: ptr(42)}
	w, r := executeRequest(s.T(), http.MethodPut, "/booking/payment", input)
	r = setupTestSession(s.T(), s.app, r)
	putTestFlow(s.T(), s.app, r, activeFlow())

	s.serve(w, r)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *BookingFlowTestSuite) TestSetPaymentAdHocDetailsKeepsOnlyLast4() {
	input := api.PaymentRequest{
		CardHolderName: "Jordan Smith",
		CardNumber:     "4242 4242 4242 4242",
		CardExpiry:     "12/27",
		CardCVC:        "123",
	}
	w, r := executeRequest(s.T(), http.MethodPut, "/booking/payment", input)
	r = setupTestSession(s.T(), s.app, r)
	putTestFlow(s.T(), s.app, r, activeFlow())

	s.serve(w, r)

	s.Equal(http.StatusOK, w.Code)

	resp := decodeFlowResponse(s.T(), w)
	s.Require().NotNil(resp.Payment)
	s.Equal("card", resp.Payment.Method)
	s.Equal("4242", resp.Payment.Last4)
	s.Zero(resp.Payment.CardId)
}

func (s *BookingFlowTestSuite) TestSetPaymentIncompleteDetails() {
	input := api.PaymentRequest{CardHolderName: "Jordan Smith"}
	w, r := executeRequest(s.T(), http.MethodPut, "/booking/payment", input)
	r = setupTestSession(s.T(), s.app, r)
	putTestFlow(s.T(), s.app, r, activeFlow())

	s.serve(w, r)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	checkErrorResponse(s.T(), w, http.StatusUnprocessableEntity, ErrPaymentIncomplete)
}

func (s *BookingFlowTestSuite) TestSetPaymentRejectsMalformedCardNumber() {
	input := api.PaymentRequest{
		CardHolderName: "Jordan Smith",
		CardNumber:     "not-a-card",
		CardExpiry:     "12/27",
		CardCVC:        "123",
	}
	w, r := executeRequest(s.T(), http.MethodPut, "/booking/payment", input)
	r = setupTestSession(s.T(), s.app, r)
	putTestFlow(s.T(), s.app, r, activeFlow())

	s.serve(w, r)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	checkErrorResponse(s.T(), w, http.StatusUnprocessableEntity, "must be a card number of 12 to 19 digits")
}

func (s *BookingFlowTestSuite) TestSubmitWithoutPaymentMakesNoUpstreamCall() {
	flow := activeFlow()
	s.Require().NoError(flow.ToggleSeat(11))

	w, r := executeRequest(s.T(), http.MethodPost, "/booking/submit", nil)
	r = setupTestSession(s.T(), s.app, r)
	putTestFlow(s.T(), s.app, r, flow)

	s.serve(w, r)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	checkErrorResponse(s.T(), w, http.StatusUnprocessableEntity, ErrPaymentIncomplete)
	s.cinemaAPI.AssertNotCalled(s.T(), "CreateBooking", mock.Anything, mock.Anything)
}

func (s *BookingFlowTestSuite) TestSubmitSuccess() {
	flow := activeFlow()
	s.Require().NoError(flow.ToggleSeat(12))
	s.Require().NoError(flow.ToggleSeat(13))
	s.Require().NoError(flow.SetTicketType(13, domain.TicketStudent))
	flow.UseSavedCard(domain.PaymentCard{ID: 7, NumberMasked: "**** 9876"})
	flow.SetPromoCode("SUMMER10")

	wantReq := domain.BookingRequest{
		ShowtimeID: 501,
		Seats: []domain.BookingSeat{
			{SeatID: 12, TicketType: domain.TicketAdult},
			{SeatID: 13, TicketType: domain.TicketStudent},
		},
		PaymentMethod: domain.PaymentMethodSavedCard,
		PaymentLast4:  "9876",
		PaymentCardID: 7,
		PromoCode:     "SUMMER10",
	}

	s.cinemaAPI.On("CreateBooking", mock.Anything, wantReq).
		Return(&domain.Booking{ID: 3001, ShowtimeID: 501, TotalPrice: decimal.NewFromInt(24)}, nil)

	w, r := executeRequest(s.T(), http.MethodPost, "/booking/submit", nil)
	r = setupTestSession(s.T(), s.app, r)
	putTestFlow(s.T(), s.app, r, flow)

	s.serve(w, r)

	s.Equal(http.StatusCreated, w.Code)

	var resp api.BookingConfirmationResponse
	s.Require().NoError(jsonDecode(w, &resp))
	s.Equal(3001, resp.Booking.Id)
	s.Equal("/bookings/my", resp.Redirect)

	// the flow is gone from the session once the booking is confirmed
	w2, r2 := executeRequest(s.T(), http.MethodGet, "/booking/", nil)
	r2 = r2.WithContext(r.Context())

	s.serve(w2, r2)

	flowResp := decodeFlowResponse(s.T(), w2)
	s.Nil(flowResp.Showtime)
	s.Empty(flowResp.Selection)

	s.cinemaAPI.AssertExpectations(s.T())
}

func (s *BookingFlowTestSuite) TestSubmitRejectionPreservesSelection() {
	flow := activeFlow()
	s.Require().NoError(flow.ToggleSeat(12))
	s.Require().NoError(flow.ToggleSeat(13))
	flow.UseSavedCard(domain.PaymentCard{ID: 7, NumberMasked: "**** 9876"})

	s.cinemaAPI.On("CreateBooking", mock.Anything, mock.Anything).
		Return(nil, &cinema.ServerError{StatusCode: http.StatusConflict, Message: "Seat 13 no longer available"})

	w, r := executeRequest(s.T(), http.MethodPost, "/booking/submit", nil)
	r = setupTestSession(s.T(), s.app, r)
	putTestFlow(s.T(), s.app, r, flow)

	s.serve(w, r)

	s.Equal(http.StatusConflict, w.Code)
	checkErrorResponse(s.T(), w, http.StatusConflict, "Seat 13 no longer available")

	w2, r2 := executeRequest(s.T(), http.MethodGet, "/booking/", nil)
	r2 = r2.WithContext(r.Context())

	s.serve(w2, r2)

	resp := decodeFlowResponse(s.T(), w2)
	s.Equal("idle", resp.State)
	s.Len(resp.Selection, 2)
	s.Require().NotNil(resp.Payment)
	s.Equal("9876", resp.Payment.Last4)
}

func (s *BookingFlowTestSuite) TestRefreshSeatMapDropsSeatsTakenMeanwhile() {
	flow := activeFlow()
	s.Require().NoError(flow.ToggleSeat(12))
	s.Require().NoError(flow.ToggleSeat(13))

	refreshed := []domain.Seat{
		{ID: 11, Row: "A", Number: 1},
		{ID: 12, Row: "A", Number: 2},
		{ID: 13, Row: "A", Number: 3, Reserved: true},
		{ID: 14, Row: "A", Number: 4, Reserved: true},
	}
	s.cinemaAPI.On("SeatMap", mock.Anything, 501).Return(refreshed, nil)

	w, r := executeRequest(s.T(), http.MethodPost, "/booking/seats/refresh", nil)
	r = setupTestSession(s.T(), s.app, r)
	putTestFlow(s.T(), s.app, r, flow)

	s.serve(w, r)

	s.Equal(http.StatusOK, w.Code)

	resp := decodeFlowResponse(s.T(), w)
	s.Require().Len(resp.Selection, 1)
	s.Equal(12, resp.Selection[0].SeatId)
	s.True(resp.Seats[2].Reserved)
}

func (s *BookingFlowTestSuite) TestRefreshSeatMapWithoutShowtime() {
	w, r := executeRequest(s.T(), http.MethodPost, "/booking/seats/refresh", nil)
	r = setupTestSession(s.T(), s.app, r)

	s.serve(w, r)

	s.Equal(http.StatusBadRequest, w.Code)
	checkErrorResponse(s.T(), w, http.StatusBadRequest, domain.ErrNoShowtimeSelected.Error())
	s.cinemaAPI.AssertNotCalled(s.T(), "SeatMap", mock.Anything, mock.Anything)
}

func (s *BookingFlowTestSuite) TestAbandonBookingFlow() {
	w, r := executeRequest(s.T(), http.MethodDelete, "/booking/", nil)
	r = setupTestSession(s.T(), s.app, r)
	putTestFlow(s.T(), s.app, r, activeFlow())

	s.serve(w, r)

	s.Equal(http.StatusNoContent, w.Code)

	w2, r2 := executeRequest(s.T(), http.MethodGet, "/booking/", nil)
	r2 = r2.WithContext(r.Context())

	s.serve(w2, r2)

	resp := decodeFlowResponse(s.T(), w2)
	s.Nil(resp.Showtime)
	s.False(resp.SeatsReady)
}
