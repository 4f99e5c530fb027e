// Package api defines the gateway's request and response types. The
// upstream cinema API publishes no machine-readable schema, so these are
// maintained by hand instead of generated.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"request_id,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validation_errors"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"system_info"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	Id        int    `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type AuthStatusResponse struct {
	Authenticated bool          `json:"is_authenticated"`
	User          *UserResponse `json:"user,omitempty"`
}

type Showtime struct {
	Id        int             `json:"id"`
	StartsAt  time.Time       `json:"starts_at"`
	Format    string          `json:"format"`
	BasePrice decimal.Decimal `json:"base_price"`
	RoomName  string          `json:"room_name,omitempty"`
}

type MovieSummary struct {
	Id        int        `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Genre     string     `json:"genre,omitempty"`
	Rating    string     `json:"rating,omitempty"`
	PosterUrl string     `json:"poster_url,omitempty"`
	Category  string     `json:"category,omitempty"`
	Showtimes []Showtime `json:"showtimes"`
}

type MovieListResponse struct {
	Movies []MovieSummary `json:"movies"`
}

type MovieResponse struct {
	Movie MovieSummary `json:"movie"`
}

type SelectShowtimeRequest struct {
	MovieSlug  string `json:"movie_slug" validate:"required"`
	ShowtimeId int    `json:"showtime_id" validate:"required,min=1"`
}

type Seat struct {
	Id       int    `json:"id"`
	Label    string `json:"label"`
	Row      string `json:"row"`
	Number   int    `json:"number"`
	Reserved bool   `json:"reserved"`
	Selected bool   `json:"selected"`
}

type SelectionEntry struct {
	SeatId     int    `json:"seat_id"`
	Label      string `json:"label"`
	TicketType string `json:"ticket_type"`
}

type PaymentDescriptor struct {
	Method string `json:"method"`
	CardId int    `json:"card_id,omitempty"`
	Last4  string `json:"last4,omitempty"`
}

type PriceSummary struct {
	SeatCount int             `json:"seat_count"`
	BasePrice decimal.Decimal `json:"base_price"`
	Total     decimal.Decimal `json:"total"`
	Tickets   map[string]int  `json:"tickets"`
}

type BookingFlowResponse struct {
	State      string             `json:"state"`
	MovieSlug  string             `json:"movie_slug,omitempty"`
	MovieTitle string             `json:"movie_title,omitempty"`
	Showtime   *Showtime          `json:"showtime,omitempty"`
	SeatsReady bool               `json:"seats_ready"`
	Seats      []Seat             `json:"seats,omitempty"`
	Selection  []SelectionEntry   `json:"selection"`
	Payment    *PaymentDescriptor `json:"payment,omitempty"`
	PromoCode  string             `json:"promo_code,omitempty"`
	Summary    PriceSummary       `json:"summary"`
}

type TicketTypeRequest struct {
	TicketType string `json:"ticket_type" validate:"required,ticket_type"`
}

type PaymentRequest struct {
	CardId         *int   `json:"card_id,omitempty" validate:"omitempty,min=1"`
	CardHolderName string `json:"card_holder_name,omitempty" validate:"required_without=CardId"`
	CardNumber     string `json:"card_number,omitempty" validate:"required_without=CardId,omitempty,card_number"`
	CardExpiry     string `json:"card_expiry,omitempty" validate:"required_without=CardId,omitempty,card_expiry"`
	CardCVC        string `json:"card_cvc,omitempty" validate:"required_without=CardId,omitempty,card_cvc"`
}

type PromoRequest struct {
	PromoCode string `json:"promo_code" validate:"required,max=64"`
}

type PromoResponse struct {
	PromoCode       string          `json:"promo_code"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Description     string          `json:"description,omitempty"`
}

type PaymentCard struct {
	Id           int    `json:"id"`
	NumberMasked string `json:"card_number_masked"`
	HolderName   string `json:"card_holder_name"`
	ExpiryMonth  int    `json:"expiry_month"`
	ExpiryYear   int    `json:"expiry_year"`
	IsDefault    bool   `json:"is_default"`
}

type PaymentCardsResponse struct {
	Cards []PaymentCard `json:"cards"`
}

type Booking struct {
	Id         int             `json:"id"`
	ShowtimeId int             `json:"showtime_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	PromoCode  string          `json:"promo_code,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type BookingConfirmationResponse struct {
	Booking  Booking `json:"booking"`
	Redirect string  `json:"redirect"`
}

type BookingListResponse struct {
	Bookings []Booking `json:"bookings"`
}
