// Package cinema is the HTTP client for the remote cinema API. The API
// owns the movie catalog, seat inventory, promotions, bookings, and
// authentication; this package only speaks its wire contract and maps its
// failures onto the gateway's error taxonomy.
package cinema

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/seatwise/cinegate/internal/domain"
)

const defaultTimeout = 10 * time.Second

// API is the contract the booking flow depends on. Handlers receive it as
// an interface so tests can swap in a mock upstream.
type API interface {
	Movies(ctx context.Context) ([]domain.Movie, error)
	MovieBySlug(ctx context.Context, slug string) (*domain.Movie, error)
	SeatMap(ctx context.Context, showtimeID int) ([]domain.Seat, error)
	PaymentCards(ctx context.Context) ([]domain.PaymentCard, error)
	ValidatePromo(ctx context.Context, code string) (*domain.PromoResult, error)
	CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error)
	MyBookings(ctx context.Context) ([]domain.Booking, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Logout(ctx context.Context) error
	AuthStatus(ctx context.Context) (*AuthStatus, error)
}

type AuthStatus struct {
	Authenticated bool         `json:"isAuthenticated"`
	User          *domain.User `json:"user,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

func New(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		session: NewSession(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// WithSession binds a copy of the client to one user's upstream session.
// Cookies set by upstream responses are absorbed into the given session,
// so the caller can persist it afterwards.
func (c *Client) WithSession(session *Session) *Client {
	bound := *c
	bound.session = session

	return &bound
}

func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) Movies(ctx context.Context) ([]domain.Movie, error) {
	var movies []domain.Movie
	if err := c.do(ctx, http.MethodGet, "/movies/", nil, &movies); err != nil {
		return nil, err
	}

	return movies, nil
}

func (c *Client) MovieBySlug(ctx context.Context, slug string) (*domain.Movie, error) {
	var movie domain.Movie
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/movies/%s/", slug), nil, &movie); err != nil {
		return nil, err
	}

	return &movie, nil
}

func (c *Client) SeatMap(ctx context.Context, showtimeID int) ([]domain.Seat, error) {
	var seats []domain.Seat
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/showtimes/%d/seats/", showtimeID), nil, &seats); err != nil {
		return nil, err
	}

	return seats, nil
}

func (c *Client) PaymentCards(ctx context.Context) ([]domain.PaymentCard, error) {
	var cards []domain.PaymentCard
	if err := c.do(ctx, http.MethodGet, "/auth/payment-cards/", nil, &cards); err != nil {
		return nil, err
	}

	return cards, nil
}

func (c *Client) ValidatePromo(ctx context.Context, code string) (*domain.PromoResult, error) {
	input := map[string]string{"promo_code": code}

	var result domain.PromoResult
	if err := c.do(ctx, http.MethodPost, "/promotions/validate/", input, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	var booking domain.Booking
	if err := c.do(ctx, http.MethodPost, "/bookings/", req, &booking); err != nil {
		return nil, err
	}

	return &booking, nil
}

func (c *Client) MyBookings(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := c.do(ctx, http.MethodGet, "/bookings/my/", nil, &bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

// Login authenticates against the upstream. The CSRF cookie is primed via
// the status endpoint first when the session doesn't carry one yet.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if c.session.csrfToken() == "" {
		if _, err := c.AuthStatus(ctx); err != nil {
			return nil, err
		}
	}

	input := map[string]string{"email": email, "password": password}

	var resp struct {
		Message string      `json:"message"`
		User    domain.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login/", input, &resp); err != nil {
		return nil, err
	}

	return &resp.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout/", nil, nil)
}

func (c *Client) AuthStatus(ctx context.Context) (*AuthStatus, error) {
	var status AuthStatus
	if err := c.do(ctx, http.MethodGet, "/auth/status/", nil, &status); err != nil {
		return nil, err
	}

	return &status, nil
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}

	return false
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if header := c.session.cookieHeader(); header != "" {
		req.Header.Set("Cookie", header)
	}

	// state-changing requests carry the CSRF token read from the cookie
	if !safeMethod(method) {
		if token := c.session.csrfToken(); token != "" {
			req.Header.Set("X-CSRFToken", token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	c.session.absorb(resp)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrAuthRequired
	}

	if resp.StatusCode >= 400 {
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(data, http.StatusText(resp.StatusCode)),
		}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}

	return nil
}
