package mocks

import (
	"context"

	"github.com/seatwise/cinegate/internal/cinema"
	"github.com/seatwise/cinegate/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockCinemaAPI is a testify mock of the upstream cinema API client.
type MockCinemaAPI struct {
	mock.Mock
}

func (m *MockCinemaAPI) Movies(ctx context.Context) ([]domain.Movie, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movie), args.Error(1)
}

func (m *MockCinemaAPI) MovieBySlug(ctx context.Context, slug string) (*domain.Movie, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movie), args.Error(1)
}

func (m *MockCinemaAPI) SeatMap(ctx context.Context, showtimeID int) ([]domain.Seat, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Seat), args.Error(1)
}

func (m *MockCinemaAPI) PaymentCards(ctx context.Context) ([]domain.PaymentCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentCard), args.Error(1)
}

func (m *MockCinemaAPI) ValidatePromo(ctx context.Context, code string) (*domain.PromoResult, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PromoResult), args.Error(1)
}

func (m *MockCinemaAPI) CreateBooking(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockCinemaAPI) MyBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockCinemaAPI) Login(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockCinemaAPI) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCinemaAPI) AuthStatus(ctx context.Context) (*cinema.AuthStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cinema.AuthStatus), args.Error(1)
}
