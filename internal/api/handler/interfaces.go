package handler

import (
	"context"

	"github.com/its-samarth/workwise-backend/internal/application"
	"github.com/its-samarth/workwise-backend/internal/domain/booking"
	"github.com/its-samarth/workwise-backend/internal/domain/seat"
)

// SeatServiceInterface は座席サービスのインターフェース
type SeatServiceInterface interface {
	GetAllSeats(ctx context.Context) ([]*seat.Seat, error)
	GetAvailableSeats(ctx context.Context) ([]*seat.Seat, error)
	CountAvailableSeats(ctx context.Context) (int, error)
}

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, input application.CreateBookingInput) (*booking.Booking, error)
	GetBooking(ctx context.Context, id int64) (*booking.Booking, error)
	GetUserBookings(ctx context.Context, userID string, limit, offset int) ([]*booking.Booking, error)
	CancelBooking(ctx context.Context, id int64) (*booking.Booking, error)
	Reset(ctx context.Context) error
}
