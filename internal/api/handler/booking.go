package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/its-samarth/workwise-backend/internal/application"
	"github.com/its-samarth/workwise-backend/internal/domain/allocation"
	"github.com/its-samarth/workwise-backend/internal/domain/booking"
	"github.com/its-samarth/workwise-backend/internal/domain/seat"
	"github.com/its-samarth/workwise-backend/internal/pkg/metrics"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type CreateBookingRequest struct {
	NumberOfSeats int `json:"number_of_seats" validate:"required,min=1" example:"4"`
}

type BookingResponse struct {
	ID        int64     `json:"id" example:"1"`
	UserID    string    `json:"user_id" example:"user-123"`
	Status    string    `json:"status" example:"ACTIVE"`
	SeatIDs   []int64   `json:"seat_ids" example:"8,9,10,11"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID: b.ID, UserID: b.UserID, Status: string(b.Status),
		SeatIDs: b.SeatIDs, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt,
	}
}

// Create godoc
// @Summary 予約を作成
// @Description 指定した席数を自動割り当てして予約します
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param request body CreateBookingRequest true "予約情報"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string "座席の予約が競合"
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	b, err := h.service.CreateBooking(c.Request().Context(), application.CreateBookingInput{
		UserID: userID, NumberOfSeats: req.NumberOfSeats,
	})
	if err != nil {
		recordBookingResult(bookingResultStatus(err))
		switch {
		case errors.Is(err, booking.ErrTooManySeats), errors.Is(err, booking.ErrInvalidSeatCount):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, allocation.ErrNotEnoughSeats):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, seat.ErrSeatConflict):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	recordBookingResult("success")
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// GetByID godoc
// @Summary 予約を取得
// @Description 指定IDの予約を取得します
// @Tags bookings
// @Produce json
// @Param id path int true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効な予約IDです")
	}
	b, err := h.service.GetBooking(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// GetUserBookings godoc
// @Summary ユーザーの予約一覧を取得
// @Description ログインユーザーの予約一覧を取得します
// @Tags bookings
// @Produce json
// @Param X-User-ID header string true "ユーザーID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} BookingResponse
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) GetUserBookings(c echo.Context) error {
	userID := c.Request().Header.Get("X-User-ID")
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "ユーザーIDが必要です")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	bookings, err := h.service.GetUserBookings(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	return c.JSON(http.StatusOK, resp)
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 予約をキャンセルし、座席を解放します
// @Tags bookings
// @Produce json
// @Param id path int true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効な予約IDです")
	}
	b, err := h.service.CancelBooking(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// bookingResultStatus はエラーをメトリクス用のステータスラベルに変換する
func bookingResultStatus(err error) string {
	switch {
	case errors.Is(err, allocation.ErrNotEnoughSeats):
		return "not_enough_seats"
	case errors.Is(err, booking.ErrTooManySeats):
		return "too_many_seats"
	case errors.Is(err, seat.ErrSeatConflict):
		return "conflict"
	default:
		return "error"
	}
}

func recordBookingResult(status string) {
	if m := metrics.Get(); m != nil {
		m.BookingsTotal.WithLabelValues(status).Inc()
	}
}
