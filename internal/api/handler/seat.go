package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/its-samarth/workwise-backend/internal/domain/seat"
)

type SeatHandler struct {
	service SeatServiceInterface
}

func NewSeatHandler(s SeatServiceInterface) *SeatHandler {
	return &SeatHandler{service: s}
}

type SeatResponse struct {
	ID         int64     `json:"id"`
	SeatNumber int       `json:"seat_number"`
	RowNumber  int       `json:"row_number"`
	IsBooked   bool      `json:"is_booked"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toSeatResponse(s *seat.Seat) SeatResponse {
	return SeatResponse{
		ID: s.ID, SeatNumber: s.SeatNumber, RowNumber: s.RowNumber,
		IsBooked: s.IsBooked, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

// List は座席一覧を返す
// available=true クエリパラメータで空席のみに絞り込む
func (h *SeatHandler) List(c echo.Context) error {
	availableOnly := c.QueryParam("available") == "true"
	var seats []*seat.Seat
	var err error
	if availableOnly {
		seats, err = h.service.GetAvailableSeats(c.Request().Context())
	} else {
		seats, err = h.service.GetAllSeats(c.Request().Context())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]SeatResponse, len(seats))
	for i, s := range seats {
		resp[i] = toSeatResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

// CountAvailable は空席数を返す
func (h *SeatHandler) CountAvailable(c echo.Context) error {
	count, err := h.service.CountAvailableSeats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}
