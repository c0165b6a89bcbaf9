package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminHandler は管理用操作のハンドラー
type AdminHandler struct {
	service BookingServiceInterface
}

func NewAdminHandler(s BookingServiceInterface) *AdminHandler {
	return &AdminHandler{service: s}
}

// Reset godoc
// @Summary 全座席をリセット
// @Description 全予約を削除し、全座席を空席に戻します
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/reset [post]
func (h *AdminHandler) Reset(c echo.Context) error {
	if err := h.service.Reset(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "全座席をリセットしました"})
}
