package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// Lifecycle is the slice of the pass lifecycle manager the pass
// handler consumes.
type Lifecycle interface {
	Transfer(ctx context.Context, passID, fromUserID, toUserID uint64) error
	AmendOrder(ctx context.Context, orderID, userID, newStageID uint64, newDate time.Time) error
	Cancel(ctx context.Context, passID, userID uint64) error
}

// PassHandler exposes transfer, amendment and cancellation of
// existing bookings to their owners.
type PassHandler struct {
	lifecycle Lifecycle
}

// NewPassHandler constructs a PassHandler.
func NewPassHandler(lifecycle Lifecycle) *PassHandler {
	if lifecycle == nil {
		panic("nil lifecycle passed to NewPassHandler")
	}
	return &PassHandler{lifecycle: lifecycle}
}

// Transfer handles POST /v1/passes/:id/transfer.  The body names the
// destination user; the source owner comes from the access token.
func (h *PassHandler) Transfer(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	passID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || passID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid pass id"})
	}
	var body struct {
		ToUserID uint64 `json:"to_user_id"`
	}
	if err := c.Bind(&body); err != nil || body.ToUserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to_user_id is required"})
	}
	if err := h.lifecycle.Transfer(c.Request().Context(), passID, userID, body.ToUserID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"transferred": true})
}

// Amend handles POST /v1/orders/:id/amend.  It reschedules every
// still-movable pass of the order to a new stage and/or date; the
// move is all-or-nothing.
func (h *PassHandler) Amend(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var body struct {
		StageID uint64 `json:"stage_id"`
		Date    string `json:"date"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.StageID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stage_id is required"})
	}
	date, ok := parseDate(body.Date)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if err := h.lifecycle.AmendOrder(c.Request().Context(), orderID, userID, body.StageID, date); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"amended": true})
}

// Cancel handles DELETE /v1/passes/:id.  Cancelling one pass cancels
// its whole order; returns 204 on success.
func (h *PassHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	passID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || passID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid pass id"})
	}
	if err := h.lifecycle.Cancel(c.Request().Context(), passID, userID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
