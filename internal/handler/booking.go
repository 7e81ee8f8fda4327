package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hikewise/trail-pass-reservation/internal/service"
)

// Allocator is the slice of the order allocator the booking handler
// consumes.
type Allocator interface {
	CreateOrder(ctx context.Context, in service.CreateOrderInput) (*service.CreateOrderResult, error)
}

// BookingHandler exposes order creation to authenticated hikers.  All
// validation and the overbooking guard live in the service; the
// handler only binds the request and maps errors to status codes.
type BookingHandler struct {
	allocator Allocator
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(allocator Allocator) *BookingHandler {
	if allocator == nil {
		panic("nil allocator passed to NewBookingHandler")
	}
	return &BookingHandler{allocator: allocator}
}

// CreateOrder handles POST /v1/orders.  The body carries the stage,
// the date and the adult/child breakdown; the user comes from the
// access token.  Returns 201 with the created order and its public
// pass numbers.
func (h *BookingHandler) CreateOrder(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		StageID    uint64 `json:"stage_id"`
		Date       string `json:"date"`
		AdultCount uint32 `json:"adult_count"`
		ChildCount uint32 `json:"child_count"`
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

	res, err := h.allocator.CreateOrder(c.Request().Context(), service.CreateOrderInput{
		UserID:     userID,
		StageID:    body.StageID,
		Date:       date,
		AdultCount: body.AdultCount,
		ChildCount: body.ChildCount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"order_id":     res.Order.ID,
		"stage_id":     res.Order.StageID,
		"reserved_for": res.Order.ReservedFor.Format("2006-01-02"),
		"adult_count":  res.AdultCount,
		"child_count":  res.ChildCount,
		"pass_numbers": res.PassNumbers,
		"created_at":   res.Order.CreatedAt.UTC().Format(time.RFC3339),
	})
}
