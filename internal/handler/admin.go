package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hikewise/trail-pass-reservation/internal/service"
)

// Reconciler is the slice of the inventory reconciler the admin
// handler consumes.
type Reconciler interface {
	BatchUpdate(ctx context.Context, in service.BatchUpdateInput) (*service.BatchUpdateResult, error)
}

// BulkCanceller cancels every active order a user holds.
type BulkCanceller interface {
	BulkCancelByUser(ctx context.Context, userID uint64) error
}

// AdminHandler exposes the inventory reconciliation and bulk
// cancellation endpoints.  Routes mounting it must require the ADMIN
// role.
type AdminHandler struct {
	reconciler Reconciler
	canceller  BulkCanceller
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(reconciler Reconciler, canceller BulkCanceller) *AdminHandler {
	if reconciler == nil || canceller == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{reconciler: reconciler, canceller: canceller}
}

// UpdateCapacity handles PUT /v1/admin/stages/:id/capacity.  The body
// carries an inclusive date range plus the new quantity, or a stage
// closure.  When a requested quantity had to be forced up to the
// reserved count the response status is 206 so the caller knows the
// update was only partially honoured.
func (h *AdminHandler) UpdateCapacity(c echo.Context) error {
	stageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || stageID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stage id"})
	}
	var body struct {
		Quantity     uint32 `json:"quantity"`
		StartDate    string `json:"start_date"`
		EndDate      string `json:"end_date"`
		StageClosure bool   `json:"stage_closure"`
		Reason       string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	start, ok := parseDate(body.StartDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	end, ok := parseDate(body.EndDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be YYYY-MM-DD"})
	}
	if end.Before(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date before start_date"})
	}
	if body.StageClosure && body.Quantity != 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stage_closure requires quantity 0"})
	}

	result, err := h.reconciler.BatchUpdate(c.Request().Context(), service.BatchUpdateInput{
		StageID:      stageID,
		Quantity:     body.Quantity,
		StartDate:    start,
		EndDate:      end,
		StageClosure: body.StageClosure,
		Reason:       body.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}

	status := http.StatusOK
	if result.Adjusted {
		status = http.StatusPartialContent
	}
	return c.JSON(status, echo.Map{
		"records":  result.Records,
		"adjusted": result.Adjusted,
	})
}

// CancelUserOrders handles DELETE /v1/admin/users/:id/orders.  Every
// active order the user holds is cancelled regardless of the lock
// window.
func (h *AdminHandler) CancelUserOrders(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || userID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if err := h.canceller.BulkCancelByUser(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
