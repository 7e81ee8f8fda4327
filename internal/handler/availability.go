package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hikewise/trail-pass-reservation/internal/model"
	"github.com/hikewise/trail-pass-reservation/internal/repository"
)

// AvailabilityStore is the read-only slice of the store the public
// availability endpoint needs.
type AvailabilityStore interface {
	StageByID(ctx context.Context, stageID uint64) (*model.Stage, error)
	CapacityByStageAndDate(ctx context.Context, stageID uint64, date time.Time) (*model.StageCapacity, error)
	ReservedCount(ctx context.Context, stageID uint64, date time.Time) (uint32, error)
}

// AvailabilityHandler serves the unauthenticated remaining-capacity
// lookup.  Responses are cached by the response cache middleware, so
// the figures may lag writes by up to the cache TTL.
type AvailabilityHandler struct {
	store AvailabilityStore
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(store AvailabilityStore) *AvailabilityHandler {
	if store == nil {
		panic("nil store passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{store: store}
}

// Get handles GET /v1/stages/:id/availability?date=YYYY-MM-DD.
func (h *AvailabilityHandler) Get(c echo.Context) error {
	stageID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || stageID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stage id"})
	}
	date, ok := parseDate(c.QueryParam("date"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx := c.Request().Context()
	stage, err := h.store.StageByID(ctx, stageID)
	if err != nil {
		return writeError(c, err)
	}

	// A stage with no capacity row for the date simply has nothing on
	// sale; that is a valid zero answer, not an error.
	var quantity uint32
	capacity, err := h.store.CapacityByStageAndDate(ctx, stageID, date)
	switch {
	case err == nil:
		quantity = capacity.InventoryQty
	case errors.Is(err, repository.ErrCapacityNotFound):
		quantity = 0
	default:
		return writeError(c, err)
	}

	reserved, err := h.store.ReservedCount(ctx, stageID, date)
	if err != nil {
		return writeError(c, err)
	}
	remaining := int64(quantity) - int64(reserved)
	if remaining < 0 {
		remaining = 0
	}

	return c.JSON(http.StatusOK, echo.Map{
		"stage_id":   stage.ID,
		"stage_name": stage.Name,
		"date":       date.Format("2006-01-02"),
		"quantity":   quantity,
		"reserved":   reserved,
		"remaining":  remaining,
	})
}
